package llm

import (
	"fmt"
	"strings"
)

// cleanMarkdownWrapper strips a ```json ... ``` fence the model sometimes
// wraps its output in despite instructions.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

// extractJSON returns the first top-level JSON object embedded in content.
func extractJSON(content string) (string, error) {
	content = cleanMarkdownWrapper(content)
	start := strings.IndexByte(content, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object in response")
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		ch := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unterminated JSON object in response")
}
