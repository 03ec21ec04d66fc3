package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/locvx/ghichep/internal/common"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

// geminiClient implements the Client interface for the Gemini API.
type geminiClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
}

// NewGeminiClient creates a Gemini API client.
func NewGeminiClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key is required", common.ErrMissingConfig)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	return &geminiClient{
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiRequest struct {
	Contents []struct {
		Parts []geminiPart `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends a text prompt to the Gemini API.
func (c *geminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, []geminiPart{{Text: prompt}})
}

// GenerateWithAudio sends a prompt plus an inline audio attachment.
func (c *geminiClient) GenerateWithAudio(ctx context.Context, prompt string, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("audio payload is empty")
	}
	parts := []geminiPart{
		{Text: prompt},
		{InlineData: &geminiInlineData{
			MIMEType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(audio),
		}},
	}
	return c.generate(ctx, parts)
}

func (c *geminiClient) generate(ctx context.Context, parts []geminiPart) (string, error) {
	var reqBody geminiRequest
	reqBody.Contents = append(reqBody.Contents, struct {
		Parts []geminiPart `json:"parts"`
	}{Parts: parts})
	reqBody.GenerationConfig.Temperature = c.temperature
	reqBody.GenerationConfig.MaxOutputTokens = c.maxTokens

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", geminiEndpoint, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(jsonBody)))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", common.ErrRateLimit
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Gemini API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response geminiResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no completion candidates returned")
	}

	return response.Candidates[0].Content.Parts[0].Text, nil
}
