package parse

import (
	"regexp"
	"strings"
)

// Conjunctions and punctuation that join independent transaction mentions.
var separatorPattern = regexp.MustCompile(`(?i)\s*[;,]\s*|\s+và\s+|\s+với\s+`)

// Split breaks one message into independent transaction phrases. A segment
// is only split off when it carries its own amount token; a segment without
// one is a qualifier of its neighbor and is merged back, so "tiền nhà, 2
// triệu" stays a single phrase.
func Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	segments := separatorPattern.Split(text, -1)

	var phrases []string
	carry := ""
	found := false
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if carry != "" {
			seg = carry + " " + seg
			carry = ""
		}
		if HasAmount(seg) {
			phrases = append(phrases, seg)
			found = true
			continue
		}
		if len(phrases) > 0 {
			// Trailing qualifier: attach to the previous phrase.
			phrases[len(phrases)-1] += " " + seg
		} else {
			// Leading qualifier: hold for the next segment.
			carry = seg
		}
	}
	if carry != "" {
		if len(phrases) > 0 {
			phrases[len(phrases)-1] += " " + carry
		} else {
			phrases = append(phrases, carry)
		}
	}

	// With no amount anywhere the message is one indivisible utterance.
	if !found {
		return []string{text}
	}
	return phrases
}

// Phrases splits text and normalizes each resulting phrase. It returns
// ErrNoAmount when no phrase carries an amount token.
func Phrases(text string, opts Options) ([]Phrase, error) {
	var out []Phrase
	for _, raw := range Split(text) {
		p, err := Extract(raw, opts)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, ErrNoAmount
	}
	return out, nil
}
