// Package llm talks to the hosted Gemini API for the language tasks the rule
// engine cannot do alone: free-form transaction parsing, query intent
// extraction, voice transcription and small talk. Every caller must be
// prepared for the service to be disabled or failing and fall back to rules.
package llm

import (
	"context"
	"time"
)

// Client is the low-level generative API surface.
type Client interface {
	// Generate sends a text prompt and returns the raw model output.
	Generate(ctx context.Context, prompt string) (string, error)
	// GenerateWithAudio sends a prompt plus an inline audio attachment.
	GenerateWithAudio(ctx context.Context, prompt string, audio []byte, mimeType string) (string, error)
}

// Config holds settings for the generative API client.
type Config struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	MaxRetries  int
	RetryDelay  time.Duration
	RateLimit   int // requests per minute
}

// Enabled reports whether the configuration carries an API key.
func (c Config) Enabled() bool {
	return c.APIKey != ""
}
