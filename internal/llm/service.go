package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/locvx/ghichep/internal/common"
	"github.com/locvx/ghichep/internal/format"
	"github.com/locvx/ghichep/internal/model"
	"github.com/locvx/ghichep/internal/service"
)

// Service wraps a Client with rate limiting and retries and exposes the
// application-level language tasks.
type Service struct {
	client     Client
	limiter    *rateLimiter
	logger     *slog.Logger
	categories []string
	retry      service.RetryOptions
}

// NewService creates the language service. categories is the list of known
// category names included in the prompts so the model picks from them.
func NewService(client Client, cfg Config, categories []string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	maxAttempts := cfg.MaxRetries
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return &Service{
		client:     client,
		limiter:    newRateLimiter(cfg.RateLimit),
		logger:     logger,
		categories: categories,
		retry: service.RetryOptions{
			MaxAttempts:  maxAttempts,
			InitialDelay: delay,
			MaxDelay:     10 * time.Second,
			Multiplier:   2,
		},
	}
}

// Close stops the rate limiter.
func (s *Service) Close() {
	s.limiter.stop()
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	if err := s.limiter.wait(ctx); err != nil {
		return "", err
	}
	var out string
	err := common.WithRetry(ctx, func() error {
		var genErr error
		out, genErr = s.client.Generate(ctx, prompt)
		return genErr
	}, s.retry)
	return out, err
}

type parsedTransactionJSON struct {
	Note     string  `json:"note"`
	Category string  `json:"category"`
	Type     string  `json:"type"`
	Amount   float64 `json:"amount"`
}

type parseResponseJSON struct {
	Message      string                  `json:"message"`
	Transactions []parsedTransactionJSON `json:"transactions"`
	Understood   bool                    `json:"understood"`
}

// Parse extracts transactions from a free-form utterance.
func (s *Service) Parse(ctx context.Context, text string) (service.ParseResult, error) {
	out, err := s.generate(ctx, buildParsePrompt(text, s.categories))
	if err != nil {
		return service.ParseResult{}, fmt.Errorf("parse request failed: %w", err)
	}

	raw, err := extractJSON(out)
	if err != nil {
		return service.ParseResult{}, fmt.Errorf("parse response malformed: %w", err)
	}
	var resp parseResponseJSON
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return service.ParseResult{}, fmt.Errorf("parse response malformed: %w", err)
	}

	result := service.ParseResult{
		Understood: resp.Understood,
		Message:    resp.Message,
	}
	for _, txn := range resp.Transactions {
		if txn.Amount <= 0 {
			continue
		}
		kind := model.KindExpense
		if txn.Type == "income" {
			kind = model.KindIncome
		}
		result.Transactions = append(result.Transactions, service.ParsedTransaction{
			Amount:   int64(txn.Amount),
			Note:     strings.TrimSpace(txn.Note),
			Category: strings.TrimSpace(txn.Category),
			Kind:     kind,
		})
	}
	if len(result.Transactions) == 0 {
		result.Understood = false
	}
	return result, nil
}

type intentResponseJSON struct {
	TimeRange string `json:"time_range"`
	Category  string `json:"category"`
	Keyword   string `json:"keyword"`
	IsQuery   bool   `json:"is_query"`
}

// ParseQueryIntent extracts a structured query intent from a question.
func (s *Service) ParseQueryIntent(ctx context.Context, text string, categories []string) (model.Intent, error) {
	if len(categories) == 0 {
		categories = s.categories
	}
	out, err := s.generate(ctx, buildIntentPrompt(text, categories))
	if err != nil {
		return model.Intent{}, fmt.Errorf("intent request failed: %w", err)
	}

	raw, err := extractJSON(out)
	if err != nil {
		return model.Intent{}, fmt.Errorf("intent response malformed: %w", err)
	}
	var resp intentResponseJSON
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return model.Intent{}, fmt.Errorf("intent response malformed: %w", err)
	}

	rng := model.TimeRange(resp.TimeRange)
	if !rng.Valid() {
		rng = model.RangeAll
	}
	return model.Intent{
		IsQuery:      resp.IsQuery,
		Range:        rng,
		CategoryName: strings.TrimSpace(resp.Category),
		Keyword:      strings.TrimSpace(resp.Keyword),
	}, nil
}

// Comment produces a short playful remark about a recorded transaction. An
// empty string is a valid result; callers treat errors the same way.
func (s *Service) Comment(ctx context.Context, amount int64, note, category string, kind model.Kind) (string, error) {
	kindText := "chi tiêu"
	if kind == model.KindIncome {
		kindText = "thu nhập"
	}
	prompt := fmt.Sprintf(commentPrompt, kindText, format.CurrencyFull(amount), note, category)
	out, err := s.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("comment request failed: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Chat answers a message that carries no transaction.
func (s *Service) Chat(ctx context.Context, text string) (string, error) {
	out, err := s.generate(ctx, fmt.Sprintf(chatPrompt, text))
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Transcribe converts a voice message to Vietnamese text.
func (s *Service) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "audio/ogg"
	}
	if err := s.limiter.wait(ctx); err != nil {
		return "", err
	}
	var out string
	err := common.WithRetry(ctx, func() error {
		var genErr error
		out, genErr = s.client.GenerateWithAudio(ctx, transcribePrompt, audio, mimeType)
		return genErr
	}, s.retry)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" || out == "[không nghe rõ]" {
		return "", fmt.Errorf("speech was not intelligible")
	}
	return out, nil
}

// Interface checks.
var (
	_ service.Parser      = (*Service)(nil)
	_ service.Transcriber = (*Service)(nil)
)
