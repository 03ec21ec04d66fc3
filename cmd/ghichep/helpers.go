package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/locvx/ghichep/internal/aggregate"
	"github.com/locvx/ghichep/internal/classify"
	"github.com/locvx/ghichep/internal/config"
	"github.com/locvx/ghichep/internal/engine"
	"github.com/locvx/ghichep/internal/identity"
	"github.com/locvx/ghichep/internal/llm"
	"github.com/locvx/ghichep/internal/parse"
	"github.com/locvx/ghichep/internal/service"
	"github.com/locvx/ghichep/internal/session"
	"github.com/locvx/ghichep/internal/storage"
)

// initStorage opens the database and applies pending migrations.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/ghichep/ghichep.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := store.SeedCategories(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}
	return store, nil
}

// initLanguageService builds the Gemini-backed service when an API key is
// configured, or returns nil so the engine runs on rules alone.
func initLanguageService(ctx context.Context, store service.Storage) (*llm.Service, error) {
	cfg := llm.Config{
		APIKey:      viper.GetString("gemini.api_key"),
		Model:       viper.GetString("gemini.model"),
		Temperature: viper.GetFloat64("gemini.temperature"),
		MaxTokens:   viper.GetInt("gemini.max_tokens"),
		MaxRetries:  viper.GetInt("gemini.max_retries"),
		RateLimit:   viper.GetInt("gemini.rate_limit"),
	}
	if !cfg.Enabled() {
		slog.Info("Gemini API key not configured, running on rules only")
		return nil, nil
	}

	client, err := llm.NewGeminiClient(cfg)
	if err != nil {
		return nil, err
	}

	categories, err := store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	names := make([]string, len(categories))
	for i, cat := range categories {
		names[i] = cat.Name
	}
	return llm.NewService(client, cfg, names, slog.Default()), nil
}

// initEngine wires storage, classifier, identity, sessions and the optional
// language service into a ready engine.
func initEngine(ctx context.Context, store service.Storage, publisher service.SyncPublisher) (*engine.Engine, *session.Manager, *llm.Service, error) {
	language, err := initLanguageService(ctx, store)
	if err != nil {
		return nil, nil, nil, err
	}

	loc, err := time.LoadLocation(viper.GetString("timezone"))
	if err != nil || viper.GetString("timezone") == "" {
		loc = time.Local
	}

	sessions := session.New(viper.GetDuration("session.ttl"), slog.Default())

	opts := parse.DefaultOptions()
	if threshold := viper.GetInt64("parse.auto_scale_below"); threshold > 0 {
		opts.AutoScaleBelow = threshold
	}

	cfg := engine.Config{
		Store:      store,
		Classifier: classify.New(store, slog.Default()),
		Identity:   identity.New(store, slog.Default()),
		Aggregator: aggregate.New(store),
		Sessions:   sessions,
		Publisher:  publisher,
		Logger:     slog.Default(),
		Location:   loc,
		ParseOpts:  opts,
	}
	if language != nil {
		cfg.Parser = language
		cfg.Transcriber = language
	}
	return engine.New(cfg), sessions, language, nil
}
