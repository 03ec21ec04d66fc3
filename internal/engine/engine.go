// Package engine orchestrates the chat flow: it turns an inbound message
// into persisted transactions or an aggregation answer and renders the
// Vietnamese reply. Transports stay dumb; everything platform-independent
// happens here.
package engine

import (
	"log/slog"
	"time"

	"github.com/locvx/ghichep/internal/aggregate"
	"github.com/locvx/ghichep/internal/classify"
	"github.com/locvx/ghichep/internal/identity"
	"github.com/locvx/ghichep/internal/parse"
	"github.com/locvx/ghichep/internal/service"
	"github.com/locvx/ghichep/internal/session"
)

// Engine processes inbound chat messages.
type Engine struct {
	store       service.Storage
	classifier  *classify.Classifier
	identity    *identity.Resolver
	aggregator  *aggregate.Engine
	sessions    *session.Manager
	parser      service.Parser      // nil when the language service is disabled
	transcriber service.Transcriber // nil when the language service is disabled
	publisher   service.SyncPublisher
	logger      *slog.Logger
	loc         *time.Location
	now         func() time.Time
	opts        parse.Options
}

// Config carries the engine's collaborators. Parser, Transcriber and
// Publisher are optional.
type Config struct {
	Store       service.Storage
	Classifier  *classify.Classifier
	Identity    *identity.Resolver
	Aggregator  *aggregate.Engine
	Sessions    *session.Manager
	Parser      service.Parser
	Transcriber service.Transcriber
	Publisher   service.SyncPublisher
	Logger      *slog.Logger
	Location    *time.Location
	ParseOpts   parse.Options
}

// New creates an engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	opts := cfg.ParseOpts
	if opts.AutoScaleBelow <= 0 {
		opts = parse.DefaultOptions()
	}
	return &Engine{
		store:       cfg.Store,
		classifier:  cfg.Classifier,
		identity:    cfg.Identity,
		aggregator:  cfg.Aggregator,
		sessions:    cfg.Sessions,
		parser:      cfg.Parser,
		transcriber: cfg.Transcriber,
		publisher:   cfg.Publisher,
		logger:      logger,
		loc:         loc,
		now:         time.Now,
		opts:        opts,
	}
}
