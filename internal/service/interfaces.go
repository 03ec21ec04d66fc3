// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/locvx/ghichep/internal/model"
)

// TransactionFilter narrows a transaction range query. At most one of
// CategoryID/Keyword is honored; keyword matching is diacritic-insensitive
// and applied by the aggregation engine, not the store.
type TransactionFilter struct {
	Since      *time.Time
	CategoryID int
	Limit      int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	UserStore

	// Category operations
	Categories(ctx context.Context) ([]model.Category, error)
	CategoryByID(ctx context.Context, id int) (*model.Category, error)
	CategoryByName(ctx context.Context, name string) (*model.Category, error)

	// Learned keyword operations
	LearnedKeywords(ctx context.Context, userID int64) ([]model.LearnedKeyword, error)
	UpsertLearnedKeyword(ctx context.Context, kw model.LearnedKeyword) error

	// Transaction operations
	SaveTransaction(ctx context.Context, txn *model.Transaction) error
	TransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	LastTransaction(ctx context.Context, userID int64) (*model.Transaction, error)
	UpdateTransactionCategory(ctx context.Context, id string, categoryID int) error
	DeleteTransaction(ctx context.Context, id string, userID int64) error
	TransactionsInRange(ctx context.Context, userID int64, filter TransactionFilter) ([]model.Transaction, error)

	// Database management
	Migrate(ctx context.Context) error
	SeedCategories(ctx context.Context) error
	BeginTx(ctx context.Context) (Tx, error)
	Close() error
}

// UserStore holds the identity lookups and mutations. The identity resolver
// runs all three linking branches against a single Tx so check-then-act is
// atomic.
type UserStore interface {
	UserByAccount(ctx context.Context, kind model.PlatformKind, accountID string) (*model.LogicalUser, error)
	UserByPhone(ctx context.Context, phone string) (*model.LogicalUser, error)
	CreateUser(ctx context.Context, user *model.LogicalUser) error
	AttachAccount(ctx context.Context, userID int64, kind model.PlatformKind, accountID string) error
	SetPhone(ctx context.Context, userID int64, phone string) error
}

// Tx is a storage transaction scoped to identity operations.
type Tx interface {
	UserStore
	Commit() error
	Rollback() error
}

// ParsedTransaction is one transaction extracted by the text-understanding
// service. Amount is whole đồng, already scaled.
type ParsedTransaction struct {
	Note     string
	Category string // suggested category name, may be empty or unknown
	Kind     model.Kind
	Amount   int64
}

// ParseResult is the text-understanding service's reading of an utterance.
type ParseResult struct {
	Message      string
	Transactions []ParsedTransaction
	Understood   bool
}

// Parser is the hosted text-understanding collaborator. On failure or
// Understood=false the caller falls back to rule-based parsing.
type Parser interface {
	Parse(ctx context.Context, text string) (ParseResult, error)
	ParseQueryIntent(ctx context.Context, text string, categories []string) (model.Intent, error)
	Comment(ctx context.Context, amount int64, note, category string, kind model.Kind) (string, error)
	Chat(ctx context.Context, text string) (string, error)
}

// Transcriber converts a voice message to text. Failure surfaces to the
// user; there is no fallback.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// InboundMessage is the platform-independent triple delivered by a
// messaging transport, plus optional audio and display name.
type InboundMessage struct {
	Platform    model.PlatformKind
	AccountID   string
	Text        string
	DisplayName string
	Audio       []byte
	AudioMIME   string
}

// OutboundReply is a text reply with an optional structured pick list.
type OutboundReply struct {
	Text          string
	CorrelationID string
	Choices       []model.Category
}

// Transport delivers inbound events from one messaging platform and accepts
// outbound replies. The engine never sees platform-specific message shapes.
type Transport interface {
	Name() string
	Receive(ctx context.Context) (<-chan InboundMessage, error)
	Send(ctx context.Context, accountID string, reply OutboundReply) error
	Close() error
}

// SyncPublisher enqueues a persisted transaction for export sync.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, transactionID string) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
