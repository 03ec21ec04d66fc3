// Package storage provides the SQLite persistence layer.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/locvx/ghichep/internal/model"
	"github.com/locvx/ghichep/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// queryable abstracts *sql.DB and *sql.Tx so store methods run in either.
type queryable interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction scoped to identity operations.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Tx, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// sqliteTx wraps sql.Tx to implement service.Tx.
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTx) UserByAccount(ctx context.Context, kind model.PlatformKind, accountID string) (*model.LogicalUser, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.userByAccountTx(ctx, t.tx, kind, accountID)
}

func (t *sqliteTx) UserByPhone(ctx context.Context, phone string) (*model.LogicalUser, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.userByPhoneTx(ctx, t.tx, phone)
}

func (t *sqliteTx) CreateUser(ctx context.Context, user *model.LogicalUser) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.storage.createUserTx(ctx, t.tx, user)
}

func (t *sqliteTx) AttachAccount(ctx context.Context, userID int64, kind model.PlatformKind, accountID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.storage.attachAccountTx(ctx, t.tx, userID, kind, accountID)
}

func (t *sqliteTx) SetPhone(ctx context.Context, userID int64, phone string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.storage.setPhoneTx(ctx, t.tx, userID, phone)
}

// Interface check.
var _ service.Storage = (*SQLiteStorage)(nil)
