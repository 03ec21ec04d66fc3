package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version the application expects.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS users (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					phone TEXT,
					display_name TEXT NOT NULL DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE UNIQUE INDEX idx_users_phone ON users(phone) WHERE phone IS NOT NULL AND phone != ''`,

				`CREATE TABLE IF NOT EXISTS platform_accounts (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					user_id INTEGER NOT NULL,
					platform TEXT NOT NULL,
					account_id TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (user_id) REFERENCES users(id)
				)`,
				`CREATE UNIQUE INDEX idx_accounts_platform_account ON platform_accounts(platform, account_id)`,
				`CREATE UNIQUE INDEX idx_accounts_user_platform ON platform_accounts(user_id, platform)`,

				`CREATE TABLE IF NOT EXISTS categories (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT UNIQUE NOT NULL,
					keywords TEXT NOT NULL DEFAULT '',
					kind TEXT NOT NULL DEFAULT 'expense',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS user_keywords (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					user_id INTEGER NOT NULL,
					keyword TEXT NOT NULL,
					category_id INTEGER NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (user_id) REFERENCES users(id),
					FOREIGN KEY (category_id) REFERENCES categories(id)
				)`,
				`CREATE UNIQUE INDEX idx_user_keywords_user_keyword ON user_keywords(user_id, keyword)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					user_id INTEGER NOT NULL,
					amount INTEGER NOT NULL,
					note TEXT NOT NULL DEFAULT '',
					source_text TEXT NOT NULL DEFAULT '',
					kind TEXT NOT NULL DEFAULT 'expense',
					category_id INTEGER NOT NULL DEFAULT 0,
					occurred_at DATETIME NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (user_id) REFERENCES users(id)
				)`,
				`CREATE INDEX idx_transactions_user_occurred ON transactions(user_id, occurred_at)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Track learned keyword usage",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`ALTER TABLE user_keywords ADD COLUMN use_count INTEGER NOT NULL DEFAULT 0`)
			if err != nil {
				return fmt.Errorf("failed to add use_count column: %w", err)
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Index transactions by category",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX idx_transactions_user_category ON transactions(user_id, category_id)`)
			if err != nil {
				return fmt.Errorf("failed to create category index: %w", err)
			}
			return nil
		},
	},
}

// Migrate applies any pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("Applying migration",
			"version", migration.Version,
			"description", migration.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", migration.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	var finalVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion); err != nil {
		return fmt.Errorf("failed to verify schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("schema version %d does not match expected %d", finalVersion, ExpectedSchemaVersion)
	}
	return nil
}
