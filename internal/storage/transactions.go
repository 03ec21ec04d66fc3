package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/locvx/ghichep/internal/common"
	"github.com/locvx/ghichep/internal/model"
	"github.com/locvx/ghichep/internal/service"
)

// SaveTransaction persists a transaction. OccurredAt defaults to now when
// unset.
func (s *SQLiteStorage) SaveTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if txn == nil {
		return ErrNilParameter
	}
	if err := validateString(txn.ID, "transaction ID"); err != nil {
		return err
	}
	if txn.OccurredAt.IsZero() {
		txn.OccurredAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, amount, note, source_text, kind, category_id, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, txn.ID, txn.UserID, txn.Amount, txn.Note, txn.SourceText, string(txn.Kind), txn.CategoryID, txn.OccurredAt)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// TransactionByID retrieves one transaction.
func (s *SQLiteStorage) TransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "transaction ID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount, note, source_text, kind, category_id, occurred_at, created_at
		FROM transactions
		WHERE id = ?
	`, id)
	return scanTransaction(row)
}

// LastTransaction retrieves the user's most recently logged transaction.
func (s *SQLiteStorage) LastTransaction(ctx context.Context, userID int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount, note, source_text, kind, category_id, occurred_at, created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY created_at DESC, occurred_at DESC
		LIMIT 1
	`, userID)
	return scanTransaction(row)
}

// UpdateTransactionCategory reassigns a transaction to another category.
func (s *SQLiteStorage) UpdateTransactionCategory(ctx context.Context, id string, categoryID int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "transaction ID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET category_id = ? WHERE id = ?
	`, categoryID, id)
	if err != nil {
		return fmt.Errorf("failed to update transaction category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check category update: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// DeleteTransaction removes a transaction owned by userID.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string, userID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "transaction ID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM transactions WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// TransactionsInRange returns the user's transactions matching the filter,
// newest first.
func (s *SQLiteStorage) TransactionsInRange(ctx context.Context, userID int64, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, amount, note, source_text, kind, category_id, occurred_at, created_at
		FROM transactions
		WHERE user_id = ?`
	args := []any{userID}
	if filter.Since != nil {
		query += ` AND occurred_at >= ?`
		args = append(args, *filter.Since)
	}
	if filter.CategoryID != 0 {
		query += ` AND category_id = ?`
		args = append(args, filter.CategoryID)
	}
	query += ` ORDER BY occurred_at DESC, created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var txn model.Transaction
	var kind string
	err := row.Scan(&txn.ID, &txn.UserID, &txn.Amount, &txn.Note, &txn.SourceText,
		&kind, &txn.CategoryID, &txn.OccurredAt, &txn.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}
	txn.Kind = model.Kind(kind)
	return &txn, nil
}
