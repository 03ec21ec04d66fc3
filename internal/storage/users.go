package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/locvx/ghichep/internal/common"
	"github.com/locvx/ghichep/internal/model"
)

// UserByAccount retrieves the logical user behind a platform account.
func (s *SQLiteStorage) UserByAccount(ctx context.Context, kind model.PlatformKind, accountID string) (*model.LogicalUser, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.userByAccountTx(ctx, s.db, kind, accountID)
}

func (s *SQLiteStorage) userByAccountTx(ctx context.Context, q queryable, kind model.PlatformKind, accountID string) (*model.LogicalUser, error) {
	if err := validateString(accountID, "accountID"); err != nil {
		return nil, err
	}

	var userID int64
	err := q.QueryRowContext(ctx, `
		SELECT user_id FROM platform_accounts WHERE platform = ? AND account_id = ?
	`, string(kind), accountID).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	return s.userByIDTx(ctx, q, userID)
}

// UserByPhone retrieves the logical user linked to a phone number.
func (s *SQLiteStorage) UserByPhone(ctx context.Context, phone string) (*model.LogicalUser, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.userByPhoneTx(ctx, s.db, phone)
}

func (s *SQLiteStorage) userByPhoneTx(ctx context.Context, q queryable, phone string) (*model.LogicalUser, error) {
	if err := validateString(phone, "phone"); err != nil {
		return nil, err
	}

	var userID int64
	err := q.QueryRowContext(ctx, `SELECT id FROM users WHERE phone = ?`, phone).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up phone: %w", err)
	}
	return s.userByIDTx(ctx, q, userID)
}

func (s *SQLiteStorage) userByIDTx(ctx context.Context, q queryable, userID int64) (*model.LogicalUser, error) {
	var user model.LogicalUser
	var phone sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT id, phone, display_name, created_at FROM users WHERE id = ?
	`, userID).Scan(&user.ID, &phone, &user.DisplayName, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	user.Phone = phone.String

	rows, err := q.QueryContext(ctx, `
		SELECT platform, account_id FROM platform_accounts WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	user.Accounts = make(map[model.PlatformKind]string)
	for rows.Next() {
		var platform, accountID string
		if err := rows.Scan(&platform, &accountID); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		user.Accounts[model.PlatformKind(platform)] = accountID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return &user, nil
}

// CreateUser inserts a new logical user together with any initial accounts.
func (s *SQLiteStorage) CreateUser(ctx context.Context, user *model.LogicalUser) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.createUserTx(ctx, s.db, user)
}

func (s *SQLiteStorage) createUserTx(ctx context.Context, q queryable, user *model.LogicalUser) error {
	if user == nil {
		return ErrNilParameter
	}

	var phone any
	if user.Phone != "" {
		phone = user.Phone
	}
	result, err := q.ExecContext(ctx, `
		INSERT INTO users (phone, display_name) VALUES (?, ?)
	`, phone, user.DisplayName)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	user.ID = id

	for kind, accountID := range user.Accounts {
		if err := s.attachAccountTx(ctx, q, id, kind, accountID); err != nil {
			return err
		}
	}
	return nil
}

// AttachAccount ties a platform account to a user, replacing any previous
// account of the same platform.
func (s *SQLiteStorage) AttachAccount(ctx context.Context, userID int64, kind model.PlatformKind, accountID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.attachAccountTx(ctx, s.db, userID, kind, accountID)
}

func (s *SQLiteStorage) attachAccountTx(ctx context.Context, q queryable, userID int64, kind model.PlatformKind, accountID string) error {
	if err := validateString(accountID, "accountID"); err != nil {
		return err
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO platform_accounts (user_id, platform, account_id)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, platform) DO UPDATE SET account_id = excluded.account_id
	`, userID, string(kind), accountID)
	if err != nil {
		return fmt.Errorf("failed to attach account: %w", err)
	}
	return nil
}

// SetPhone records a phone number on a user.
func (s *SQLiteStorage) SetPhone(ctx context.Context, userID int64, phone string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.setPhoneTx(ctx, s.db, userID, phone)
}

func (s *SQLiteStorage) setPhoneTx(ctx context.Context, q queryable, userID int64, phone string) error {
	if err := validateString(phone, "phone"); err != nil {
		return err
	}
	result, err := q.ExecContext(ctx, `UPDATE users SET phone = ? WHERE id = ?`, phone, userID)
	if err != nil {
		return fmt.Errorf("failed to set phone: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check phone update: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
