// Package identity maps platform accounts to logical users. Each messaging
// platform identifies the sender by its own opaque account ID; linking by
// phone number lets one person log from several platforms into one ledger.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/locvx/ghichep/internal/common"
	"github.com/locvx/ghichep/internal/model"
	"github.com/locvx/ghichep/internal/service"
)

// LinkConflictError reports a Link call where the account already belongs to
// a different logical user than the phone number. The link is refused and
// nothing is modified.
type LinkConflictError struct {
	Phone     string
	AccountID string
	Kind      model.PlatformKind
}

func (e *LinkConflictError) Error() string {
	return fmt.Sprintf("account %s/%s already belongs to a different user than phone %s",
		e.Kind, e.AccountID, e.Phone)
}

// Resolver resolves and links logical users.
type Resolver struct {
	store  service.Storage
	logger *slog.Logger
}

// New creates an identity resolver.
func New(store service.Storage, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, logger: logger}
}

// Resolve returns the logical user behind a platform account, creating one
// on first contact so a new sender can log immediately.
func (r *Resolver) Resolve(ctx context.Context, kind model.PlatformKind, accountID, displayName string) (*model.LogicalUser, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown platform %q", common.ErrInvalidConfig, kind)
	}
	if accountID == "" {
		return nil, errors.New("account ID is required")
	}

	user, err := r.store.UserByAccount(ctx, kind, accountID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	user = &model.LogicalUser{
		DisplayName: displayName,
		Accounts:    map[model.PlatformKind]string{kind: accountID},
	}
	if err := r.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	r.logger.Info("created user for new account",
		"user_id", user.ID,
		"platform", kind)
	return user, nil
}

// Link ties a platform account to the logical user identified by phone. The
// whole operation runs in one storage transaction:
//
//   - phone already known: the account is attached to that user, replacing
//     any previous account of the same platform;
//   - phone unknown but account known: the phone is recorded on the
//     account's user;
//   - both unknown: a new user is created with the phone and the account.
//
// If the account belongs to a user other than the phone's user the link is
// refused with *LinkConflictError and no state changes.
func (r *Resolver) Link(ctx context.Context, phone string, kind model.PlatformKind, accountID string) (*model.LogicalUser, error) {
	if phone == "" {
		return nil, errors.New("phone number is required")
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown platform %q", common.ErrInvalidConfig, kind)
	}
	if accountID == "" {
		return nil, errors.New("account ID is required")
	}

	tx, err := r.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	byPhone, err := tx.UserByPhone(ctx, phone)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up phone: %w", err)
	}
	byAccount, err := tx.UserByAccount(ctx, kind, accountID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	switch {
	case byPhone != nil:
		if byAccount != nil && byAccount.ID != byPhone.ID {
			return nil, &LinkConflictError{Phone: phone, Kind: kind, AccountID: accountID}
		}
		if err := tx.AttachAccount(ctx, byPhone.ID, kind, accountID); err != nil {
			return nil, fmt.Errorf("failed to attach account: %w", err)
		}
		byPhone.Accounts[kind] = accountID
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit link: %w", err)
		}
		r.logger.Info("linked account to existing user",
			"user_id", byPhone.ID,
			"platform", kind)
		return byPhone, nil

	case byAccount != nil:
		if err := tx.SetPhone(ctx, byAccount.ID, phone); err != nil {
			return nil, fmt.Errorf("failed to set phone: %w", err)
		}
		byAccount.Phone = phone
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit link: %w", err)
		}
		r.logger.Info("recorded phone on existing user",
			"user_id", byAccount.ID,
			"platform", kind)
		return byAccount, nil

	default:
		user := &model.LogicalUser{
			Phone:    phone,
			Accounts: map[model.PlatformKind]string{kind: accountID},
		}
		if err := tx.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit link: %w", err)
		}
		r.logger.Info("created user from link",
			"user_id", user.ID,
			"platform", kind)
		return user, nil
	}
}
