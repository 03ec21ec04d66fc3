package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/locvx/ghichep/internal/common"
	"github.com/locvx/ghichep/internal/model"
	"github.com/locvx/ghichep/internal/service"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := store.SeedCategories(ctx); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	return store
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStorage(t)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
}

func TestSeedCategories(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	categories, err := store.Categories(ctx)
	if err != nil {
		t.Fatalf("failed to list categories: %v", err)
	}
	if len(categories) != 17 {
		t.Errorf("expected 17 seeded categories, got %d", len(categories))
	}

	// Seeding again must not duplicate.
	if err := store.SeedCategories(ctx); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	again, err := store.Categories(ctx)
	if err != nil {
		t.Fatalf("failed to list categories: %v", err)
	}
	if len(again) != len(categories) {
		t.Errorf("second seed changed category count: %d != %d", len(again), len(categories))
	}

	cat, err := store.CategoryByName(ctx, "Ăn uống")
	if err != nil {
		t.Fatalf("failed to load category: %v", err)
	}
	if cat.Kind != model.KindExpense {
		t.Errorf("expected expense kind, got %q", cat.Kind)
	}
	if len(cat.Keywords) == 0 {
		t.Error("expected seeded keywords")
	}

	if _, err := store.CategoryByName(ctx, "Không tồn tại"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	user := &model.LogicalUser{
		DisplayName: "Lộc",
		Accounts:    map[model.PlatformKind]string{model.PlatformTelegram: "tg-1"},
	}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected user ID to be set")
	}

	got, err := store.UserByAccount(ctx, model.PlatformTelegram, "tg-1")
	if err != nil {
		t.Fatalf("failed to look up by account: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("account lookup returned user %d, want %d", got.ID, user.ID)
	}

	if _, err := store.UserByAccount(ctx, model.PlatformZalo, "tg-1"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound for wrong platform, got %v", err)
	}

	if err := store.SetPhone(ctx, user.ID, "0901234567"); err != nil {
		t.Fatalf("failed to set phone: %v", err)
	}
	byPhone, err := store.UserByPhone(ctx, "0901234567")
	if err != nil {
		t.Fatalf("failed to look up by phone: %v", err)
	}
	if byPhone.ID != user.ID {
		t.Errorf("phone lookup returned user %d, want %d", byPhone.ID, user.ID)
	}

	// Attaching a zalo account makes the user reachable from both.
	if err := store.AttachAccount(ctx, user.ID, model.PlatformZalo, "za-9"); err != nil {
		t.Fatalf("failed to attach account: %v", err)
	}
	both, err := store.UserByAccount(ctx, model.PlatformZalo, "za-9")
	if err != nil {
		t.Fatalf("failed to look up zalo account: %v", err)
	}
	if len(both.Accounts) != 2 {
		t.Errorf("expected 2 accounts, got %d", len(both.Accounts))
	}

	// Re-attaching the same platform replaces the account id.
	if err := store.AttachAccount(ctx, user.ID, model.PlatformZalo, "za-10"); err != nil {
		t.Fatalf("failed to replace account: %v", err)
	}
	if _, err := store.UserByAccount(ctx, model.PlatformZalo, "za-9"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected old account to be gone, got %v", err)
	}
}

func TestUpsertLearnedKeywordReplaces(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	user := &model.LogicalUser{Accounts: map[model.PlatformKind]string{model.PlatformTelegram: "tg-1"}}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	kw := model.LearnedKeyword{UserID: user.ID, Keyword: "trà đào", CategoryID: 1}
	if err := store.UpsertLearnedKeyword(ctx, kw); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	kw.CategoryID = 2
	if err := store.UpsertLearnedKeyword(ctx, kw); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	keywords, err := store.LearnedKeywords(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to list keywords: %v", err)
	}
	if len(keywords) != 1 {
		t.Fatalf("expected 1 keyword, got %d", len(keywords))
	}
	if keywords[0].CategoryID != 2 {
		t.Errorf("expected category replaced with 2, got %d", keywords[0].CategoryID)
	}
	if keywords[0].UseCount != 2 {
		t.Errorf("expected use_count 2, got %d", keywords[0].UseCount)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	user := &model.LogicalUser{Accounts: map[model.PlatformKind]string{model.PlatformTelegram: "tg-1"}}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	ids := []string{"t-1", "t-2", "t-3"}
	for i, id := range ids {
		txn := &model.Transaction{
			ID:         id,
			UserID:     user.ID,
			Amount:     int64((i + 1) * 10_000),
			Note:       "cafe",
			Kind:       model.KindExpense,
			CategoryID: 2,
			OccurredAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.SaveTransaction(ctx, txn); err != nil {
			t.Fatalf("failed to save %s: %v", id, err)
		}
	}

	last, err := store.LastTransaction(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to load last: %v", err)
	}
	if last.ID != "t-3" {
		t.Errorf("expected last transaction t-3, got %s", last.ID)
	}

	since := base.Add(30 * time.Minute)
	filtered, err := store.TransactionsInRange(ctx, user.ID, service.TransactionFilter{Since: &since})
	if err != nil {
		t.Fatalf("failed to filter: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 transactions since cutoff, got %d", len(filtered))
	}
	if filtered[0].ID != "t-3" {
		t.Errorf("expected newest first, got %s", filtered[0].ID)
	}

	if err := store.UpdateTransactionCategory(ctx, "t-1", 5); err != nil {
		t.Fatalf("failed to update category: %v", err)
	}
	updated, err := store.TransactionByID(ctx, "t-1")
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if updated.CategoryID != 5 {
		t.Errorf("expected category 5, got %d", updated.CategoryID)
	}

	// Deleting with the wrong owner is refused.
	if err := store.DeleteTransaction(ctx, "t-1", user.ID+1); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound for wrong owner, got %v", err)
	}
	if err := store.DeleteTransaction(ctx, "t-1", user.ID); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if _, err := store.TransactionByID(ctx, "t-1"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
