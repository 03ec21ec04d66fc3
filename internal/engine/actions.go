package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/locvx/ghichep/internal/common"
	"github.com/locvx/ghichep/internal/format"
	"github.com/locvx/ghichep/internal/model"
	"github.com/locvx/ghichep/internal/service"
)

// ResolveCategoryChoice completes a pending classification with the category
// the user picked: the transaction is persisted and the note is learned so
// the same phrasing classifies silently next time.
func (e *Engine) ResolveCategoryChoice(ctx context.Context, userID int64, correlationID string, categoryID int) (service.OutboundReply, error) {
	pending, ok := e.sessions.Resolve(userID, correlationID)
	if !ok {
		return reply("Lựa chọn này đã hết hạn, bạn ghi lại giúp mình nhé 🙏"), nil
	}

	cat, err := e.store.CategoryByID(ctx, categoryID)
	if err != nil {
		return service.OutboundReply{}, fmt.Errorf("failed to load chosen category: %w", err)
	}

	txn := &model.Transaction{
		ID:         uuid.New().String(),
		UserID:     userID,
		Amount:     pending.Amount,
		Note:       pending.Note,
		SourceText: pending.SourceText,
		Kind:       pending.Kind,
		CategoryID: cat.ID,
		OccurredAt: pending.OccurredAt,
	}
	if err := e.store.SaveTransaction(ctx, txn); err != nil {
		return service.OutboundReply{}, fmt.Errorf("failed to save transaction: %w", err)
	}
	e.publishSync(ctx, txn.ID)

	if err := e.classifier.Learn(ctx, userID, pending.Note, cat.ID); err != nil {
		// Learning is an optimization; the transaction is already safe.
		e.logger.Warn("failed to learn keyword", "user_id", userID, "error", err)
	}

	return e.confirmationReply(ctx, userID, []model.Transaction{*txn})
}

// DeleteLast removes the user's most recent transaction.
func (e *Engine) DeleteLast(ctx context.Context, userID int64) (service.OutboundReply, error) {
	txn, err := e.store.LastTransaction(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return reply("Chưa có giao dịch nào để xoá."), nil
		}
		return service.OutboundReply{}, fmt.Errorf("failed to load last transaction: %w", err)
	}
	if err := e.store.DeleteTransaction(ctx, txn.ID, userID); err != nil {
		return service.OutboundReply{}, fmt.Errorf("failed to delete transaction: %w", err)
	}
	return reply(fmt.Sprintf("🗑️ Đã xoá: %s - %s", format.Currency(txn.Amount), txn.Note)), nil
}

// ReassignLast moves the user's most recent transaction to another category
// and learns the mapping.
func (e *Engine) ReassignLast(ctx context.Context, userID int64, categoryName string) (service.OutboundReply, error) {
	txn, err := e.store.LastTransaction(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return reply("Chưa có giao dịch nào để sửa."), nil
		}
		return service.OutboundReply{}, fmt.Errorf("failed to load last transaction: %w", err)
	}

	cat, err := e.store.CategoryByName(ctx, categoryName)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return reply(fmt.Sprintf("Không tìm thấy danh mục %q.", categoryName)), nil
		}
		return service.OutboundReply{}, fmt.Errorf("failed to load category: %w", err)
	}

	if err := e.store.UpdateTransactionCategory(ctx, txn.ID, cat.ID); err != nil {
		return service.OutboundReply{}, fmt.Errorf("failed to reassign transaction: %w", err)
	}
	e.publishSync(ctx, txn.ID)

	if err := e.classifier.Learn(ctx, userID, txn.Note, cat.ID); err != nil {
		e.logger.Warn("failed to learn keyword", "user_id", userID, "error", err)
	}

	return reply(fmt.Sprintf("✏️ Đã chuyển %s - %s sang %s", format.Currency(txn.Amount), txn.Note, cat.Name)), nil
}
