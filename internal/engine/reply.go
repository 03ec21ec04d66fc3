package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/locvx/ghichep/internal/aggregate"
	"github.com/locvx/ghichep/internal/format"
	"github.com/locvx/ghichep/internal/model"
	"github.com/locvx/ghichep/internal/parse"
	"github.com/locvx/ghichep/internal/service"
)

// confirmationReply renders the "recorded" message for saved transactions,
// followed by the running total for today.
func (e *Engine) confirmationReply(ctx context.Context, userID int64, saved []model.Transaction) (service.OutboundReply, error) {
	if len(saved) == 0 {
		return service.OutboundReply{}, nil
	}

	names, err := e.categoryNames(ctx)
	if err != nil {
		return service.OutboundReply{}, err
	}

	var b strings.Builder
	for _, txn := range saved {
		icon := "💸"
		if txn.Kind == model.KindIncome {
			icon = "💰"
		}
		note := txn.Note
		if note == "" {
			note = "(không ghi chú)"
		}
		fmt.Fprintf(&b, "✅ %s %s - %s (%s)\n", icon, format.Currency(txn.Amount), note, names[txn.CategoryID])
	}

	today, err := e.aggregator.Aggregate(ctx, userID, model.RangeToday, aggregate.Filter{}, e.now().In(e.loc))
	if err != nil {
		return service.OutboundReply{}, fmt.Errorf("failed to total today: %w", err)
	}
	fmt.Fprintf(&b, "📊 Hôm nay: chi %s", format.Currency(today.TotalExpense))
	if today.TotalIncome > 0 {
		fmt.Fprintf(&b, ", thu %s", format.Currency(today.TotalIncome))
	}

	if comment := e.transactionComment(ctx, saved); comment != "" {
		b.WriteString("\n\n" + comment)
	}

	return reply(b.String()), nil
}

// transactionComment asks the language service for a playful remark on a
// single saved transaction. Best effort; errors render nothing.
func (e *Engine) transactionComment(ctx context.Context, saved []model.Transaction) string {
	if e.parser == nil || len(saved) != 1 {
		return ""
	}
	txn := saved[0]
	name := ""
	if cat, err := e.store.CategoryByID(ctx, txn.CategoryID); err == nil {
		name = cat.Name
	}
	comment, err := e.parser.Comment(ctx, txn.Amount, txn.Note, name, txn.Kind)
	if err != nil {
		e.logger.Debug("comment generation failed", "error", err)
		return ""
	}
	return comment
}

func (e *Engine) categoryNames(ctx context.Context) (map[int]string, error) {
	categories, err := e.store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	names := make(map[int]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}
	return names, nil
}

// pickListText renders the category question for an ambiguous phrase.
func pickListText(phrase parse.Phrase, choices []model.Category) string {
	note := phrase.Note
	if note == "" {
		note = phrase.Source
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🤔 %s (%s) thuộc danh mục nào?\n", note, format.Currency(phrase.Amount))
	for i, cat := range choices {
		fmt.Fprintf(&b, "%d. %s\n", i+1, cat.Name)
	}
	b.WriteString("Trả lời bằng số hoặc tên danh mục nhé!")
	return b.String()
}
