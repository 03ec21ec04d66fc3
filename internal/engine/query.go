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
	"github.com/locvx/ghichep/internal/vntext"
)

var rangeLabels = map[model.TimeRange]string{
	model.RangeToday: "Hôm nay",
	model.RangeWeek:  "Tuần này",
	model.RangeMonth: "Tháng này",
	model.RangeYear:  "Năm nay",
	model.RangeAll:   "Từ trước tới giờ",
}

// answerQuery resolves a question about spending and renders the totals.
func (e *Engine) answerQuery(ctx context.Context, userID int64, text string) (service.OutboundReply, error) {
	if wantsInsights(text) {
		report, err := e.aggregator.Insights(ctx, userID, e.now().In(e.loc))
		if err != nil {
			return service.OutboundReply{}, fmt.Errorf("failed to compute insights: %w", err)
		}
		return reply(insightsText(report)), nil
	}

	categories, err := e.store.Categories(ctx)
	if err != nil {
		return service.OutboundReply{}, fmt.Errorf("failed to load categories: %w", err)
	}

	intent := e.resolveIntent(ctx, text, categories)
	if !intent.IsQuery {
		return e.smallTalk(ctx, text), nil
	}

	filter := aggregate.Filter{Keyword: intent.Keyword}
	var scope string
	if intent.CategoryName != "" {
		if cat := categoryByName(categories, intent.CategoryName); cat != nil {
			filter.CategoryID = cat.ID
			filter.Keyword = ""
			scope = cat.Name
		}
	}
	if scope == "" && filter.Keyword != "" {
		scope = fmt.Sprintf("%q", filter.Keyword)
	}

	summary, err := e.aggregator.Aggregate(ctx, userID, intent.Range, filter, e.now().In(e.loc))
	if err != nil {
		return service.OutboundReply{}, fmt.Errorf("aggregation failed: %w", err)
	}

	return reply(summaryText(intent.Range, scope, summary)), nil
}

// resolveIntent prefers the language service and falls back to keyword rules.
func (e *Engine) resolveIntent(ctx context.Context, text string, categories []model.Category) model.Intent {
	if e.parser != nil {
		names := make([]string, len(categories))
		for i, cat := range categories {
			names[i] = cat.Name
		}
		intent, err := e.parser.ParseQueryIntent(ctx, text, names)
		if err == nil && intent.IsQuery {
			return intent
		}
		if err != nil {
			e.logger.Warn("language intent failed, using rules", "error", err)
		}
	}
	return parse.ResolveIntent(text, categories)
}

func categoryByName(categories []model.Category, name string) *model.Category {
	for i := range categories {
		if categories[i].Name == name {
			return &categories[i]
		}
	}
	return nil
}

// summaryText renders an aggregation result in chat form.
func summaryText(rng model.TimeRange, scope string, summary aggregate.Summary) string {
	label := rangeLabels[rng]
	if label == "" {
		label = rangeLabels[model.RangeAll]
	}

	var b strings.Builder
	if scope != "" {
		fmt.Fprintf(&b, "📊 %s (%s):\n", label, scope)
	} else {
		fmt.Fprintf(&b, "📊 %s:\n", label)
	}

	if summary.Count == 0 {
		b.WriteString("Chưa có giao dịch nào.")
		return b.String()
	}

	if summary.TotalExpense > 0 {
		fmt.Fprintf(&b, "💸 Chi: %s\n", format.Currency(summary.TotalExpense))
	}
	if summary.TotalIncome > 0 {
		fmt.Fprintf(&b, "💰 Thu: %s\n", format.Currency(summary.TotalIncome))
	}
	fmt.Fprintf(&b, "🧾 %d giao dịch", summary.Count)
	return b.String()
}

// wantsInsights detects a request for the monthly spending report rather
// than a plain total.
func wantsInsights(text string) bool {
	return vntext.ContainsFold(text, "thống kê") ||
		vntext.ContainsFold(text, "phân tích")
}

// insightsText renders the monthly spending report.
func insightsText(report aggregate.Insights) string {
	var b strings.Builder
	b.WriteString("📈 Thống kê tháng này:\n")
	fmt.Fprintf(&b, "💸 Đã chi: %s (trung bình %s/ngày)\n",
		format.Currency(report.ThisMonth), format.Currency(report.DailyAverage))
	if report.LastMonth > 0 {
		fmt.Fprintf(&b, "🗓️ Tháng trước: %s\n", format.Currency(report.LastMonth))
	}
	if report.BiggestExpense != nil {
		fmt.Fprintf(&b, "🔝 Khoản lớn nhất: %s - %s\n",
			format.Currency(report.BiggestExpense.Amount), report.BiggestExpense.Note)
	}
	if len(report.TopCategories) > 0 {
		b.WriteString("🏷️ Chi nhiều nhất:\n")
		for _, cat := range report.TopCategories {
			fmt.Fprintf(&b, "  • %s: %s\n", cat.Name, format.Currency(cat.Total))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
