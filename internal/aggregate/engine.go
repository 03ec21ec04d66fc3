// Package aggregate answers spending questions over persisted transactions:
// totals per time range, optional category or keyword filters, and monthly
// insight summaries. All sums are int64 whole đồng.
package aggregate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/locvx/ghichep/internal/model"
	"github.com/locvx/ghichep/internal/service"
	"github.com/locvx/ghichep/internal/vntext"
)

// Filter narrows an aggregation to one category or one free-text keyword.
// CategoryID takes precedence when both are set.
type Filter struct {
	Keyword    string
	CategoryID int
}

// Summary is the result of aggregating one user's transactions over a range.
type Summary struct {
	Transactions []model.Transaction
	TotalIncome  int64
	TotalExpense int64
	Count        int
}

// Net returns income minus expense.
func (s Summary) Net() int64 {
	return s.TotalIncome - s.TotalExpense
}

// Engine computes aggregates against a storage backend.
type Engine struct {
	store service.Storage
}

// New creates an aggregation engine.
func New(store service.Storage) *Engine {
	return &Engine{store: store}
}

// RangeStart returns the inclusive lower bound of rng relative to now, in
// now's location. Weeks start on Monday. RangeAll returns the zero time.
func RangeStart(rng model.TimeRange, now time.Time) time.Time {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch rng {
	case model.RangeToday:
		return today
	case model.RangeWeek:
		offset := int(now.Weekday()-time.Monday+7) % 7
		return today.AddDate(0, 0, -offset)
	case model.RangeMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	case model.RangeYear:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc)
	default:
		return time.Time{}
	}
}

// Aggregate totals the user's transactions in rng. The category filter is
// pushed down to the store; the keyword filter matches the transaction note
// diacritic-insensitively in the engine.
func (e *Engine) Aggregate(ctx context.Context, userID int64, rng model.TimeRange, filter Filter, now time.Time) (Summary, error) {
	tf := service.TransactionFilter{CategoryID: filter.CategoryID}
	if start := RangeStart(rng, now); !start.IsZero() {
		tf.Since = &start
	}

	txns, err := e.store.TransactionsInRange(ctx, userID, tf)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load transactions: %w", err)
	}

	var summary Summary
	for _, txn := range txns {
		if filter.CategoryID == 0 && filter.Keyword != "" &&
			!vntext.ContainsFold(txn.Note, filter.Keyword) {
			continue
		}
		summary.Transactions = append(summary.Transactions, txn)
		summary.Count++
		switch txn.Kind {
		case model.KindIncome:
			summary.TotalIncome += txn.Amount
		default:
			summary.TotalExpense += txn.Amount
		}
	}
	return summary, nil
}

// CategoryTotal is one category's share of spending in an insight report.
type CategoryTotal struct {
	Name  string
	Total int64
}

// Insights summarizes the current month's spending against the previous
// month: totals, the daily average so far, the top expense categories, and
// the single biggest expense.
type Insights struct {
	BiggestExpense *model.Transaction
	TopCategories  []CategoryTotal
	ThisMonth      int64
	LastMonth      int64
	DailyAverage   int64
	DaysElapsed    int
}

// Insights computes the monthly spending report for userID as of now.
func (e *Engine) Insights(ctx context.Context, userID int64, now time.Time) (Insights, error) {
	loc := now.Location()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	txns, err := e.store.TransactionsInRange(ctx, userID, service.TransactionFilter{Since: &lastMonthStart})
	if err != nil {
		return Insights{}, fmt.Errorf("failed to load transactions: %w", err)
	}

	categories, err := e.store.Categories(ctx)
	if err != nil {
		return Insights{}, fmt.Errorf("failed to load categories: %w", err)
	}
	names := make(map[int]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}

	report := Insights{DaysElapsed: now.Day()}
	byCategory := make(map[int]int64)
	for i := range txns {
		txn := &txns[i]
		if txn.Kind != model.KindExpense {
			continue
		}
		if txn.OccurredAt.Before(monthStart) {
			report.LastMonth += txn.Amount
			continue
		}
		report.ThisMonth += txn.Amount
		byCategory[txn.CategoryID] += txn.Amount
		if report.BiggestExpense == nil || txn.Amount > report.BiggestExpense.Amount {
			report.BiggestExpense = txn
		}
	}

	if report.DaysElapsed > 0 {
		report.DailyAverage = report.ThisMonth / int64(report.DaysElapsed)
	}

	for id, total := range byCategory {
		name := names[id]
		if name == "" {
			name = model.FallbackExpenseCategory
		}
		report.TopCategories = append(report.TopCategories, CategoryTotal{Name: name, Total: total})
	}
	sort.Slice(report.TopCategories, func(i, j int) bool {
		if report.TopCategories[i].Total != report.TopCategories[j].Total {
			return report.TopCategories[i].Total > report.TopCategories[j].Total
		}
		return report.TopCategories[i].Name < report.TopCategories[j].Name
	})
	if len(report.TopCategories) > 3 {
		report.TopCategories = report.TopCategories[:3]
	}

	return report, nil
}
