package aggregate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvx/ghichep/internal/model"
	"github.com/locvx/ghichep/internal/storage"
)

// fixedNow is a Wednesday.
var fixedNow = time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

func TestRangeStart(t *testing.T) {
	tests := []struct {
		rng  model.TimeRange
		now  time.Time
		want time.Time
	}{
		{model.RangeToday, fixedNow, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)},
		{model.RangeWeek, fixedNow, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{model.RangeMonth, fixedNow, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{model.RangeYear, fixedNow, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{model.RangeAll, fixedNow, time.Time{}},
		// Sunday belongs to the week that started the previous Monday.
		{model.RangeWeek, time.Date(2025, 3, 16, 23, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		// A Monday starts its own week.
		{model.RangeWeek, time.Date(2025, 3, 10, 0, 30, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RangeStart(tt.rng, tt.now), "RangeStart(%s, %s)", tt.rng, tt.now)
	}
}

func newFixtureEngine(t *testing.T) (*Engine, int64) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.SeedCategories(ctx))

	user := &model.LogicalUser{Accounts: map[model.PlatformKind]string{model.PlatformTelegram: "tg-1"}}
	require.NoError(t, store.CreateUser(ctx, user))

	eat, err := store.CategoryByName(ctx, "Ăn uống")
	require.NoError(t, err)
	move, err := store.CategoryByName(ctx, "Di chuyển")
	require.NoError(t, err)
	salary, err := store.CategoryByName(ctx, "Lương")
	require.NoError(t, err)

	fixture := []model.Transaction{
		{ID: "a", Amount: 50_000, Note: "cafe", Kind: model.KindExpense, CategoryID: eat.ID,
			OccurredAt: fixedNow.Add(-2 * time.Hour)}, // today
		{ID: "b", Amount: 20_000, Note: "bánh mì", Kind: model.KindExpense, CategoryID: eat.ID,
			OccurredAt: fixedNow.AddDate(0, 0, -1)}, // this week, not today
		{ID: "c", Amount: 100_000, Note: "đổ xăng", Kind: model.KindExpense, CategoryID: move.ID,
			OccurredAt: fixedNow.AddDate(0, 0, -7)}, // this month, last week
		{ID: "d", Amount: 15_000_000, Note: "lương", Kind: model.KindIncome, CategoryID: salary.ID,
			OccurredAt: fixedNow.AddDate(0, 0, -7)},
		{ID: "e", Amount: 300_000, Note: "cafe với khách", Kind: model.KindExpense, CategoryID: eat.ID,
			OccurredAt: fixedNow.AddDate(0, -1, 0)}, // last month
	}
	for i := range fixture {
		fixture[i].UserID = user.ID
		require.NoError(t, store.SaveTransaction(ctx, &fixture[i]))
	}
	return New(store), user.ID
}

func TestAggregateRanges(t *testing.T) {
	engine, userID := newFixtureEngine(t)
	ctx := context.Background()

	today, err := engine.Aggregate(ctx, userID, model.RangeToday, Filter{}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, int64(50_000), today.TotalExpense)
	assert.Equal(t, 1, today.Count)

	week, err := engine.Aggregate(ctx, userID, model.RangeWeek, Filter{}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, int64(70_000), week.TotalExpense)

	month, err := engine.Aggregate(ctx, userID, model.RangeMonth, Filter{}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, int64(170_000), month.TotalExpense)
	assert.Equal(t, int64(15_000_000), month.TotalIncome)

	all, err := engine.Aggregate(ctx, userID, model.RangeAll, Filter{}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, int64(470_000), all.TotalExpense)
	assert.Equal(t, 5, all.Count)
	assert.Equal(t, int64(15_000_000-470_000), all.Net())
}

func TestAggregateKeywordFilter(t *testing.T) {
	engine, userID := newFixtureEngine(t)
	ctx := context.Background()

	// Diacritic-insensitive: "cafe" matches "cafe với khách" too.
	summary, err := engine.Aggregate(ctx, userID, model.RangeAll, Filter{Keyword: "cafe"}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, int64(350_000), summary.TotalExpense)

	xang, err := engine.Aggregate(ctx, userID, model.RangeAll, Filter{Keyword: "xang"}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 1, xang.Count)
	assert.Equal(t, int64(100_000), xang.TotalExpense)
}

func TestAggregateCategoryFilterWins(t *testing.T) {
	engine, userID := newFixtureEngine(t)
	ctx := context.Background()

	summary, err := engine.Aggregate(ctx, userID, model.RangeAll, Filter{CategoryID: 2, Keyword: "xăng"}, fixedNow)
	require.NoError(t, err)
	// Category 2 is Ăn uống; the keyword is ignored once a category is set.
	assert.Equal(t, 3, summary.Count)
}

func TestInsights(t *testing.T) {
	engine, userID := newFixtureEngine(t)
	ctx := context.Background()

	report, err := engine.Insights(ctx, userID, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, int64(170_000), report.ThisMonth)
	assert.Equal(t, int64(300_000), report.LastMonth)
	assert.Equal(t, 12, report.DaysElapsed)
	assert.Equal(t, int64(170_000/12), report.DailyAverage)
	require.NotNil(t, report.BiggestExpense)
	assert.Equal(t, "c", report.BiggestExpense.ID)
	require.NotEmpty(t, report.TopCategories)
	assert.Equal(t, "Di chuyển", report.TopCategories[0].Name)
}
