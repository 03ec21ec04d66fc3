package classify

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvx/ghichep/internal/model"
)

type fakeStore struct {
	categories []model.Category
	learned    map[int64][]model.LearnedKeyword
	upserts    []model.LearnedKeyword
	mu         sync.Mutex
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		categories: []model.Category{
			{ID: 1, Name: "Ăn uống", Kind: model.KindExpense, Keywords: []string{"cafe", "cơm", "bánh mì"}},
			{ID: 2, Name: "Di chuyển", Kind: model.KindExpense, Keywords: []string{"xăng", "grab"}},
			{ID: 3, Name: "Khác", Kind: model.KindExpense},
			{ID: 4, Name: "Lương", Kind: model.KindIncome, Keywords: []string{"lương"}},
			{ID: 5, Name: "Thu khác", Kind: model.KindIncome},
		},
		learned: make(map[int64][]model.LearnedKeyword),
	}
}

func (f *fakeStore) Categories(_ context.Context) ([]model.Category, error) {
	return f.categories, nil
}

func (f *fakeStore) LearnedKeywords(_ context.Context, userID int64) ([]model.LearnedKeyword, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.learned[userID], nil
}

func (f *fakeStore) UpsertLearnedKeyword(_ context.Context, kw model.LearnedKeyword) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, kw)
	for i, existing := range f.learned[kw.UserID] {
		if existing.Keyword == kw.Keyword {
			f.learned[kw.UserID][i].CategoryID = kw.CategoryID
			return nil
		}
	}
	f.learned[kw.UserID] = append(f.learned[kw.UserID], kw)
	return nil
}

func TestClassifyLearnedBeatsEverything(t *testing.T) {
	store := newFakeStore()
	store.learned[7] = []model.LearnedKeyword{
		{UserID: 7, Keyword: "cafe", CategoryID: 2},
	}
	c := New(store, nil)

	// "cafe" is also a dictionary keyword of Ăn uống and the suggestion
	// names Ăn uống too, but the user taught us otherwise.
	decision, err := c.Classify(context.Background(), 7, "cafe sáng", model.KindExpense, "Ăn uống")
	require.NoError(t, err)
	assert.Equal(t, 2, decision.CategoryID)
	assert.Equal(t, model.SourceLearned, decision.Source)
	assert.False(t, decision.NeedsConfirmation)
}

func TestClassifySuggestionBeatsDictionary(t *testing.T) {
	store := newFakeStore()
	c := New(store, nil)

	decision, err := c.Classify(context.Background(), 7, "đổ xăng", model.KindExpense, "Di chuyển")
	require.NoError(t, err)
	assert.Equal(t, 2, decision.CategoryID)
	assert.Equal(t, model.SourceSuggestion, decision.Source)
	assert.False(t, decision.NeedsConfirmation)
}

func TestClassifyUnknownSuggestionIgnored(t *testing.T) {
	store := newFakeStore()
	c := New(store, nil)

	decision, err := c.Classify(context.Background(), 7, "đổ xăng", model.KindExpense, "Nhiên liệu")
	require.NoError(t, err)
	assert.Equal(t, 2, decision.CategoryID)
	assert.Equal(t, model.SourceDictionary, decision.Source)
	assert.True(t, decision.NeedsConfirmation)
}

func TestClassifyDictionaryNeedsConfirmation(t *testing.T) {
	store := newFakeStore()
	c := New(store, nil)

	decision, err := c.Classify(context.Background(), 7, "cafe", model.KindExpense, "")
	require.NoError(t, err)
	assert.Equal(t, 1, decision.CategoryID)
	assert.Equal(t, model.SourceDictionary, decision.Source)
	assert.True(t, decision.NeedsConfirmation)
}

func TestClassifyFallbackPerKind(t *testing.T) {
	store := newFakeStore()
	c := New(store, nil)

	expense, err := c.Classify(context.Background(), 7, "zzz", model.KindExpense, "")
	require.NoError(t, err)
	assert.Equal(t, "Khác", expense.CategoryName)
	assert.Equal(t, model.SourceFallback, expense.Source)
	assert.True(t, expense.NeedsConfirmation)

	income, err := c.Classify(context.Background(), 7, "zzz", model.KindIncome, "")
	require.NoError(t, err)
	assert.Equal(t, "Thu khác", income.CategoryName)
}

func TestClassifyTieBreak(t *testing.T) {
	store := newFakeStore()
	store.categories = []model.Category{
		{ID: 1, Name: "Beta", Kind: model.KindExpense, Keywords: []string{"ab"}},
		{ID: 2, Name: "Alpha", Kind: model.KindExpense, Keywords: []string{"cd"}},
		{ID: 3, Name: "Khác", Kind: model.KindExpense},
	}
	c := New(store, nil)

	// Both keywords match with equal length; the lexicographically smaller
	// category name wins, deterministically.
	for range 5 {
		decision, err := c.Classify(context.Background(), 7, "ab cd", model.KindExpense, "")
		require.NoError(t, err)
		assert.Equal(t, "Alpha", decision.CategoryName)
	}
}

func TestClassifyLongestKeywordWins(t *testing.T) {
	store := newFakeStore()
	store.categories = []model.Category{
		{ID: 1, Name: "Ăn uống", Kind: model.KindExpense, Keywords: []string{"ăn"}},
		{ID: 2, Name: "Chợ/Siêu thị", Kind: model.KindExpense, Keywords: []string{"ăn trưa ở chợ"}},
		{ID: 3, Name: "Khác", Kind: model.KindExpense},
	}
	c := New(store, nil)

	decision, err := c.Classify(context.Background(), 7, "ăn trưa ở chợ", model.KindExpense, "")
	require.NoError(t, err)
	assert.Equal(t, "Chợ/Siêu thị", decision.CategoryName)
}

func TestClassifyDiacriticInsensitive(t *testing.T) {
	store := newFakeStore()
	c := New(store, nil)

	decision, err := c.Classify(context.Background(), 7, "banh mi 20k", model.KindExpense, "")
	require.NoError(t, err)
	assert.Equal(t, "Ăn uống", decision.CategoryName)
}

func TestLearnNormalizesAndStores(t *testing.T) {
	store := newFakeStore()
	c := New(store, nil)

	require.NoError(t, c.Learn(context.Background(), 7, "  Trà   Đào ", 1))
	require.Len(t, store.upserts, 1)
	assert.Equal(t, "trà đào", store.upserts[0].Keyword)
	assert.Equal(t, 1, store.upserts[0].CategoryID)

	// Once learned, the same phrasing resolves without confirmation.
	decision, err := c.Classify(context.Background(), 7, "trà đào 25k", model.KindExpense, "")
	require.NoError(t, err)
	assert.Equal(t, model.SourceLearned, decision.Source)
	assert.False(t, decision.NeedsConfirmation)
}

func TestLearnSkipsShortNotes(t *testing.T) {
	store := newFakeStore()
	c := New(store, nil)

	require.NoError(t, c.Learn(context.Background(), 7, "x", 1))
	assert.Empty(t, store.upserts)
}

func TestLearnConcurrentSameKeyword(t *testing.T) {
	store := newFakeStore()
	c := New(store, nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Learn(context.Background(), 7, "trà đào", 1)
		}()
	}
	wg.Wait()

	assert.Len(t, store.upserts, 8)
	assert.Len(t, store.learned[7], 1)
}
