// Package classify resolves a transaction note to a spending category using
// a layered lookup: the user's learned keywords, then a validated external
// suggestion, then the default keyword dictionary, then the catch-all. The
// first tier that matches wins; there is no score blending.
package classify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/locvx/ghichep/internal/model"
	"github.com/locvx/ghichep/internal/vntext"
)

// Store is the slice of storage the classifier needs.
type Store interface {
	Categories(ctx context.Context) ([]model.Category, error)
	LearnedKeywords(ctx context.Context, userID int64) ([]model.LearnedKeyword, error)
	UpsertLearnedKeyword(ctx context.Context, kw model.LearnedKeyword) error
}

// Classifier resolves notes to categories and records user feedback.
type Classifier struct {
	store  Store
	logger *slog.Logger
	locks  *keyedMutex
}

// New creates a classifier backed by the given store.
func New(store Store, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		store:  store,
		logger: logger,
		locks:  newKeyedMutex(),
	}
}

// Classify resolves note to a category for userID. kind selects which
// dictionary categories and which catch-all apply; suggestion is the
// category name proposed by the text-understanding service, ignored unless
// it validates against the known set. Classification never fails outright:
// it degrades to the catch-all with NeedsConfirmation set.
func (c *Classifier) Classify(ctx context.Context, userID int64, note string, kind model.Kind, suggestion string) (model.Decision, error) {
	if !kind.Valid() {
		kind = model.KindExpense
	}

	categories, err := c.store.Categories(ctx)
	if err != nil {
		return model.Decision{}, fmt.Errorf("failed to load categories: %w", err)
	}
	byID := make(map[int]model.Category, len(categories))
	for _, cat := range categories {
		byID[cat.ID] = cat
	}

	// Tier 1: the user's learned keywords.
	learned, err := c.store.LearnedKeywords(ctx, userID)
	if err != nil {
		return model.Decision{}, fmt.Errorf("failed to load learned keywords: %w", err)
	}
	var matches model.KeywordMatches
	for _, kw := range learned {
		if !vntext.ContainsFold(note, kw.Keyword) {
			continue
		}
		cat, ok := byID[kw.CategoryID]
		if !ok {
			continue
		}
		matches = append(matches, model.KeywordMatch{
			Keyword:      kw.Keyword,
			CategoryID:   cat.ID,
			CategoryName: cat.Name,
		})
	}
	if best := matches.Best(); best != nil {
		c.logger.Debug("classified via learned keyword",
			"user_id", userID,
			"keyword", best.Keyword,
			"category", best.CategoryName)
		return model.Decision{
			CategoryID:   best.CategoryID,
			CategoryName: best.CategoryName,
			Source:       model.SourceLearned,
		}, nil
	}

	// Tier 2: the external suggestion, if it names a known category.
	if suggestion != "" {
		if cat := resolveCategoryName(categories, suggestion); cat != nil {
			return model.Decision{
				CategoryID:   cat.ID,
				CategoryName: cat.Name,
				Source:       model.SourceSuggestion,
			}, nil
		}
		c.logger.Debug("ignoring unknown category suggestion", "suggestion", suggestion)
	}

	// Tier 3: default keyword dictionary for the expected kind.
	matches = matches[:0]
	for _, cat := range categories {
		if cat.Kind != kind {
			continue
		}
		for _, kw := range cat.Keywords {
			if kw == "" || !vntext.ContainsFold(note, kw) {
				continue
			}
			matches = append(matches, model.KeywordMatch{
				Keyword:      kw,
				CategoryID:   cat.ID,
				CategoryName: cat.Name,
			})
		}
	}
	if best := matches.Best(); best != nil {
		return model.Decision{
			CategoryID:        best.CategoryID,
			CategoryName:      best.CategoryName,
			Source:            model.SourceDictionary,
			NeedsConfirmation: true,
		}, nil
	}

	// Tier 4: catch-all for the kind.
	fallbackName := model.FallbackCategoryName(kind)
	for _, cat := range categories {
		if cat.Name == fallbackName {
			return model.Decision{
				CategoryID:        cat.ID,
				CategoryName:      cat.Name,
				Source:            model.SourceFallback,
				NeedsConfirmation: true,
			}, nil
		}
	}
	return model.Decision{}, fmt.Errorf("catch-all category %q is missing", fallbackName)
}

// resolveCategoryName validates a proposed category name against the known
// set: exact fold-equal first, then containment either way, mirroring how
// loosely the upstream service renders names.
func resolveCategoryName(categories []model.Category, name string) *model.Category {
	for i := range categories {
		if vntext.EqualFold(categories[i].Name, name) {
			return &categories[i]
		}
	}
	for i := range categories {
		if vntext.ContainsFold(categories[i].Name, name) || vntext.ContainsFold(name, categories[i].Name) {
			return &categories[i]
		}
	}
	return nil
}
