package storage

import (
	"context"
	"fmt"

	"github.com/locvx/ghichep/internal/model"
)

// LearnedKeywords returns all learned keyword mappings for a user.
func (s *SQLiteStorage) LearnedKeywords(ctx context.Context, userID int64) ([]model.LearnedKeyword, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, keyword, category_id, use_count, created_at, updated_at
		FROM user_keywords
		WHERE user_id = ?
		ORDER BY keyword
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query learned keywords: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keywords []model.LearnedKeyword
	for rows.Next() {
		var kw model.LearnedKeyword
		if err := rows.Scan(&kw.UserID, &kw.Keyword, &kw.CategoryID, &kw.UseCount, &kw.CreatedAt, &kw.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan learned keyword: %w", err)
		}
		keywords = append(keywords, kw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate learned keywords: %w", err)
	}
	return keywords, nil
}

// UpsertLearnedKeyword records a keyword mapping, replacing the category of
// an existing mapping and bumping its use count.
func (s *SQLiteStorage) UpsertLearnedKeyword(ctx context.Context, kw model.LearnedKeyword) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(kw.Keyword, "keyword"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_keywords (user_id, keyword, category_id, use_count)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(user_id, keyword) DO UPDATE SET
			category_id = excluded.category_id,
			use_count = use_count + 1,
			updated_at = CURRENT_TIMESTAMP
	`, kw.UserID, kw.Keyword, kw.CategoryID)
	if err != nil {
		return fmt.Errorf("failed to upsert learned keyword: %w", err)
	}
	return nil
}
