package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/locvx/ghichep/internal/common"
	"github.com/locvx/ghichep/internal/model"
)

// Categories returns all categories with their keyword dictionaries.
func (s *SQLiteStorage) Categories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, keywords, kind, created_at
		FROM categories
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// CategoryByID retrieves a category by its id.
func (s *SQLiteStorage) CategoryByID(ctx context.Context, id int) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, keywords, kind, created_at
		FROM categories
		WHERE id = ?
	`, id)
	cat, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	return cat, err
}

// CategoryByName retrieves a category by its exact name.
func (s *SQLiteStorage) CategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, keywords, kind, created_at
		FROM categories
		WHERE name = ?
	`, name)
	cat, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	return cat, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*model.Category, error) {
	var cat model.Category
	var keywords, kind string
	if err := row.Scan(&cat.ID, &cat.Name, &keywords, &kind, &cat.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}
	cat.Kind = model.Kind(kind)
	if keywords != "" {
		for _, kw := range strings.Split(keywords, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				cat.Keywords = append(cat.Keywords, kw)
			}
		}
	}
	return &cat, nil
}
