package model

import "time"

// LearnedKeyword is a user-specific mapping from a note substring to a
// category, created when the user resolves an ambiguous classification.
// Unique per (UserID, Keyword); re-learning replaces the prior mapping.
type LearnedKeyword struct {
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Keyword    string // normalized: lowercased, whitespace collapsed
	UserID     int64
	CategoryID int
	UseCount   int
}
