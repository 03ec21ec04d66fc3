package model

import "time"

// Transaction represents a single logged expense or income entry.
// Amounts are whole đồng; there is no fractional currency unit.
type Transaction struct {
	OccurredAt time.Time
	CreatedAt  time.Time
	ID         string
	Note       string
	SourceText string // original utterance fragment the entry was parsed from
	Kind       Kind
	UserID     int64
	Amount     int64 // non-negative, direction carried by Kind
	CategoryID int   // 0 until resolved
}

// Categorized reports whether the transaction has a resolved category.
func (t *Transaction) Categorized() bool {
	return t.CategoryID != 0
}
