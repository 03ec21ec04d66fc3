package model

import "time"

// Kind indicates whether a category or transaction moves money out or in.
type Kind string

const (
	// KindExpense represents money leaving the user's pocket.
	KindExpense Kind = "expense"
	// KindIncome represents money coming in.
	KindIncome Kind = "income"
)

// Valid reports whether the kind is one of the known variants.
func (k Kind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

// Category represents a spending category with its default keyword dictionary.
type Category struct {
	CreatedAt time.Time
	Name      string
	Keywords  []string // normalized default keywords, matched as substrings
	Kind      Kind
	ID        int
}

// Fallback category names, one catch-all per kind.
const (
	FallbackExpenseCategory = "Khác"
	FallbackIncomeCategory  = "Thu khác"
)

// FallbackCategoryName returns the catch-all category name for a kind.
func FallbackCategoryName(k Kind) string {
	if k == KindIncome {
		return FallbackIncomeCategory
	}
	return FallbackExpenseCategory
}
