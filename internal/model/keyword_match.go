package model

import "sort"

// KeywordMatch records one keyword that matched a note during classification,
// together with the category it maps to.
type KeywordMatch struct {
	Keyword      string
	CategoryName string
	CategoryID   int
}

// KeywordMatches supports the explicit match-ranking rule: the longest
// matching keyword wins, and equal lengths break ties by the
// lexicographically smallest category name. The rule lives here, not in map
// iteration order, so classification is deterministic and testable.
type KeywordMatches []KeywordMatch

// Len implements sort.Interface.
func (m KeywordMatches) Len() int { return len(m) }

// Less implements sort.Interface - longer keywords rank first.
func (m KeywordMatches) Less(i, j int) bool {
	if len(m[i].Keyword) != len(m[j].Keyword) {
		return len(m[i].Keyword) > len(m[j].Keyword)
	}
	if m[i].CategoryName != m[j].CategoryName {
		return m[i].CategoryName < m[j].CategoryName
	}
	return m[i].Keyword < m[j].Keyword
}

// Swap implements sort.Interface.
func (m KeywordMatches) Swap(i, j int) { m[i], m[j] = m[j], m[i] }

// Best returns the winning match under the ranking rule, or nil if empty.
func (m KeywordMatches) Best() *KeywordMatch {
	if len(m) == 0 {
		return nil
	}
	sort.Sort(m)
	return &m[0]
}
