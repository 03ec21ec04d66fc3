// Package vntext provides diacritic-insensitive normalization for Vietnamese
// text. All keyword matching in the classifier, the intent resolver and the
// aggregation filter goes through Fold so that "bánh mì" and "banh mi"
// compare equal.
package vntext

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Fold lowercases s and strips combining diacritical marks. The đ/Đ pair
// carries its stroke in the base rune, not a combining mark, so it is mapped
// separately.
func Fold(s string) string {
	s = strings.ToLower(s)
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		// transform only fails on malformed UTF-8; fall back to the
		// lowercased input so matching degrades instead of breaking.
		folded = s
	}
	return strings.Map(func(r rune) rune {
		if r == 'đ' {
			return 'd'
		}
		return r
	}, folded)
}

// Normalize lowercases s and collapses interior whitespace. Diacritics are
// kept; this is the canonical form stored for learned keywords.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ContainsFold reports whether needle occurs in haystack ignoring case and
// diacritics.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(Fold(haystack), Fold(needle))
}

// EqualFold reports whether a and b are equal ignoring case, diacritics and
// surrounding whitespace.
func EqualFold(a, b string) bool {
	return Fold(strings.TrimSpace(a)) == Fold(strings.TrimSpace(b))
}
