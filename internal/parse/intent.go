package parse

import (
	"sort"
	"strings"

	"github.com/locvx/ghichep/internal/model"
	"github.com/locvx/ghichep/internal/vntext"
)

// Interrogative keywords that mark an utterance as a question about
// spending. Compared diacritic-insensitively.
var questionWords = []string{
	"bao nhiêu",
	"mấy",
	"tổng",
	"thống kê",
	"trung bình",
	"nhiều nhất",
	"ít nhất",
	"hết bao",
	"tiêu gì",
	"chi gì",
}

// Time-range phrases, checked against the folded text.
var rangePhrases = []struct {
	phrase string
	rng    model.TimeRange
}{
	{"hôm nay", model.RangeToday},
	{"bữa nay", model.RangeToday},
	{"tuần này", model.RangeWeek},
	{"tháng này", model.RangeMonth},
	{"năm nay", model.RangeYear},
	{"từ đầu", model.RangeAll},
	{"tất cả", model.RangeAll},
}

// Filler words stripped before the leftover text becomes a filter keyword.
var fillerWords = []string{
	"chi", "tiêu", "đã", "vậy", "thế", "nhỉ", "ạ", "hết", "rồi",
	"cho", "là", "bị", "mất", "tốn", "tiền",
}

// IsQuestion reports whether the text is a question rather than a
// transaction: it ends with a question mark or contains an interrogative
// keyword.
func IsQuestion(text string) bool {
	trimmed := strings.TrimSpace(text)
	if strings.HasSuffix(trimmed, "?") {
		return true
	}
	folded := vntext.Fold(trimmed)
	for _, w := range questionWords {
		if strings.Contains(folded, vntext.Fold(w)) {
			return true
		}
	}
	return false
}

// ResolveIntent extracts a structured query intent from a question using
// fixed keyword rules: a time range from the closed enumeration (default
// all), and at most one filter. A recognized category name takes precedence
// over a loose keyword.
func ResolveIntent(text string, categories []model.Category) model.Intent {
	if !IsQuestion(text) {
		return model.Intent{Range: model.RangeAll}
	}

	intent := model.Intent{IsQuery: true, Range: model.RangeAll}
	folded := vntext.Fold(text)

	consumed := make([]string, 0, 4)
	for _, rp := range rangePhrases {
		fp := vntext.Fold(rp.phrase)
		if strings.Contains(folded, fp) {
			intent.Range = rp.rng
			consumed = append(consumed, fp)
			break
		}
	}

	// Longest category name first so "Chợ/Siêu thị" beats a shorter name
	// that happens to be a substring of the text too.
	sorted := make([]model.Category, len(categories))
	copy(sorted, categories)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i].Name) != len(sorted[j].Name) {
			return len(sorted[i].Name) > len(sorted[j].Name)
		}
		return sorted[i].Name < sorted[j].Name
	})
	for _, cat := range sorted {
		if vntext.ContainsFold(text, cat.Name) {
			intent.CategoryName = cat.Name
			return intent
		}
	}

	// No category matched: the leftover content words become the keyword.
	remainder := folded
	remainder = strings.ReplaceAll(remainder, "?", " ")
	for _, w := range questionWords {
		remainder = strings.ReplaceAll(remainder, vntext.Fold(w), " ")
	}
	for _, c := range consumed {
		remainder = strings.ReplaceAll(remainder, c, " ")
	}
	fields := strings.Fields(remainder)
	kept := fields[:0]
	for _, f := range fields {
		if isFiller(f) {
			continue
		}
		kept = append(kept, f)
	}
	if keyword := strings.Join(kept, " "); len(keyword) >= 2 {
		intent.Keyword = keyword
	}

	return intent
}

func isFiller(word string) bool {
	for _, f := range fillerWords {
		if word == vntext.Fold(f) {
			return true
		}
	}
	return false
}
