// Package parse turns raw Vietnamese chat utterances into transaction
// phrases: finding the amount token wherever it sits in the phrase, scaling
// suffixed and bare numbers to whole đồng, and splitting multi-transaction
// messages without tearing apart qualifiers.
package parse

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/locvx/ghichep/internal/model"
)

// ErrNoAmount is returned when an utterance carries no extractable amount.
var ErrNoAmount = errors.New("no amount found")

// Options tunes the normalizer.
type Options struct {
	// AutoScaleBelow: a bare number with no suffix below this threshold is
	// taken as thousands (users never log sub-1,000-đồng amounts). Numbers
	// at or above the threshold are taken literally.
	AutoScaleBelow int64
}

// DefaultOptions returns the production parser settings.
func DefaultOptions() Options {
	return Options{AutoScaleBelow: 1000}
}

// Phrase is one parsed transaction candidate: the scaled amount, the
// remaining descriptive note, and the kind hinted by an explicit sign.
type Phrase struct {
	Note   string
	Source string
	Kind   model.Kind
	Amount int64
}

var numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

// Magnitude suffixes, longest first so "triệu" is not read as "tr"+"iệu".
var suffixes = []struct {
	text   string
	factor float64
}{
	{"triệu", 1_000_000},
	{"nghìn", 1_000},
	{"tr", 1_000_000},
	{"m", 1_000_000},
	{"k", 1_000},
}

// Amount normalizes a single numeric token with an optional magnitude
// suffix into whole đồng.
func Amount(token string, opts Options) (int64, error) {
	p, err := Extract(token, opts)
	if err != nil {
		return 0, err
	}
	return p.Amount, nil
}

// Extract finds the leftmost amount token in phrase, position-independent,
// and returns the scaled amount together with the remainder as the note.
func Extract(phrase string, opts Options) (Phrase, error) {
	if opts.AutoScaleBelow <= 0 {
		opts.AutoScaleBelow = 1000
	}

	for _, loc := range numberPattern.FindAllStringIndex(phrase, -1) {
		start, end := loc[0], loc[1]

		// Reject digits glued to a word, e.g. the "7" in "x7u".
		if r, ok := runeBefore(phrase, start); ok && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			continue
		}

		kind := model.KindExpense
		tokenStart := start
		if r, ok := runeBefore(phrase, start); ok && (r == '+' || r == '-') {
			if prev, has := runeBefore(phrase, start-utf8.RuneLen(r)); !has || !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
				tokenStart = start - utf8.RuneLen(r)
				if r == '+' {
					kind = model.KindIncome
				}
			}
		}

		suffix, factor, tokenEnd := matchSuffix(phrase[end:])
		tokenEnd += end

		value, ok := numberValue(phrase[start:end], suffix != "")
		if !ok {
			continue
		}

		if suffix != "" {
			value *= factor
		} else if value < float64(opts.AutoScaleBelow) {
			value *= 1000
		}

		note := strings.TrimSpace(phrase[:tokenStart] + " " + phrase[tokenEnd:])
		note = strings.Trim(note, ",;-– ")
		note = strings.Join(strings.Fields(note), " ")

		return Phrase{
			Amount: int64(math.Round(value)),
			Note:   note,
			Kind:   kind,
			Source: strings.TrimSpace(phrase),
		}, nil
	}

	return Phrase{}, ErrNoAmount
}

// HasAmount reports whether the segment contains a recognizable amount token.
func HasAmount(segment string) bool {
	_, err := Extract(segment, DefaultOptions())
	return err == nil
}

// matchSuffix reads an optional magnitude suffix at the head of rest,
// allowing whitespace between number and suffix ("20 nghìn"). It returns the
// matched suffix, its factor, and how many bytes of rest were consumed.
func matchSuffix(rest string) (string, float64, int) {
	trimmed := strings.TrimLeft(rest, " \t")
	pad := len(rest) - len(trimmed)

	lower := strings.ToLower(trimmed)
	for _, s := range suffixes {
		if !strings.HasPrefix(lower, s.text) {
			continue
		}
		// The suffix must end at a word boundary: "50 km" is not "50k".
		if r, ok := runeAt(trimmed, len(s.text)); ok && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			continue
		}
		return s.text, s.factor, pad + len(s.text)
	}
	return "", 0, 0
}

// numberValue interprets the digit string. Separators are thousands
// grouping, except that a trailing group of 1-2 digits directly before a
// magnitude suffix is a fraction ("15,5k" is 15.5 thousand).
func numberValue(number string, hasSuffix bool) (float64, bool) {
	parts := strings.FieldsFunc(number, func(r rune) bool { return r == '.' || r == ',' })
	if len(parts) == 0 {
		return 0, false
	}

	if len(parts) > 1 && hasSuffix && len(parts[len(parts)-1]) <= 2 {
		whole := strings.Join(parts[:len(parts)-1], "")
		frac := parts[len(parts)-1]
		v, err := strconv.ParseFloat(whole+"."+frac, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	v, err := strconv.ParseFloat(strings.Join(parts, ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func runeBefore(s string, idx int) (rune, bool) {
	if idx <= 0 || idx > len(s) {
		return 0, false
	}
	r, size := utf8.DecodeLastRuneInString(s[:idx])
	if r == utf8.RuneError && size <= 1 {
		return 0, false
	}
	return r, true
}

func runeAt(s string, idx int) (rune, bool) {
	if idx < 0 || idx >= len(s) {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(s[idx:])
	if r == utf8.RuneError && size <= 1 {
		return 0, false
	}
	return r, true
}
