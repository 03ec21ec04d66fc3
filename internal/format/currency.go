// Package format renders amounts and timestamps for chat replies, using the
// same compact notation users type: 50k, 2tr, 1tr5.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Currency renders whole đồng in compact chat form: 50000 becomes "50k",
// 2000000 becomes "2tr", 1500000 becomes "1.5tr". Amounts under a thousand
// are rendered literally.
func Currency(amount int64) string {
	neg := ""
	if amount < 0 {
		neg = "-"
		amount = -amount
	}
	switch {
	case amount >= 1_000_000:
		return neg + trimZero(float64(amount)/1_000_000) + "tr"
	case amount >= 1_000:
		return neg + trimZero(float64(amount)/1_000) + "k"
	default:
		return neg + strconv.FormatInt(amount, 10)
	}
}

// CurrencyFull renders whole đồng with grouping and the currency sign:
// 50000 becomes "50,000₫".
func CurrencyFull(amount int64) string {
	neg := ""
	if amount < 0 {
		neg = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return neg + b.String() + "₫"
}

// Date renders a timestamp as dd/mm/yyyy.
func Date(t time.Time) string {
	return t.Format("02/01/2006")
}

// DateTime renders a timestamp as dd/mm/yyyy hh:mm.
func DateTime(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}

// trimZero formats with one decimal place and drops a trailing ".0".
func trimZero(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}
