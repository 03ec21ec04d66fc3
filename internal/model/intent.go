package model

// TimeRange is the closed set of aggregation windows a query can name.
type TimeRange string

const (
	// RangeToday covers the local calendar day.
	RangeToday TimeRange = "today"
	// RangeWeek covers Monday 00:00 through now.
	RangeWeek TimeRange = "week"
	// RangeMonth covers the first of the month through now.
	RangeMonth TimeRange = "month"
	// RangeYear covers January 1 through now.
	RangeYear TimeRange = "year"
	// RangeAll is unbounded.
	RangeAll TimeRange = "all"
)

// Valid reports whether the range is one of the known variants.
func (r TimeRange) Valid() bool {
	switch r {
	case RangeToday, RangeWeek, RangeMonth, RangeYear, RangeAll:
		return true
	}
	return false
}

// Intent is the structured form of a natural-language question about
// spending. At most one of Keyword/CategoryName narrows the aggregation;
// a recognized category takes precedence over a loose keyword.
type Intent struct {
	Range        TimeRange
	Keyword      string
	CategoryName string
	IsQuery      bool
}
