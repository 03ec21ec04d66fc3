package model

// ConfidenceSource records which resolution tier produced a classification.
type ConfidenceSource string

const (
	// SourceLearned means a user-specific learned keyword matched.
	SourceLearned ConfidenceSource = "learned"
	// SourceSuggestion means the text-understanding service proposed a
	// category that validated against the known set.
	SourceSuggestion ConfidenceSource = "suggestion"
	// SourceDictionary means a default category keyword matched.
	SourceDictionary ConfidenceSource = "dictionary"
	// SourceFallback means the catch-all category was assigned.
	SourceFallback ConfidenceSource = "fallback"
)

// Decision is the outcome of classifying a transaction note.
// NeedsConfirmation is set when resolution only reached the dictionary or
// fallback tier, signaling the caller to offer the user a pick list.
type Decision struct {
	CategoryName      string
	Source            ConfidenceSource
	CategoryID        int
	NeedsConfirmation bool
}
