package model

import "time"

// PendingState tracks a pending classification through its lifecycle.
// Transitions are driven only by the matching user's next input or by a
// timeout event; there is no cross-user visibility.
type PendingState string

const (
	// PendingAwaitingChoice means the user has been offered a pick list.
	PendingAwaitingChoice PendingState = "awaiting_choice"
	// PendingResolved means the user picked a category.
	PendingResolved PendingState = "resolved"
	// PendingCancelled means newer unrelated input or a timeout discarded it.
	PendingCancelled PendingState = "cancelled"
)

// PendingClassification holds a parsed transaction awaiting the user's
// category choice. Keyed by (UserID, CorrelationID); ephemeral.
type PendingClassification struct {
	CreatedAt     time.Time
	OccurredAt    time.Time
	CorrelationID string
	Note          string
	SourceText    string
	State         PendingState
	Kind          Kind
	UserID        int64
	Amount        int64
	CandidateID   int // pre-selected category from the dictionary tier, 0 if none
}
