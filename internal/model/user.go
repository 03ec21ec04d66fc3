package model

import "time"

// PlatformKind identifies a messaging platform a user can reach the bot on.
type PlatformKind string

const (
	// PlatformTelegram is the Telegram messaging platform.
	PlatformTelegram PlatformKind = "telegram"
	// PlatformZalo is the Zalo messaging platform.
	PlatformZalo PlatformKind = "zalo"
)

// Valid reports whether the platform kind is one of the known variants.
func (p PlatformKind) Valid() bool {
	return p == PlatformTelegram || p == PlatformZalo
}

// LogicalUser is one person's identity unified across messaging platforms.
// A phone number maps to at most one user, and a platform account maps to
// at most one user; both invariants are enforced by storage constraints.
type LogicalUser struct {
	CreatedAt   time.Time
	Phone       string // empty until the user links a phone
	DisplayName string
	Accounts    map[PlatformKind]string // at most one account per platform
	ID          int64
}

// Account returns the account id for a platform, if attached.
func (u *LogicalUser) Account(kind PlatformKind) (string, bool) {
	id, ok := u.Accounts[kind]
	return id, ok
}
