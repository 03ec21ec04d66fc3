// Package session holds per-user pending classification state: a transaction
// that is waiting for the user to pick its category. At most one pending
// entry exists per user; any newer input supersedes it.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/locvx/ghichep/internal/model"
)

const defaultTTL = 5 * time.Minute

// Manager is an in-memory pending classification store with TTL expiry.
type Manager struct {
	entries map[int64]*pendingEntry
	logger  *slog.Logger
	done    chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
	once    sync.Once
}

type pendingEntry struct {
	pending   model.PendingClassification
	expiresAt time.Time
}

// New creates a session manager. A ttl of zero selects the five minute
// default. A background reaper drops expired entries; callers must Close.
func New(ttl time.Duration, logger *slog.Logger) *Manager {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		entries: make(map[int64]*pendingEntry),
		ttl:     ttl,
		logger:  logger,
		done:    make(chan struct{}),
	}
	go m.reap()
	return m
}

// Put stores a pending classification for its user, replacing and cancelling
// any entry already waiting.
func (m *Manager) Put(pending model.PendingClassification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.entries[pending.UserID]; ok {
		m.logger.Debug("superseding pending classification",
			"user_id", pending.UserID,
			"old_correlation_id", old.pending.CorrelationID)
	}
	pending.State = model.PendingAwaitingChoice
	m.entries[pending.UserID] = &pendingEntry{
		pending:   pending,
		expiresAt: time.Now().Add(m.ttl),
	}
}

// Get returns the user's pending classification if it matches correlationID
// and has not expired. An empty correlationID matches any pending entry.
func (m *Manager) Get(userID int64, correlationID string) (model.PendingClassification, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[userID]
	if !ok || time.Now().After(entry.expiresAt) {
		return model.PendingClassification{}, false
	}
	if correlationID != "" && entry.pending.CorrelationID != correlationID {
		return model.PendingClassification{}, false
	}
	return entry.pending, true
}

// Resolve removes and returns the user's pending classification for the
// given correlation ID.
func (m *Manager) Resolve(userID int64, correlationID string) (model.PendingClassification, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[userID]
	if !ok || time.Now().After(entry.expiresAt) {
		return model.PendingClassification{}, false
	}
	if correlationID != "" && entry.pending.CorrelationID != correlationID {
		return model.PendingClassification{}, false
	}
	delete(m.entries, userID)
	entry.pending.State = model.PendingResolved
	return entry.pending, true
}

// Cancel drops the user's pending classification, if any. It reports whether
// an entry was waiting.
func (m *Manager) Cancel(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[userID]
	delete(m.entries, userID)
	return ok
}

// Close stops the background reaper.
func (m *Manager) Close() {
	m.once.Do(func() { close(m.done) })
}

func (m *Manager) reap() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.mu.Lock()
			now := time.Now()
			for userID, entry := range m.entries {
				if now.After(entry.expiresAt) {
					delete(m.entries, userID)
					m.logger.Debug("expired pending classification", "user_id", userID)
				}
			}
			m.mu.Unlock()
		}
	}
}
