package classify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/locvx/ghichep/internal/common"
	"github.com/locvx/ghichep/internal/model"
	"github.com/locvx/ghichep/internal/service"
	"github.com/locvx/ghichep/internal/vntext"
)

// Learn records that the user assigned note's phrase to categoryID. The
// normalized note becomes a learned keyword so the same phrasing classifies
// without asking next time. Notes shorter than two characters after
// normalization are too ambiguous to learn and are skipped silently.
func (c *Classifier) Learn(ctx context.Context, userID int64, note string, categoryID int) error {
	keyword := vntext.Normalize(note)
	if len([]rune(keyword)) < 2 {
		c.logger.Debug("note too short to learn", "user_id", userID, "note", note)
		return nil
	}

	// Serialize writes per (user, keyword) so concurrent confirmations of
	// the same phrase collapse into one upsert ordering.
	unlock := c.locks.lock(fmt.Sprintf("%d:%s", userID, keyword))
	defer unlock()

	kw := model.LearnedKeyword{
		UserID:     userID,
		CategoryID: categoryID,
		Keyword:    keyword,
	}
	return common.WithRetry(ctx, func() error {
		return c.store.UpsertLearnedKeyword(ctx, kw)
	}, service.RetryOptions{
		MaxAttempts:  2,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2,
	})
}

// keyedMutex hands out a mutex per string key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*entry)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
