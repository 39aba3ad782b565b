// Package turnlock guards the one-outstanding-turn-per-user rule.
package turnlock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Locker hands out a non-blocking lock per user. ok is false when the user
// already holds it.
type Locker interface {
	TryAcquire(ctx context.Context, userId uuid.UUID) (release func(), ok bool, err error)
}

type MemoryLocker struct {
	held sync.Map
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{}
}

func (l *MemoryLocker) TryAcquire(ctx context.Context, userId uuid.UUID) (func(), bool, error) {
	if _, loaded := l.held.LoadOrStore(userId, struct{}{}); loaded {
		return nil, false, nil
	}
	return func() { l.held.Delete(userId) }, true, nil
}

// DefaultLease bounds how long a crashed holder can block a user.
const DefaultLease = 2 * time.Minute
