package stock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// lockTable hands out one exclusive lock per item ID. Locks are created
// lazily and never removed; the set of items is small and stable.
type lockTable struct {
	mu    sync.Mutex
	locks map[uint]chan struct{}
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[uint]chan struct{})}
}

func (t *lockTable) lock(itemID uint) chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch, ok := t.locks[itemID]
	if !ok {
		// Buffered with capacity 1: a successful send holds the lock.
		ch = make(chan struct{}, 1)
		t.locks[itemID] = ch
	}
	return ch
}

// acquire blocks until the lock for itemID is held, the timeout expires,
// or ctx is cancelled. On success it returns the release function.
func (t *lockTable) acquire(ctx context.Context, itemID uint, timeout time.Duration) (func(), error) {
	ch := t.lock(itemID)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-timer.C:
		return nil, fmt.Errorf("item %d: %w", itemID, ErrLockTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
