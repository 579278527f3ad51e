package concurrency

import (
	"context"
	"fmt"
	"sync"

	"github.com/osse101/FumoBot_Go/internal/domain"
)

type lockEntry struct {
	sem  chan struct{}
	refs int
}

// LockManager handles named in-process locks. Entries are dropped once no
// goroutine holds or waits on them.
type LockManager struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

var _ Locker = (*LockManager)(nil)

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[string]*lockEntry)}
}

// Lock acquires the lock for key.
func (lm *LockManager) Lock(ctx context.Context, key string) (func(), error) {
	e := lm.acquire(key)

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		lm.release(key, e)
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrLockNotAcquired, key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			lm.release(key, e)
		})
	}, nil
}

// Size returns the number of live entries.
func (lm *LockManager) Size() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return len(lm.locks)
}

func (lm *LockManager) acquire(key string) *lockEntry {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	e, ok := lm.locks[key]
	if !ok {
		e = &lockEntry{sem: make(chan struct{}, 1)}
		lm.locks[key] = e
	}
	e.refs++
	return e
}

func (lm *LockManager) release(key string, e *lockEntry) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(lm.locks, key)
	}
}
