// Package concurrency provides per-key mutual exclusion for roll transactions.
package concurrency

import "context"

// Locker serializes work per key. Lock blocks until the key is free or ctx is done.
// The returned unlock func must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// UserKey namespaces a user ID for locking.
func UserKey(userID string) string {
	return "user:" + userID
}
