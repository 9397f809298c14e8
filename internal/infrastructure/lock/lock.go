// Package lock serializes work on a key across goroutines or replicas.
package lock

import (
	"context"
	"fmt"
)

// Release gives a held lock back. Calling it more than once is harmless.
type Release func(ctx context.Context) error

// Locker hands out exclusive leases per key. Acquire blocks until the lease
// is granted or ctx is done, in which case it returns domain.ErrLockNotAcquired.
type Locker interface {
	Acquire(ctx context.Context, key string) (Release, error)
}

// PairKey is the lock key of an unordered user pair.
func PairKey(userAID, userBID int) string {
	if userAID > userBID {
		userAID, userBID = userBID, userAID
	}
	return fmt.Sprintf("dejavu:match-lock:%d:%d", userAID, userBID)
}
