package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireShiftLock(ctx context.Context, shiftID string, ttl time.Duration) (bool, error)
	ReleaseShiftLock(ctx context.Context, shiftID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface = (*LockStore)(nil)
)
