// Package lock provides keyed mutual exclusion used to serialise scheduling
// writes per person.
package lock

import (
	"context"
	"errors"
	"sort"
	"time"
)

// ErrNotAcquired is returned when a lock could not be taken before the wait
// limit or context expired.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker acquires named locks.
type Locker interface {
	// Acquire blocks until key is held, wait elapses or ctx is done.
	Acquire(ctx context.Context, key string, wait time.Duration) (Handle, error)
}

// Handle releases a held lock.
type Handle interface {
	Release(ctx context.Context) error
}

// AcquireAll takes every key in ascending order so that callers locking
// overlapping key sets cannot deadlock. On failure the keys already held are
// released.
func AcquireAll(ctx context.Context, locker Locker, keys []string, wait time.Duration) (Handle, error) {
	sorted := uniqueSorted(keys)
	held := make(multiHandle, 0, len(sorted))
	deadline := time.Now().Add(wait)
	for _, key := range sorted {
		remaining := time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}
		h, err := locker.Acquire(ctx, key, remaining)
		if err != nil {
			_ = held.Release(context.WithoutCancel(ctx))
			return nil, err
		}
		held = append(held, h)
	}
	return held, nil
}

type multiHandle []Handle

func (m multiHandle) Release(ctx context.Context) error {
	var errs []error
	for i := len(m) - 1; i >= 0; i-- {
		if err := m[i].Release(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func uniqueSorted(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
