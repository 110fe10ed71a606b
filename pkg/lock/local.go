package lock

import (
	"context"
	"sync"
	"time"
)

// LocalLocker is an in-process Locker. It serialises goroutines of a single
// instance only.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*localSlot
}

type localSlot struct {
	ch   chan struct{}
	refs int
}

// NewLocalLocker constructs an empty LocalLocker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]*localSlot)}
}

// Acquire implements Locker.
func (l *LocalLocker) Acquire(ctx context.Context, key string, wait time.Duration) (Handle, error) {
	slot := l.ref(key)

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case slot.ch <- struct{}{}:
		return &localHandle{locker: l, key: key, slot: slot}, nil
	default:
	}

	select {
	case slot.ch <- struct{}{}:
		return &localHandle{locker: l, key: key, slot: slot}, nil
	case <-timer.C:
		l.unref(key, slot)
		return nil, ErrNotAcquired
	case <-ctx.Done():
		l.unref(key, slot)
		return nil, ctx.Err()
	}
}

func (l *LocalLocker) ref(key string) *localSlot {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.slots[key]
	if !ok {
		slot = &localSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.refs++
	return slot
}

func (l *LocalLocker) unref(key string, slot *localSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, key)
	}
}

type localHandle struct {
	once   sync.Once
	locker *LocalLocker
	key    string
	slot   *localSlot
}

func (h *localHandle) Release(context.Context) error {
	h.once.Do(func() {
		<-h.slot.ch
		h.locker.unref(h.key, h.slot)
	})
	return nil
}
