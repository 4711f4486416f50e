package memstore

import (
	"context"
	"sync"
	"time"
)

// lockTable hands out one exclusive lock per key. Waiters give up when the
// timeout elapses or ctx is done. An entry lives only while someone holds or
// waits for it.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	ch   chan struct{}
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{locks: map[string]*lockEntry{}}
}

func (t *lockTable) ref(key string) *lockEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.locks[key]
	if !ok {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		t.locks[key] = e
	}
	e.refs++
	return e
}

func (t *lockTable) unref(key string, e *lockEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(t.locks, key)
	}
}

func (t *lockTable) acquire(ctx context.Context, key string, timeout time.Duration) error {
	e := t.ref(key)

	select {
	case e.ch <- struct{}{}:
		return nil
	default:
	}

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case e.ch <- struct{}{}:
		return nil
	case <-expired:
		t.unref(key, e)
		return errLockTimeout
	case <-ctx.Done():
		t.unref(key, e)
		return ctx.Err()
	}
}

func (t *lockTable) release(key string) {
	t.mu.Lock()
	e, ok := t.locks[key]
	t.mu.Unlock()
	if !ok {
		return
	}
	select {
	case <-e.ch:
	default:
	}
	t.unref(key, e)
}

func (t *lockTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.locks)
}
