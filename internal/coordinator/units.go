package coordinator

import (
	"context"
	"sync"
)

// unit is the exclusive lock of a single entity.
// Waiters are parked on the channel send and served in arrival order.
type unit struct {
	sem  chan struct{}
	refs int
}

// units hands out one lazily created unit per key and drops it once nobody holds or waits on it.
type units struct {
	mu    sync.Mutex
	byKey map[string]*unit
}

func newUnits() *units {
	return &units{byKey: make(map[string]*unit)}
}

// acquire blocks until the unit for key is held or ctx is done.
// The returned release func must be called exactly once.
func (u *units) acquire(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u.mu.Lock()
	entry, ok := u.byKey[key]
	if !ok {
		entry = &unit{sem: make(chan struct{}, 1)}
		u.byKey[key] = entry
	}
	entry.refs++
	u.mu.Unlock()

	select {
	case entry.sem <- struct{}{}:
		return func() {
			<-entry.sem
			u.unref(key, entry)
		}, nil
	case <-ctx.Done():
		u.unref(key, entry)
		return nil, ctx.Err()
	}
}

func (u *units) unref(key string, entry *unit) {
	u.mu.Lock()
	defer u.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(u.byKey, key)
	}
}

// size returns the number of live units.
func (u *units) size() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.byKey)
}
