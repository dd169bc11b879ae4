package loader

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultGroupLimit bounds how many keyed loaders a Group retains.
const DefaultGroupLimit = 256

// Group keeps one Loader per key so callers asking for different inputs
// never observe each other's data or errors. Idle loaders beyond the limit
// are evicted least recently used first.
type Group[K comparable, I, T any] struct {
	name   string
	fn     Func[I, T]
	logger *slog.Logger
	limit  int
	now    func() time.Time

	mu      sync.Mutex
	entries map[K]*groupEntry[I, T]
	closed  bool
}

type groupEntry[I, T any] struct {
	loader  *Loader[I, T]
	used    time.Time
	pending int
}

// NewGroup builds a keyed loader group. A non-positive limit uses
// DefaultGroupLimit.
func NewGroup[K comparable, I, T any](name string, limit int, fn Func[I, T], logger *slog.Logger) *Group[K, I, T] {
	if limit <= 0 {
		limit = DefaultGroupLimit
	}
	return &Group[K, I, T]{
		name:    name,
		fn:      fn,
		logger:  logger,
		limit:   limit,
		now:     time.Now,
		entries: make(map[K]*groupEntry[I, T]),
	}
}

// Load runs the loader for key with in. A closed group returns an empty state.
func (g *Group[K, I, T]) Load(ctx context.Context, key K, in I) State[T] {
	e := g.acquire(key, true)
	if e == nil {
		return State[T]{}
	}
	defer g.release(e)
	return e.loader.Load(ctx, in)
}

// Refresh re-runs the loader for key with its last input. It reports false
// when key has never been loaded.
func (g *Group[K, I, T]) Refresh(ctx context.Context, key K) (State[T], bool) {
	e := g.acquire(key, false)
	if e == nil {
		return State[T]{}, false
	}
	defer g.release(e)
	return e.loader.Refresh(ctx), true
}

// Snapshot returns the state for key without loading.
func (g *Group[K, I, T]) Snapshot(key K) (State[T], bool) {
	g.mu.Lock()
	e, ok := g.entries[key]
	g.mu.Unlock()
	if !ok {
		return State[T]{}, false
	}
	return e.loader.Snapshot(), true
}

// Len reports how many keys are retained.
func (g *Group[K, I, T]) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

// Close closes every keyed loader. Later Loads return an empty state.
func (g *Group[K, I, T]) Close() {
	g.mu.Lock()
	g.closed = true
	entries := g.entries
	g.entries = make(map[K]*groupEntry[I, T])
	g.mu.Unlock()

	for _, e := range entries {
		e.loader.Close()
	}
}

// acquire returns the entry for key and pins it against eviction until
// release. Missing keys are created only when create is set.
func (g *Group[K, I, T]) acquire(key K, create bool) *groupEntry[I, T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	e, ok := g.entries[key]
	if !ok {
		if !create {
			return nil
		}
		if len(g.entries) >= g.limit {
			g.evictLocked()
		}
		e = &groupEntry[I, T]{loader: New(g.name, g.fn, g.logger)}
		g.entries[key] = e
	}
	e.used = g.now()
	e.pending++
	return e
}

func (g *Group[K, I, T]) release(e *groupEntry[I, T]) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e.pending--
}

// evictLocked drops the least recently used idle loader. Pinned loaders are
// kept, so the group may briefly exceed its limit.
func (g *Group[K, I, T]) evictLocked() {
	var (
		victim K
		oldest *groupEntry[I, T]
	)
	for key, e := range g.entries {
		if e.pending > 0 {
			continue
		}
		if oldest == nil || e.used.Before(oldest.used) {
			victim, oldest = key, e
		}
	}
	if oldest == nil {
		return
	}
	delete(g.entries, victim)
	oldest.loader.Close()
}
