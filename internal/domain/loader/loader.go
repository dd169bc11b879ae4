// Package loader tracks the lifecycle of a screen's data: the last good
// payload, whether a load is in flight, and the last error.
package loader

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yanqian/aqi-insight/pkg/metrics"
)

// State is the observable snapshot of a loader.
type State[T any] struct {
	Data      *T        `json:"data"`
	Loading   bool      `json:"loading"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Func produces a screen payload for an input.
type Func[I, T any] func(ctx context.Context, in I) (T, error)

// Loader runs a Func and keeps its State. Failed runs keep the previous
// data. Runs older than the last committed one, and runs that finish after
// Close, are discarded.
type Loader[I, T any] struct {
	name   string
	fn     Func[I, T]
	logger *slog.Logger
	now    func() time.Time

	lifetime context.Context
	dispose  context.CancelFunc

	mu        sync.Mutex
	state     State[T]
	input     I
	inflight  int
	started   uint64
	committed uint64
	closed    bool
}

// New builds a loader named after the screen it serves.
func New[I, T any](name string, fn Func[I, T], logger *slog.Logger) *Loader[I, T] {
	lifetime, dispose := context.WithCancel(context.Background())
	return &Loader[I, T]{
		name:     name,
		fn:       fn,
		logger:   logger.With("component", "loader", "screen", name),
		now:      time.Now,
		lifetime: lifetime,
		dispose:  dispose,
	}
}

// Name returns the screen name.
func (l *Loader[I, T]) Name() string {
	return l.name
}

// Load runs the loader for in and returns the resulting state.
func (l *Loader[I, T]) Load(ctx context.Context, in I) State[T] {
	l.mu.Lock()
	if l.closed {
		defer l.mu.Unlock()
		return l.state
	}
	l.started++
	seq := l.started
	l.input = in
	l.inflight++
	l.state.Loading = true
	l.state.Error = ""
	l.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.lifetime, cancel)
	defer func() {
		stop()
		cancel()
	}()

	data, err := l.fn(runCtx, in)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inflight--
	l.state.Loading = l.inflight > 0

	switch {
	case l.closed || seq < l.committed:
		metrics.RecordLoaderRun(l.name, "discarded")
		l.logger.Debug("loader result discarded", "run", seq, "committed", l.committed)
	case err != nil:
		l.committed = seq
		l.state.Error = errorMessage(l.name, err)
		metrics.RecordLoaderRun(l.name, "error")
		l.logger.Warn("loader failed", "run", seq, "error", err)
	default:
		l.committed = seq
		l.state.Data = &data
		l.state.UpdatedAt = l.now()
		metrics.RecordLoaderRun(l.name, "success")
	}
	return l.state
}

// Refresh re-runs the loader with its last input.
func (l *Loader[I, T]) Refresh(ctx context.Context) State[T] {
	l.mu.Lock()
	in := l.input
	l.mu.Unlock()
	return l.Load(ctx, in)
}

// Snapshot returns the current state without loading.
func (l *Loader[I, T]) Snapshot() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Close cancels in-flight runs. Later Loads return the last state untouched.
func (l *Loader[I, T]) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.dispose()
}

func errorMessage(name string, err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "failed to load " + name + " data"
}
