// Package panel holds the dashboard's presentational state: a data loader
// bound to the panel's lifetime, the entity and heatmap panels built on it,
// and the page shell that arranges them.
package panel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jengzang/sentiment-dashboard/internal/models"
)

// Status of a Loader
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	case StatusClosed:
		return "closed"
	}
	return "idle"
}

// FetchFunc retrieves a panel's records
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// State is a point-in-time copy of a Loader
type State[T any] struct {
	Status Status
	Items  []T
	Err    error
}

// Loader runs a panel's fetch in the background. A newer Load supersedes an
// older one, and nothing is written to the loader after Close.
type Loader[T any] struct {
	name    string
	fetch   FetchFunc[T]
	notices *Notices

	mu     sync.Mutex
	state  State[T]
	gen    uint64
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup
}

// NewLoader creates a loader. Failures are reported to notices when non-nil.
func NewLoader[T any](name string, fetch FetchFunc[T], notices *Notices) *Loader[T] {
	return &Loader[T]{name: name, fetch: fetch, notices: notices}
}

// Load starts a fetch under a child of ctx and returns immediately.
// It is a no-op after Close.
func (l *Loader[T]) Load(ctx context.Context) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	if l.cancel != nil {
		l.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.gen++
	gen := l.gen
	l.state.Status = StatusLoading
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		defer cancel()

		items, err := l.fetch(fetchCtx)
		l.finish(fetchCtx, gen, items, err)
	}()
}

func (l *Loader[T]) finish(ctx context.Context, gen uint64, items []T, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Superseded or disposed: drop the result silently
	if l.closed || gen != l.gen {
		return
	}
	l.cancel = nil

	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			l.state = State[T]{Status: StatusIdle}
			return
		}
		l.state = State[T]{Status: StatusFailed, Err: err}
		if l.notices != nil {
			l.notices.Push(models.NoticeError, fmt.Sprintf("Failed to load %s: %v", l.name, err))
		}
		return
	}
	l.state = State[T]{Status: StatusReady, Items: items}
}

// Wait blocks until every started fetch has returned
func (l *Loader[T]) Wait() {
	l.wg.Wait()
}

// Snapshot returns the current state. Items is empty unless Status is ready.
func (l *Loader[T]) Snapshot() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.state
	s.Items = append([]T(nil), l.state.Items...)
	return s
}

// Close cancels any in-flight fetch and freezes the loader
func (l *Loader[T]) Close() {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.closed = true
	l.state = State[T]{Status: StatusClosed}
	l.mu.Unlock()
}

// LoadSync runs a single fetch and waits for it
func (l *Loader[T]) LoadSync(ctx context.Context) State[T] {
	l.Load(ctx)
	l.Wait()
	return l.Snapshot()
}
