// Package fetchgroup implements the single-flight fetch coordinator.
package fetchgroup

import (
	"sync"
	"time"

	"go.trai.ch/hexfetch/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// ErrNotScheduled is returned by Await when no work was ever scheduled for
// the key.
var ErrNotScheduled = zerr.New("no fetch scheduled for key")

type call[V any] struct {
	done chan struct{}
	val  V
	err  error
}

// Group executes keyed work at most once, no matter how many concurrent
// callers schedule it, and memoizes the outcome for later waiters. Results
// are never evicted: a Group lives for one checkout run.
type Group[V any] struct {
	mu    sync.Mutex
	calls map[string]*call[V]
	eg    errgroup.Group
}

// New creates an empty Group.
func New[V any]() *Group[V] {
	return &Group[V]{calls: make(map[string]*call[V])}
}

// Run schedules fn for key and returns immediately. If work for key is
// already pending or completed, the call is a no-op: fn executes at most
// once per key and every waiter observes the identical result. Failures
// from fn are memoized verbatim; there is no retry.
func (g *Group[V]) Run(key string, fn func() (V, error)) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.calls[key]; ok {
		return
	}

	c := &call[V]{done: make(chan struct{})}
	g.calls[key] = c

	g.eg.Go(func() error {
		defer close(c.done)
		c.val, c.err = fn()
		return nil
	})
}

// Await blocks until the result for key is available or timeout elapses.
// Timing out never cancels the in-flight work; it keeps running so the
// result is available to other and future waiters.
func (g *Group[V]) Await(key string, timeout time.Duration) (V, error) {
	g.mu.Lock()
	c, ok := g.calls[key]
	g.mu.Unlock()

	var zero V
	if !ok {
		return zero, zerr.With(ErrNotScheduled, "key", key)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-c.done:
		return c.val, c.err
	case <-timer.C:
		return zero, zerr.With(domain.ErrFetchTimeout, "key", key)
	}
}

// Wait blocks until all scheduled work has completed. Used to drain the
// group before the process exits.
func (g *Group[V]) Wait() {
	_ = g.eg.Wait()
}
