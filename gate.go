package backendapi

import (
	"context"
	"sync"
)

// gate suspends calls while a one-time remote configuration load is in
// progress. Waiters are released in FIFO order when the load settles and then
// re-run the full resolve sequence, so they observe the post-load
// configuration.
type gate struct {
	mu      sync.Mutex
	closed  bool
	waiters []chan struct{}
}

func newGate() *gate {
	return &gate{}
}

// wait returns immediately when the gate is open, otherwise it blocks until
// the gate opens or the context is done.
func (g *gate) wait(ctx context.Context) error {
	g.mu.Lock()
	if !g.closed {
		g.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	g.waiters = append(g.waiters, ch)
	g.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close shuts the gate. It reports false when the gate was already closed,
// in which case the caller does not own the gate and must not reopen it.
func (g *gate) close() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return false
	}
	g.closed = true
	return true
}

// open releases all queued waiters in arrival order and lets new calls pass.
func (g *gate) open() {
	g.mu.Lock()
	g.closed = false
	waiters := g.waiters
	g.waiters = nil
	g.mu.Unlock()

	for _, ch := range waiters {
		close(ch)
	}
}

// depth returns the number of calls currently queued on the gate.
func (g *gate) depth() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.waiters)
}
