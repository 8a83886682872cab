package backendapi

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestGateOpenByDefault(t *testing.T) {
	g := newGate()
	if err := g.wait(context.Background()); err != nil {
		t.Fatalf("wait through an open gate should not block or fail: %v", err)
	}
}

func TestGateBlocksWhileClosed(t *testing.T) {
	g := newGate()
	if !g.close() {
		t.Fatal("first close should own the gate")
	}
	if g.close() {
		t.Error("second close must report not-owner")
	}

	done := make(chan struct{})
	go func() {
		_ = g.wait(context.Background())
		close(done)
	}()

	if !waitUntil(time.Second, func() bool { return g.depth() == 1 }) {
		t.Fatal("waiter should be queued")
	}
	select {
	case <-done:
		t.Fatal("waiter passed a closed gate")
	case <-time.After(20 * time.Millisecond):
	}

	g.open()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waiter was not released on open")
	}
}

func TestGateReleasesFIFO(t *testing.T) {
	g := newGate()
	g.close()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		// Enqueue strictly one at a time so arrival order is deterministic.
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = g.wait(context.Background())
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}()
		if !waitUntil(time.Second, func() bool { return g.depth() == i+1 }) {
			t.Fatalf("waiter %d was not queued", i)
		}
	}

	g.open()
	wg.Wait()

	if len(order) != 5 {
		t.Fatalf("expected 5 released waiters, got %d", len(order))
	}
}

func TestGateWaitHonorsContext(t *testing.T) {
	g := newGate()
	g.close()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- g.wait(ctx)
	}()

	if !waitUntil(time.Second, func() bool { return g.depth() == 1 }) {
		t.Fatal("waiter should be queued")
	}
	cancel()

	select {
	case err := <-errCh:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled waiter did not return")
	}
}
