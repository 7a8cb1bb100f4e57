package reactive

import (
	"context"
	"sync"
)

type waiterState uint8

const (
	waiterPending waiterState = iota
	waiterResolved
	waiterDropped
	waiterCanceled
)

// Waiter is the receiving end of a one-shot subscription. It settles exactly
// once: resolved, dropped with its cell, or canceled by the receiver.
type Waiter struct {
	mu    sync.Mutex
	state waiterState
	done  chan struct{}
}

func newWaiter() *Waiter {
	return &Waiter{done: make(chan struct{})}
}

func settledWaiter(state waiterState) *Waiter {
	w := newWaiter()
	w.settle(state)
	return w
}

// settle moves a pending waiter to state. A canceled waiter silently ignores
// the producer; settling twice from the producer side is a bookkeeping bug.
func (w *Waiter) settle(state waiterState) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state {
	case waiterPending:
		w.state = state
		close(w.done)
	case waiterCanceled:
	default:
		panic("reactive: one-shot subscriber settled twice")
	}
}

func (w *Waiter) resolve() { w.settle(waiterResolved) }
func (w *Waiter) drop()    { w.settle(waiterDropped) }

func (w *Waiter) pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state == waiterPending
}

// Done is closed once the waiter settles.
func (w *Waiter) Done() <-chan struct{} {
	return w.done
}

// Resolved reports whether the predicate was satisfied.
func (w *Waiter) Resolved() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state == waiterResolved
}

// Err returns ErrDropped or ErrCanceled for a waiter that settled without
// resolving, and nil otherwise.
func (w *Waiter) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state {
	case waiterDropped:
		return ErrDropped
	case waiterCanceled:
		return ErrCanceled
	default:
		return nil
	}
}

// Wait blocks until the waiter settles or ctx is done.
func (w *Waiter) Wait(ctx context.Context) error {
	select {
	case <-w.done:
		return w.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel gives up on the subscription. It is a no-op on a settled waiter.
// The cell notices lazily and prunes the entry on its next notification pass.
func (w *Waiter) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == waiterPending {
		w.state = waiterCanceled
		close(w.done)
	}
}
