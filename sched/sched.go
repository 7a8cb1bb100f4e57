// Package sched runs tasks one at a time on a single goroutine so that state
// which is not safe for concurrent use, such as reactive cells, can be driven
// from many goroutines.
package sched

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrStopped = errors.New("sched: loop stopped")
	ErrRunning = errors.New("sched: loop already running")
)

// Queue batches tasks for explicit flushing.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Post enqueues fn for the next Flush.
func (q *Queue) Post(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Flush runs queued tasks in order and returns how many ran. Tasks posted
// while flushing run in the same call.
func (q *Queue) Flush() int {
	n := 0
	for {
		q.mu.Lock()
		pending := q.pending
		q.pending = nil
		q.mu.Unlock()
		if len(pending) == 0 {
			return n
		}
		for _, fn := range pending {
			fn()
		}
		n += len(pending)
	}
}

// Len reports queued tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Loop is a cooperative single-goroutine executor. Post never blocks; there
// is no back-pressure.
type Loop struct {
	queue   Queue
	wake    chan struct{}
	stopped chan struct{}
	mu      sync.Mutex
	done    bool
	running atomic.Bool
	log     *slog.Logger
}

// NewLoop creates a loop. It executes nothing until Run is called.
func NewLoop(log *slog.Logger) *Loop {
	if log == nil {
		log = slog.Default()
	}
	return &Loop{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
		log:     log,
	}
}

// Post schedules fn. It reports false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.done {
		l.mu.Unlock()
		return false
	}
	l.queue.Post(fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Do runs fn on the loop and waits for it to return. Either fn never runs and
// Do returns ctx.Err() or ErrStopped, or Do returns nil after fn has finished:
// a caller that gave up never races a late fn.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var claimed atomic.Bool
	finished := make(chan struct{})
	if !l.Post(func() {
		if !claimed.CompareAndSwap(false, true) {
			return
		}
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}

	var err error
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		err = ctx.Err()
	case <-l.stopped:
		err = ErrStopped
	}
	if claimed.CompareAndSwap(false, true) {
		return err
	}
	<-finished
	return nil
}

// Run executes tasks until ctx is done. A loop runs once; tasks still queued
// when it stops are discarded.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer l.stop()

	for {
		l.queue.Flush()
		select {
		case <-l.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stopped is closed once Run has returned.
func (l *Loop) Stopped() <-chan struct{} {
	return l.stopped
}

func (l *Loop) stop() {
	l.mu.Lock()
	l.done = true
	l.mu.Unlock()
	if n := l.queue.Len(); n > 0 {
		l.log.Debug("loop stopped with pending tasks", slog.Int("discarded", n))
	}
	close(l.stopped)
}

// After blocks for d. It returns ctx.Err() if ctx ends first.
func After(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
