package reactive

import (
	"context"
	"iter"
	"sync"
)

// Stream is the receiving end of a streaming subscription.
//
// Values are buffered without bound in emission order; the producing cell
// never blocks on a slow consumer. A Stream has a single consumer.
type Stream[T any] struct {
	mu       sync.Mutex
	queue    []T
	wake     chan struct{}
	detached bool
	ended    bool
}

func newStream[T any]() *Stream[T] {
	return &Stream[T]{wake: make(chan struct{}, 1)}
}

func endedStream[T any]() *Stream[T] {
	s := newStream[T]()
	s.end()
	return s
}

// push appends v to the backlog. It reports false when the receiver has
// detached, which is how storage learns to prune the entry.
func (s *Stream[T]) push(v T) bool {
	s.mu.Lock()
	if s.detached {
		s.mu.Unlock()
		return false
	}
	if s.ended {
		s.mu.Unlock()
		panic("reactive: delivery to an ended stream")
	}
	s.queue = append(s.queue, v)
	s.mu.Unlock()
	s.notify()
	return true
}

func (s *Stream[T]) end() {
	s.mu.Lock()
	s.ended = true
	s.mu.Unlock()
	s.notify()
}

func (s *Stream[T]) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Stream[T]) pop() (v T, ok, done bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return v, false, true
	}
	if len(s.queue) > 0 {
		v = s.queue[0]
		var zero T
		s.queue[0] = zero
		s.queue = s.queue[1:]
		return v, true, false
	}
	return v, false, s.ended
}

// TryNext returns the oldest buffered value without blocking.
func (s *Stream[T]) TryNext() (T, bool) {
	v, ok, _ := s.pop()
	return v, ok
}

// Next blocks until a value is available. It returns ErrEnded when the cell
// was closed and every buffered value has been consumed, or ctx.Err().
func (s *Stream[T]) Next(ctx context.Context) (T, error) {
	for {
		v, ok, done := s.pop()
		if ok {
			return v, nil
		}
		if done {
			return v, ErrEnded
		}
		select {
		case <-s.wake:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// All yields values until the stream ends or ctx is done.
func (s *Stream[T]) All(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, err := s.Next(ctx)
			if err != nil {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Len reports how many values are buffered.
func (s *Stream[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Close detaches the receiver. The backlog is discarded and the owning
// storage drops the subscription on its next notification pass.
func (s *Stream[T]) Close() {
	s.mu.Lock()
	s.detached = true
	s.queue = nil
	s.mu.Unlock()
	s.notify()
}
