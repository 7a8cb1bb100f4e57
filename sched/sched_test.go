package sched_test

import (
	"context"
	"testing"
	"time"

	"github.com/evdokimovs/mute-unmute-poc/sched"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFlush(t *testing.T) {
	q := sched.NewQueue()
	var order []int
	q.Post(func() { order = append(order, 1) })
	q.Post(func() {
		order = append(order, 2)
		q.Post(func() { order = append(order, 3) })
	})
	q.Post(nil)

	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 0, len(order))
	assert.Equal(t, 3, q.Flush())
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 0, q.Flush())
}

func startLoop(t *testing.T) (*sched.Loop, context.CancelFunc) {
	t.Helper()
	l := sched.NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(cancel)
	return l, cancel
}

func TestLoopRunsTasksInOrder(t *testing.T) {
	l, _ := startLoop(t)

	var got []int
	for i := 0; i < 100; i++ {
		require.True(t, l.Post(func() { got = append(got, i) }))
	}
	require.NoError(t, l.Do(t.Context(), func() {}))

	want := make([]int, 100)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, got)
}

func TestLoopDoFromManyGoroutines(t *testing.T) {
	l, _ := startLoop(t)

	counter := 0
	errc := make(chan error, 50)
	for i := 0; i < 50; i++ {
		go func() {
			errc <- l.Do(context.Background(), func() { counter++ })
		}()
	}
	for i := 0; i < 50; i++ {
		require.NoError(t, <-errc)
	}
	require.NoError(t, l.Do(t.Context(), func() {
		assert.Equal(t, 50, counter)
	}))
}

func TestLoopStop(t *testing.T) {
	l, cancel := startLoop(t)
	require.NoError(t, l.Do(t.Context(), func() {}))

	cancel()
	select {
	case <-l.Stopped():
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}

	assert.False(t, l.Post(func() {}))
	assert.ErrorIs(t, l.Do(t.Context(), func() {}), sched.ErrStopped)
	assert.ErrorIs(t, l.Run(t.Context()), sched.ErrRunning)
}

// should skip a task whose caller gave up while it was queued
func TestLoopDoAbandoned(t *testing.T) {
	l, _ := startLoop(t)

	release := make(chan struct{})
	l.Post(func() { <-release })

	ran := false
	ctx, cancel := context.WithCancel(t.Context())
	errs := make(chan error, 1)
	go func() { errs <- l.Do(ctx, func() { ran = true }) }()

	cancel()
	assert.ErrorIs(t, <-errs, context.Canceled)
	close(release)

	require.NoError(t, l.Do(t.Context(), func() {
		assert.False(t, ran)
	}))
}

func TestLoopDoCanceledContext(t *testing.T) {
	l, _ := startLoop(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	ran := false
	assert.ErrorIs(t, l.Do(ctx, func() { ran = true }), context.Canceled)
	require.NoError(t, l.Do(t.Context(), func() {}))
	assert.False(t, ran)
}

func TestAfter(t *testing.T) {
	start := time.Now()
	require.NoError(t, sched.After(t.Context(), 10*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	assert.ErrorIs(t, sched.After(ctx, time.Hour), context.Canceled)
}
