package reactive_test

import (
	"testing"

	"github.com/evdokimovs/mute-unmute-poc/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain[T any](s *reactive.Stream[T]) []T {
	var out []T
	for {
		v, ok := s.TryNext()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func increment(v *int) { *v++ }

// should stream every committed change in order
func TestFieldStreamsIncrements(t *testing.T) {
	f := reactive.NewField(1)
	s := f.Subscribe()

	for i := 0; i < 3; i++ {
		g := f.Mutate()
		*g.Ptr() += 1
		g.Release()
	}

	assert.Equal(t, []int{2, 3, 4}, drain(s))
	assert.Equal(t, 4, f.Read())
}

// should not notify when the value is written back unchanged
func TestFieldNoopMutation(t *testing.T) {
	f := reactive.NewField("same")
	s := f.Subscribe()

	g := f.Mutate()
	g.Set("other")
	g.Set("same")
	g.Release()

	f.Set("same")
	f.Update(func(v *string) {})

	assert.Empty(t, drain(s))
}

// should batch writes until the guard is released
func TestGuardBatchesNotification(t *testing.T) {
	f := reactive.NewField(0)
	s := f.Subscribe()

	g := f.Mutate()
	for i := 0; i < 5; i++ {
		increment(g.Ptr())
		assert.Equal(t, 0, s.Len())
	}
	assert.Equal(t, 5, g.Get())
	g.Release()
	g.Release()

	assert.Equal(t, []int{5}, drain(s))
}

// should deliver the same change to every live subscriber
func TestFieldFanOut(t *testing.T) {
	f := reactive.NewField(0)
	a, b := f.Subscribe(), f.Subscribe()

	f.Set(1)
	f.Set(2)

	assert.Equal(t, []int{1, 2}, drain(a))
	assert.Equal(t, []int{1, 2}, drain(b))
}

// should not replay past values to a new subscriber
func TestFieldSubscribeNoReplay(t *testing.T) {
	f := reactive.NewField(0)
	f.Set(1)
	s := f.Subscribe()
	f.Set(2)

	assert.Equal(t, []int{2}, drain(s))
}

// should silently prune a closed stream on the next pass
func TestFieldCanceledStreamPruned(t *testing.T) {
	f := reactive.NewField(0)
	gone := f.Subscribe()
	kept := f.Subscribe()
	require.Equal(t, 2, f.Subscribers())

	gone.Close()
	assert.Equal(t, 2, f.Subscribers(), "detection is lazy")

	assert.NotPanics(t, func() { f.Set(1) })
	assert.Equal(t, 1, f.Subscribers())
	assert.Equal(t, []int{1}, drain(kept))
	assert.Empty(t, drain(gone))
}

// should panic on a second live guard
func TestFieldSecondGuardPanics(t *testing.T) {
	f := reactive.NewField(0)
	g := f.Mutate()
	assert.Panics(t, func() { f.Mutate() })
	assert.Panics(t, func() { f.MutateUnchecked() })
	g.Release()
	assert.NotPanics(t, func() { f.Mutate().Release() })
}

// should panic when a released guard is used
func TestGuardUseAfterRelease(t *testing.T) {
	f := reactive.NewField(0)
	g := f.Mutate()
	g.Release()
	assert.Panics(t, func() { g.Get() })
	assert.Panics(t, func() { g.Set(1) })
}

// should release the guard when the update panics
func TestFieldUpdateReleasesOnPanic(t *testing.T) {
	f := reactive.NewField(0)
	s := f.Subscribe()

	assert.Panics(t, func() {
		f.Update(func(v *int) {
			*v = 7
			panic("boom")
		})
	})

	assert.Equal(t, []int{7}, drain(s))
	assert.NotPanics(t, func() { f.Set(8) })
	assert.Equal(t, []int{8}, drain(s))
}

// should notify on any write access when unchecked
func TestFieldMutateUnchecked(t *testing.T) {
	f := reactive.NewField(3)
	s := f.Subscribe()

	g := f.MutateUnchecked()
	_ = g.Get()
	g.Release()
	assert.Empty(t, drain(s), "read-only access is not a write")

	g = f.MutateUnchecked()
	g.Set(3)
	g.Release()
	assert.Equal(t, []int{3}, drain(s), "a write is assumed to change the value")
}

// should fall back to unchecked mutation without an equality
func TestFieldFuncWithoutEquality(t *testing.T) {
	f := reactive.NewFieldFunc([]int{1}, nil)
	s := f.Subscribe()

	f.Update(func(v *[]int) { *v = append(*v, 2) })
	g := f.Mutate()
	g.Release()

	assert.Equal(t, [][]int{{1, 2}}, drain(s))
}

// should compare with a custom equality
func TestFieldFuncCustomEquality(t *testing.T) {
	type point struct{ x, y int }
	sameX := func(a, b point) bool { return a.x == b.x }
	f := reactive.NewFieldFunc(point{1, 1}, sameX)
	s := f.Subscribe()

	f.Set(point{1, 9})
	f.Set(point{2, 9})

	assert.Equal(t, []point{{2, 9}}, drain(s))
}

// should end streams after their backlog when the cell closes
func TestFieldCloseEndsStreams(t *testing.T) {
	f := reactive.NewField(0)
	s := f.Subscribe()
	f.Set(1)

	f.Close()
	f.Close()

	assert.True(t, f.Closed())
	assert.Equal(t, 1, f.Read())
	v, err := s.Next(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	_, err = s.Next(t.Context())
	assert.ErrorIs(t, err, reactive.ErrEnded)

	assert.Panics(t, func() { f.Set(2) })
	_, err = f.Subscribe().Next(t.Context())
	assert.ErrorIs(t, err, reactive.ErrEnded)
}

// should refuse to close under a live guard
func TestFieldCloseWithLiveGuard(t *testing.T) {
	f := reactive.NewField(0)
	g := f.Mutate()
	assert.Panics(t, func() { f.Close() })
	g.Release()
}
