package reactive_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/evdokimovs/mute-unmute-poc/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniversalField(t *testing.T) {
	t.Run("stream and waiter", func(t *testing.T) {
		f := reactive.NewUniversalField(1)
		s := f.Subscribe()
		w := f.WhenEq(4)

		for i := 0; i < 3; i++ {
			f.Update(increment)
		}

		assert.Equal(t, []int{2, 3, 4}, drain(s))
		assert.True(t, w.Resolved())
		assert.Equal(t, 1, f.Subscribers())
	})

	t.Run("no-op mutation", func(t *testing.T) {
		f := reactive.NewUniversalField(false)
		s := f.Subscribe()
		w := f.WhenEq(true)

		f.Set(false)
		assert.Empty(t, drain(s))
		assert.False(t, w.Resolved())

		f.Set(true)
		assert.Equal(t, []bool{true}, drain(s))
		assert.True(t, w.Resolved())
	})

	t.Run("close", func(t *testing.T) {
		f := reactive.NewUniversalField(0)
		s := f.Subscribe()
		w := f.WhenEq(9)

		f.Close()

		assert.ErrorIs(t, w.Err(), reactive.ErrDropped)
		_, err := s.Next(t.Context())
		assert.ErrorIs(t, err, reactive.ErrEnded)
	})

	t.Run("prune detached entries", func(t *testing.T) {
		f := reactive.NewUniversalField(0)
		f.Subscribe().Close()
		f.WhenEq(5).Cancel()
		live := f.Subscribe()
		require.Equal(t, 3, f.Subscribers())

		f.Set(1)
		assert.Equal(t, 1, f.Subscribers())
		assert.Equal(t, []int{1}, drain(live))
	})

	t.Run("panicking predicate keeps unvisited entries", func(t *testing.T) {
		f := reactive.NewUniversalField(0)
		s := f.Subscribe()
		f.When(func(v int) bool {
			if v == 1 {
				panic("boom")
			}
			return false
		})
		w := f.WhenEq(5)
		after := f.Subscribe()
		require.Equal(t, 4, f.Subscribers())

		assert.Panics(t, func() { f.Set(1) })
		assert.Equal(t, 4, f.Subscribers())
		assert.Equal(t, []int{1}, drain(s))
		assert.Empty(t, drain(after))

		f.Close()
		assert.ErrorIs(t, w.Err(), reactive.ErrDropped)
		for _, stream := range []*reactive.Stream[int]{s, after} {
			_, err := stream.Next(t.Context())
			assert.ErrorIs(t, err, reactive.ErrEnded)
		}
	})

	t.Run("register during pass", func(t *testing.T) {
		f := reactive.NewUniversalField(0)
		var late *reactive.Waiter
		f.When(func(v int) bool {
			if v == 1 {
				late = f.WhenEq(2)
			}
			return v == 1
		})

		f.Set(1)
		require.NotNil(t, late)
		assert.False(t, late.Resolved())
		assert.Equal(t, 1, f.Subscribers())

		f.Set(2)
		assert.True(t, late.Resolved())
	})
}

// should broadcast a projection of the stored value
func TestProjectedField(t *testing.T) {
	type peer struct {
		name  string
		muted bool
	}
	f := reactive.NewProjected(peer{name: "alice"}, func(p peer) bool { return p.muted })
	s := f.Subscribe()

	f.Update(func(p *peer) { p.name = "bob" })
	f.Update(func(p *peer) { p.muted = true })

	assert.Equal(t, []bool{false, true}, drain(s))
}

// should accept any storage implementing the streaming capability
func TestCustomField(t *testing.T) {
	subs := reactive.NewProjectedSubscribers(strconv.Itoa)
	f := reactive.NewCustom[int, string](1, subs)
	s := f.Subscribe()

	f.Set(10)
	f.Set(10)

	assert.Equal(t, []string{"10"}, drain(s))
	assert.Equal(t, 1, subs.Len())
}

func TestStream(t *testing.T) {
	t.Run("next blocks until a change", func(t *testing.T) {
		f := reactive.NewField(0)
		s := f.Subscribe()

		got := make(chan int, 1)
		go func() {
			v, err := s.Next(context.Background())
			if err == nil {
				got <- v
			}
		}()

		f.Set(42)
		select {
		case v := <-got:
			assert.Equal(t, 42, v)
		case <-time.After(time.Second):
			t.Fatal("stream not woken")
		}
	})

	t.Run("next honours context", func(t *testing.T) {
		s := reactive.NewField(0).Subscribe()
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		_, err := s.Next(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("all ranges until closed", func(t *testing.T) {
		f := reactive.NewField(0)
		s := f.Subscribe()
		f.Set(1)
		f.Set(2)
		f.Close()

		var got []int
		for v := range s.All(t.Context()) {
			got = append(got, v)
		}
		assert.Equal(t, []int{1, 2}, got)
	})

	t.Run("close discards backlog", func(t *testing.T) {
		f := reactive.NewField(0)
		s := f.Subscribe()
		f.Set(1)
		s.Close()

		assert.Equal(t, 0, s.Len())
		_, err := s.Next(t.Context())
		assert.ErrorIs(t, err, reactive.ErrEnded)
	})
}
