package reactive

// EqualFunc compares two values for equality.
type EqualFunc[V any] func(a, b V) bool

// EqualComparable compares comparable values with ==.
func EqualComparable[V comparable](a, b V) bool {
	return a == b
}

// cell is the state shared by every field type: the value, its subscriber
// storage and the guard bookkeeping.
type cell[V any, S Notifier[V]] struct {
	value     V
	subs      S
	equal     EqualFunc[V]
	guarded   bool
	notifying bool
	closed    bool
}

func newCell[V any, S Notifier[V]](initial V, subs S, equal EqualFunc[V]) cell[V, S] {
	return cell[V, S]{value: initial, subs: subs, equal: equal}
}

// Read returns the current value. It never notifies.
func (c *cell[V, S]) Read() V {
	return c.value
}

// Mutate returns a guard over the value. Subscribers are notified when the
// guard is released, and only if the value is no longer equal to what it was
// when Mutate was called. Cells without an EqualFunc fall back to
// MutateUnchecked.
//
// Mutate panics if a guard is already live, if called from inside the cell's
// own notification pass, or if the cell is closed.
func (c *cell[V, S]) Mutate() *Guard[V] {
	return c.guard(c.equal != nil)
}

// MutateUnchecked returns a guard that skips the snapshot and notifies on
// release whenever write access (Ptr or Set) was taken, even if the value
// ends up unchanged.
func (c *cell[V, S]) MutateUnchecked() *Guard[V] {
	return c.guard(false)
}

func (c *cell[V, S]) guard(checked bool) *Guard[V] {
	switch {
	case c.closed:
		panic("reactive: mutation of a closed cell")
	case c.guarded:
		panic("reactive: cell already has a live guard")
	case c.notifying:
		panic("reactive: mutation during notification pass")
	}
	c.guarded = true
	g := &Guard[V]{value: &c.value, owner: c, checked: checked}
	if checked {
		g.snapshot = c.value
	}
	return g
}

func (c *cell[V, S]) release(g *Guard[V]) {
	c.guarded = false
	if !g.changed(c.equal) {
		return
	}
	c.notifying = true
	defer func() { c.notifying = false }()
	c.subs.OnModify(c.value)
}

// Update runs fn with write access under a checked guard. The guard is
// released even if fn panics.
func (c *cell[V, S]) Update(fn func(v *V)) {
	g := c.Mutate()
	defer g.Release()
	fn(g.Ptr())
}

// Set stores v, notifying subscribers if it differs from the current value.
func (c *cell[V, S]) Set(v V) {
	c.Update(func(p *V) { *p = v })
}

// Subscribers reports how many subscriptions are stored.
func (c *cell[V, S]) Subscribers() int {
	return c.subs.Len()
}

// Closed reports whether Close was called.
func (c *cell[V, S]) Closed() bool {
	return c.closed
}

// Close tears the cell down: streams end after their backlog and pending
// one-shot subscribers fail with ErrDropped. Read keeps working; further
// mutation panics. Close is idempotent.
func (c *cell[V, S]) Close() {
	if c.closed {
		return
	}
	switch {
	case c.guarded:
		panic("reactive: close with a live guard")
	case c.notifying:
		panic("reactive: close during notification pass")
	}
	c.closed = true
	c.subs.Drop()
}

func subscribe[V, O any, S StreamStorage[V, O]](c *cell[V, S]) *Stream[O] {
	if c.closed {
		return endedStream[O]()
	}
	return c.subs.Subscribe()
}

func when[V any, S interface {
	Notifier[V]
	OnceSubscribable[V]
}](c *cell[V, S], pred func(V) bool) *Waiter {
	switch {
	case pred == nil:
		panic("reactive: nil predicate")
	case c.closed:
		return settledWaiter(waiterDropped)
	case pred(c.value):
		return settledWaiter(waiterResolved)
	}
	return c.subs.SubscribeOnce(pred)
}

func whenEq[V any, S interface {
	Notifier[V]
	OnceSubscribable[V]
}](c *cell[V, S], target V) *Waiter {
	if c.equal == nil {
		panic("reactive: WhenEq on a cell without an EqualFunc")
	}
	equal := c.equal
	return when(c, func(v V) bool { return equal(v, target) })
}
