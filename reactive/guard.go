package reactive

type releaser[V any] interface {
	release(g *Guard[V])
}

// Guard grants exclusive access to a cell's value. Notification is deferred
// until Release, which makes exactly one notify decision:
//
//   - a checked guard (Mutate) compares the value with its snapshot;
//   - an unchecked guard (MutateUnchecked) notifies if Ptr or Set was used.
//
// Always pair a guard with a deferred Release.
type Guard[V any] struct {
	value    *V
	snapshot V
	owner    releaser[V]
	checked  bool
	written  bool
	released bool
}

// Get returns the current value.
func (g *Guard[V]) Get() V {
	g.live()
	return *g.value
}

// Ptr returns a pointer to the cell's value, valid until Release.
func (g *Guard[V]) Ptr() *V {
	g.live()
	g.written = true
	return g.value
}

// Set replaces the value.
func (g *Guard[V]) Set(v V) {
	*g.Ptr() = v
}

// Release ends the mutation scope and notifies subscribers if the value
// changed. Calling Release more than once is a no-op.
func (g *Guard[V]) Release() {
	if g.released {
		return
	}
	g.released = true
	g.owner.release(g)
}

func (g *Guard[V]) changed(equal EqualFunc[V]) bool {
	if g.checked {
		return !equal(g.snapshot, *g.value)
	}
	return g.written
}

func (g *Guard[V]) live() {
	if g.released {
		panic("reactive: use of a released guard")
	}
}
