package reactive

// Notifier is the modification side of a subscriber storage strategy.
type Notifier[V any] interface {
	// OnModify is called once for every committed change with the new value.
	// It resolves or forwards to subscribers and prunes dead entries.
	OnModify(v V)
	// Drop tears the storage down when its cell is closed: streams end and
	// pending one-shot subscribers fail with ErrDropped.
	Drop()
	// Len reports stored entries, including ones whose receiver detached
	// since the last pass.
	Len() int
}

// Streamable storage can register streaming subscribers.
type Streamable[O any] interface {
	Subscribe() *Stream[O]
}

// OnceSubscribable storage can register one-shot subscribers.
type OnceSubscribable[V any] interface {
	SubscribeOnce(pred func(V) bool) *Waiter
}

// StreamStorage is the constraint for storage injected into a CustomField.
type StreamStorage[V, O any] interface {
	Notifier[V]
	Streamable[O]
}

// retain filters subs in place, preserving the order of kept entries. Entries
// appended while the pass runs are kept untouched after the survivors. If keep
// panics, the entry it panicked on and every entry not yet visited stay
// registered.
func retain[T any](subs *[]T, keep func(T) bool) {
	pass := *subs
	*subs = nil
	n, i := 0, 0
	defer func() {
		kept := append(pass[:n], pass[i:]...)
		clear(pass[len(kept):])
		*subs = append(kept, *subs...)
	}()
	for ; i < len(pass); i++ {
		if keep(pass[i]) {
			pass[n] = pass[i]
			n++
		}
	}
}

// StreamSubscribers stores streaming subscribers only.
type StreamSubscribers[V any] struct {
	subs []*Stream[V]
}

func (s *StreamSubscribers[V]) Subscribe() *Stream[V] {
	sub := newStream[V]()
	s.subs = append(s.subs, sub)
	return sub
}

func (s *StreamSubscribers[V]) OnModify(v V) {
	retain(&s.subs, func(sub *Stream[V]) bool {
		return sub.push(v)
	})
}

func (s *StreamSubscribers[V]) Drop() {
	for _, sub := range s.subs {
		sub.end()
	}
	s.subs = nil
}

func (s *StreamSubscribers[V]) Len() int { return len(s.subs) }

type onceSubscriber[V any] struct {
	pred   func(V) bool
	waiter *Waiter
}

// OnceSubscribers stores one-shot subscribers only.
type OnceSubscribers[V any] struct {
	subs []onceSubscriber[V]
}

func (s *OnceSubscribers[V]) SubscribeOnce(pred func(V) bool) *Waiter {
	w := newWaiter()
	s.subs = append(s.subs, onceSubscriber[V]{pred: pred, waiter: w})
	return w
}

func (s *OnceSubscribers[V]) OnModify(v V) {
	retain(&s.subs, func(sub onceSubscriber[V]) bool {
		return !resolveIf(sub.pred, sub.waiter, v)
	})
}

func (s *OnceSubscribers[V]) Drop() {
	for _, sub := range s.subs {
		sub.waiter.drop()
	}
	s.subs = nil
}

func (s *OnceSubscribers[V]) Len() int { return len(s.subs) }

// resolveIf reports whether the entry is finished: canceled by its receiver,
// or resolved now because pred holds for v.
func resolveIf[V any](pred func(V) bool, w *Waiter, v V) bool {
	if !w.pending() {
		return true
	}
	if !pred(v) {
		return false
	}
	w.resolve()
	return true
}

type subscriberKind uint8

const (
	streamSubscriber subscriberKind = iota
	predicateSubscriber
)

type universalSubscriber[V any] struct {
	kind   subscriberKind
	stream *Stream[V]
	pred   func(V) bool
	waiter *Waiter
}

// UniversalSubscribers stores streaming and one-shot subscribers together,
// in registration order.
type UniversalSubscribers[V any] struct {
	subs []universalSubscriber[V]
}

func (s *UniversalSubscribers[V]) Subscribe() *Stream[V] {
	sub := newStream[V]()
	s.subs = append(s.subs, universalSubscriber[V]{kind: streamSubscriber, stream: sub})
	return sub
}

func (s *UniversalSubscribers[V]) SubscribeOnce(pred func(V) bool) *Waiter {
	w := newWaiter()
	s.subs = append(s.subs, universalSubscriber[V]{kind: predicateSubscriber, pred: pred, waiter: w})
	return w
}

func (s *UniversalSubscribers[V]) OnModify(v V) {
	retain(&s.subs, func(sub universalSubscriber[V]) bool {
		switch sub.kind {
		case streamSubscriber:
			return sub.stream.push(v)
		case predicateSubscriber:
			return !resolveIf(sub.pred, sub.waiter, v)
		default:
			panic("reactive: unknown subscriber kind")
		}
	})
}

func (s *UniversalSubscribers[V]) Drop() {
	for _, sub := range s.subs {
		switch sub.kind {
		case streamSubscriber:
			sub.stream.end()
		case predicateSubscriber:
			sub.waiter.drop()
		default:
			panic("reactive: unknown subscriber kind")
		}
	}
	s.subs = nil
}

func (s *UniversalSubscribers[V]) Len() int { return len(s.subs) }

// ProjectedSubscribers broadcasts project(v) instead of the stored value.
type ProjectedSubscribers[V, O any] struct {
	project func(V) O
	subs    []*Stream[O]
}

// NewProjectedSubscribers returns streaming storage for a cell holding V whose
// subscribers receive O.
func NewProjectedSubscribers[V, O any](project func(V) O) *ProjectedSubscribers[V, O] {
	if project == nil {
		panic("reactive: nil projection")
	}
	return &ProjectedSubscribers[V, O]{project: project}
}

func (s *ProjectedSubscribers[V, O]) Subscribe() *Stream[O] {
	sub := newStream[O]()
	s.subs = append(s.subs, sub)
	return sub
}

func (s *ProjectedSubscribers[V, O]) OnModify(v V) {
	if len(s.subs) == 0 {
		return
	}
	out := s.project(v)
	retain(&s.subs, func(sub *Stream[O]) bool {
		return sub.push(out)
	})
}

func (s *ProjectedSubscribers[V, O]) Drop() {
	for _, sub := range s.subs {
		sub.end()
	}
	s.subs = nil
}

func (s *ProjectedSubscribers[V, O]) Len() int { return len(s.subs) }
