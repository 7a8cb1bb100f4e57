package reactive

// Field is a cell that only supports streaming subscriptions.
type Field[V any] struct {
	cell[V, *StreamSubscribers[V]]
}

// NewField returns a streaming cell holding initial.
func NewField[V comparable](initial V) *Field[V] {
	return NewFieldFunc(initial, EqualComparable[V])
}

// NewFieldFunc is NewField with an explicit equality. A nil equal makes
// Mutate behave like MutateUnchecked.
func NewFieldFunc[V any](initial V, equal EqualFunc[V]) *Field[V] {
	return &Field[V]{cell: newCell(initial, &StreamSubscribers[V]{}, equal)}
}

// Subscribe registers a stream that receives every later change. Past values
// are not replayed. On a closed cell the stream is already ended.
func (f *Field[V]) Subscribe() *Stream[V] {
	return subscribe[V, V](&f.cell)
}

// OnceField is a cell that only supports one-shot subscriptions.
type OnceField[V any] struct {
	cell[V, *OnceSubscribers[V]]
}

// NewOnceField returns a one-shot cell holding initial.
func NewOnceField[V comparable](initial V) *OnceField[V] {
	return NewOnceFieldFunc(initial, EqualComparable[V])
}

// NewOnceFieldFunc is NewOnceField with an explicit equality.
func NewOnceFieldFunc[V any](initial V, equal EqualFunc[V]) *OnceField[V] {
	return &OnceField[V]{cell: newCell(initial, &OnceSubscribers[V]{}, equal)}
}

// When returns a Waiter resolved by the first committed mutation after which
// pred holds. If pred already holds the Waiter is returned resolved.
func (f *OnceField[V]) When(pred func(V) bool) *Waiter {
	return when(&f.cell, pred)
}

// WhenEq is When with equality against target.
func (f *OnceField[V]) WhenEq(target V) *Waiter {
	return whenEq(&f.cell, target)
}

// UniversalField supports streaming and one-shot subscriptions.
type UniversalField[V any] struct {
	cell[V, *UniversalSubscribers[V]]
}

// NewUniversalField returns a cell holding initial.
func NewUniversalField[V comparable](initial V) *UniversalField[V] {
	return NewUniversalFieldFunc(initial, EqualComparable[V])
}

// NewUniversalFieldFunc is NewUniversalField with an explicit equality.
func NewUniversalFieldFunc[V any](initial V, equal EqualFunc[V]) *UniversalField[V] {
	return &UniversalField[V]{cell: newCell(initial, &UniversalSubscribers[V]{}, equal)}
}

func (f *UniversalField[V]) Subscribe() *Stream[V] {
	return subscribe[V, V](&f.cell)
}

func (f *UniversalField[V]) When(pred func(V) bool) *Waiter {
	return when(&f.cell, pred)
}

func (f *UniversalField[V]) WhenEq(target V) *Waiter {
	return whenEq(&f.cell, target)
}

// CustomField is a streaming cell over injected storage, which decides what
// subscribers receive.
type CustomField[V, O any, S StreamStorage[V, O]] struct {
	cell[V, S]
}

// NewCustom returns a cell holding initial that notifies through subs.
func NewCustom[V comparable, O any, S StreamStorage[V, O]](initial V, subs S) *CustomField[V, O, S] {
	return NewCustomFunc[V, O](initial, subs, EqualComparable[V])
}

// NewCustomFunc is NewCustom with an explicit equality.
func NewCustomFunc[V, O any, S StreamStorage[V, O]](initial V, subs S, equal EqualFunc[V]) *CustomField[V, O, S] {
	return &CustomField[V, O, S]{cell: newCell[V, S](initial, subs, equal)}
}

// NewProjected returns a cell holding V whose subscribers receive project(V).
func NewProjected[V comparable, O any](initial V, project func(V) O) *CustomField[V, O, *ProjectedSubscribers[V, O]] {
	return NewCustom[V, O](initial, NewProjectedSubscribers(project))
}

func (f *CustomField[V, O, S]) Subscribe() *Stream[O] {
	return subscribe[V, O](&f.cell)
}
