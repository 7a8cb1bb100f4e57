// Package reactive provides observable cells: containers that hold a value
// and notify subscribers when that value actually changes.
//
// A cell is mutated only through a [Guard]. The guard snapshots the value when
// it is created and, when released, compares the snapshot with the current
// value. Subscribers are notified once per released guard, and only if the
// value differs. Writing back an identical value is silent.
//
// Two subscription models are offered, selected by the cell type:
//
//   - streaming: [Field.Subscribe] returns a [Stream] that receives every
//     committed change, in commit order, without bound;
//   - one-shot: [OnceField.When] and [OnceField.WhenEq] return a [Waiter]
//     that resolves the first time the value satisfies a predicate.
//
// [UniversalField] supports both. [CustomField] accepts any storage that
// implements [Notifier] and [Streamable], for example [ProjectedSubscribers]
// which broadcasts a projection of the stored value.
//
// When is check-then-register: if the predicate already holds, the returned
// Waiter is already resolved and nothing is stored.
//
// Cells are not safe for concurrent use. They are meant to be owned by a
// single goroutine (see package sched). The receiving ends, [Stream] and
// [Waiter], may be consumed from any goroutine.
//
//	count := reactive.NewUniversalField(1)
//	changes := count.Subscribe()
//	reached := count.WhenEq(4)
//	for i := 0; i < 3; i++ {
//		count.Update(func(v *int) { *v++ })
//	}
//	// changes yields 2, 3, 4 and reached is resolved.
package reactive
