package ref

import (
	"fmt"
	"sync/atomic"
)

// A Ref is a lock-free mutable reference to a value of type A. Any number
// of goroutines may read and update it concurrently; reads never block and
// writes resolve races by retrying, never by suspending the caller.
//
// The held value is treated as immutable: it is replaced wholesale on every
// write and must not be modified after it has been stored. For values with
// reference semantics (slices, maps, pointers) this discipline is the
// caller's responsibility.
//
// A Ref must be created with New; the zero value has no initial value and
// is not usable.
type Ref[A any] struct {
	cell atomic.Pointer[box[A]]
}

// A box pins one written value to a unique allocation. The cell swaps box
// pointers, so a compare-and-swap matches a specific write rather than a
// payload that happens to compare equal. This is what rules out the ABA
// problem: re-writing an old payload produces a new box, and a snapshot of
// the earlier write can no longer match.
type box[A any] struct {
	value A
}

// New creates a Ref holding the given initial value.
//
// Requiring the initial value up front means a Ref is never observable in
// an empty or half-constructed state: every read, from the very first,
// returns a value that was explicitly written.
func New[A any](initial A) *Ref[A] {
	r := &Ref[A]{}
	r.cell.Store(&box[A]{value: initial})
	return r
}

// Get returns the value held by the Ref at the instant of the call. It
// never blocks and has no side effects.
func (r *Ref[A]) Get() A {
	return r.cell.Load().value
}

// Set replaces the held value unconditionally. Concurrent Sets are safe;
// one of them becomes the cell's next value and the others are overwritten
// in some total order.
func (r *Ref[A]) Set(value A) {
	r.cell.Store(&box[A]{value: value})
}

// GetAndSet replaces the held value and returns the value it replaced, as
// a single atomic step.
func (r *Ref[A]) GetAndSet(value A) A {
	return r.cell.Swap(&box[A]{value: value}).value
}

// A Snapshot captures one specific write observed in a Ref. It is the
// expected-state token for CompareAndSwap: the swap succeeds only if the
// cell still holds the exact write the snapshot saw, not merely an equal
// value.
type Snapshot[A any] struct {
	b *box[A]
}

// Value returns the value the snapshot observed.
func (s Snapshot[A]) Value() A {
	return s.b.value
}

// Snapshot returns the cell's current value tagged with its write
// identity, for use with CompareAndSwap.
func (r *Ref[A]) Snapshot() Snapshot[A] {
	return Snapshot[A]{b: r.cell.Load()}
}

// CompareAndSwap replaces the held value with the given one if and only if
// the cell still holds the write captured by expected. It reports whether
// the swap happened. On failure the cell is untouched.
//
// The comparison is by write identity, so a CompareAndSwap cannot
// spuriously succeed after the cell has been written twice, even when the
// second write restored a payload equal to the snapshot's.
func (r *Ref[A]) CompareAndSwap(expected Snapshot[A], value A) bool {
	return r.cell.CompareAndSwap(expected.b, &box[A]{value: value})
}

// Update replaces the held value with f applied to it, atomically with
// respect to all other operations on the Ref.
//
// f must be pure: it may be invoked several times, once per lost race, and
// only the winning invocation's result is kept. If f panics, the panic
// propagates to the caller and the cell keeps its current value.
func (r *Ref[A]) Update(f func(A) A) {
	for {
		cur := r.cell.Load()
		next := &box[A]{value: f(cur.value)}
		if r.cell.CompareAndSwap(cur, next) {
			return
		}
	}
}

// GetAndUpdate applies f as Update does and returns the value that was
// replaced (the winning invocation's input).
func (r *Ref[A]) GetAndUpdate(f func(A) A) A {
	for {
		cur := r.cell.Load()
		next := &box[A]{value: f(cur.value)}
		if r.cell.CompareAndSwap(cur, next) {
			return cur.value
		}
	}
}

// UpdateAndGet applies f as Update does and returns the value that was
// written (the winning invocation's result).
func (r *Ref[A]) UpdateAndGet(f func(A) A) A {
	for {
		cur := r.cell.Load()
		next := &box[A]{value: f(cur.value)}
		if r.cell.CompareAndSwap(cur, next) {
			return next.value
		}
	}
}

// UpdateErr is Update for fallible functions. When f returns an error, the
// error is returned to the caller, no write is attempted, and the cell
// keeps its pre-call value. The purity requirement on f is unchanged.
func (r *Ref[A]) UpdateErr(f func(A) (A, error)) error {
	for {
		cur := r.cell.Load()
		value, err := f(cur.value)
		if err != nil {
			return err
		}
		if r.cell.CompareAndSwap(cur, &box[A]{value: value}) {
			return nil
		}
	}
}

// String formats the current value with %v. It exists so a Ref can be
// handed directly to fmt and log calls when debugging.
func (r *Ref[A]) String() string {
	return fmt.Sprintf("Ref(%v)", r.Get())
}

// Modify atomically replaces the Ref's value and hands an auxiliary result
// back to the caller: f maps the current value to (result, next value),
// and the result of the winning invocation is returned once its write
// succeeds.
//
// Modify is a package-level function rather than a method because the
// result type B is independent of the Ref's value type, and Go methods
// cannot introduce additional type parameters.
//
// The purity requirement of Update applies to f.
func Modify[A, B any](r *Ref[A], f func(A) (B, A)) B {
	for {
		cur := r.cell.Load()
		result, value := f(cur.value)
		if r.cell.CompareAndSwap(cur, &box[A]{value: value}) {
			return result
		}
	}
}

// ModifyErr is Modify for fallible functions. When f returns an error, the
// error is returned with the zero B, no write is attempted, and the cell
// keeps its pre-call value.
func ModifyErr[A, B any](r *Ref[A], f func(A) (B, A, error)) (B, error) {
	for {
		cur := r.cell.Load()
		result, value, err := f(cur.value)
		if err != nil {
			var zero B
			return zero, err
		}
		if r.cell.CompareAndSwap(cur, &box[A]{value: value}) {
			return result, nil
		}
	}
}
