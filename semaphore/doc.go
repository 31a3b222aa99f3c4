// Package semaphore provides a FIFO counting semaphore built from a
// lock-free reference cell, with context-aware acquisition and true
// suspension of waiting goroutines.
//
// # Why This Package Exists
//
// The simplest counting semaphore in Go is a buffered channel, and for many
// uses that is exactly the right tool. This package exists for the cases
// the channel encoding cannot serve:
//
//   - Cancellation: a parked Acquire can be abandoned through its context,
//     and the abandonment is atomic with respect to concurrent Release
//     calls - the permit is never lost and never granted twice.
//   - Strict FIFO ordering: permits are handed to waiters in exactly the
//     order they arrived. A channel semaphore inherits Go's "barging"
//     select behaviour and makes no such promise.
//   - Inspection: the number of available permits and parked waiters can be
//     observed at any time.
//
// The other road not taken is the optimistic one: let an exhausted acquire
// decrement anyway, undo, and retry in a loop. That encoding burns
// scheduler cycles for as long as the semaphore stays exhausted. Here an
// exhausted Acquire parks the goroutine on a dedicated wake channel and
// costs nothing until a Release hands it a permit.
//
// # Design
//
// The entire semaphore state - the permit count and the waiter queue - is
// one immutable value held in a ref.Ref and replaced wholesale under
// compare-and-swap. Every state transition (acquire, release, enqueue,
// cancel-removal) is a single ref.Modify call, so no transition can ever
// observe or produce a half-updated semaphore. There are no mutexes; the
// only blocking point is the parked receive inside Acquire.
//
// Releases prefer direct handoff: when waiters exist, the head waiter is
// dequeued and woken with the permit transferred to it directly. The
// shared count never rises while anyone is waiting, so a permit cannot be
// snatched from under a parked waiter by a later TryAcquire.
//
// # Usage
//
//	sem := semaphore.New(3)
//
//	if err := sem.Acquire(ctx); err != nil {
//		return err // cancelled or timed out while waiting
//	}
//	defer sem.Release()
//	// ... at most 3 goroutines run here at once ...
//
// Or equivalently with the wrapper:
//
//	err := sem.With(ctx, func() error {
//		// ... bounded section ...
//		return nil
//	})
//
// # When NOT to Use This Package
//
//   - Weighted acquisition (several permits at once): use
//     golang.org/x/sync/semaphore.
//   - No cancellation, no fairness requirement: a buffered channel is
//     smaller and faster.
//   - Unlimited-when-nil semantics for optional limits: use the Group type
//     in this package, whose zero value is unlimited, or wrap the nil
//     check yourself.
package semaphore
