// Package ref provides a concurrency-safe mutable reference cell: a single
// slot holding one immutable value that any number of goroutines may read
// and update without locks.
//
// # Why This Package Exists
//
// Shared mutable state in Go is usually guarded by a mutex or funnelled
// through a channel-owning goroutine. Both approaches block: a contended
// mutex parks the caller, and a channel round-trip serializes every access
// through one goroutine. A Ref takes the third road - optimistic
// concurrency. Readers never coordinate at all, and writers race through a
// compare-and-swap retry loop where contention costs a retry rather than a
// suspension. For small, frequently touched state (counters, configuration
// snapshots, the permit count of a semaphore) this is both faster and
// impossible to deadlock.
//
// # The Model
//
// A Ref owns exactly one immutable value at a time. The value is never
// mutated in place; every write replaces it wholesale. Because each write
// is a distinct event with its own identity, CompareAndSwap can demand
// "the cell still holds the exact write I observed" rather than "a value
// that compares equal to what I observed" - two writes carrying equal
// payloads are never confused, so the classic ABA problem cannot occur.
//
// # Purity Requirement
//
// The functions passed to Update, Modify, and their variants run inside a
// retry loop. On a lost race the speculative result is discarded and the
// function is invoked again with a fresh value. Such functions must
// therefore be pure: same input, same output, no observable side effects.
// A function that sends on a channel, appends to a shared slice, or
// increments an outside counter will have that effect repeated once per
// retry, with no way to undo the losing attempts.
//
// # When NOT to Use This Package
//
//   - Guarding more than one cell atomically: a Ref gives no ordering
//     across cells. Use a mutex around the whole group instead.
//   - Long or expensive update functions: every retry repeats the whole
//     computation. Under heavy write contention a mutex wastes less work.
//   - In-place mutation of large values: each update builds a complete
//     replacement value. If copying dominates, this is the wrong shape.
//
// # Usage
//
//	counter := ref.New(0)
//	counter.Update(func(n int) int { return n + 1 })
//	fmt.Println(counter.Get())
//
// Modify additionally hands a result back to the winning caller:
//
//	next := ref.Modify(ids, func(n uint64) (uint64, uint64) {
//		return n, n + 1
//	})
package ref
