package semaphore

import (
	"context"
	"fmt"

	"github.com/gciuloaica/zio/ref"
)

// A Semaphore is a counting semaphore with strict FIFO handoff to waiters
// and context-aware acquisition. It bounds the number of goroutines inside
// a critical section to the capacity it was created with.
//
// All state transitions are compare-and-swap replacements of one immutable
// state value, so the Semaphore itself never takes a lock; goroutines
// block only when Acquire parks them to wait for a permit.
//
// A Semaphore must be created with New.
type Semaphore struct {
	state *ref.Ref[state]
}

// state is the complete semaphore state, replaced wholesale on every
// transition.
//
// Invariant: waiters is non-empty only while permits == 0. Release hands
// permits directly to waiters instead of incrementing the count, so the
// count cannot rise while anyone is parked.
type state struct {
	permits int64
	waiters []*waiter
}

// A waiter is the resume token for one parked Acquire. The releaser closes
// granted to transfer a permit and wake the owner; the channel is closed
// at most once because a waiter is dequeued exactly once.
type waiter struct {
	granted chan struct{}
}

// New creates a Semaphore with the given number of permits. It panics if
// permits is negative. A zero-permit semaphore is valid: every Acquire
// parks until a Release hands it a permit.
func New(permits int64) *Semaphore {
	if permits < 0 {
		panic(fmt.Errorf("semaphore: negative permit count %d", permits))
	}
	return &Semaphore{state: ref.New(state{permits: permits})}
}

// Acquire obtains a permit, parking the calling goroutine until one is
// available or ctx is done. It returns nil when the permit is held and
// ctx.Err() when the wait was abandoned.
//
// When permits are available the call succeeds immediately. Otherwise the
// caller joins a FIFO queue and is woken by the Release that hands it a
// permit; waiters are granted strictly in arrival order.
//
// Abandoning the wait is atomic with respect to concurrent Release calls:
// either the waiter is removed before any permit reaches it, or the permit
// that was already transferred is passed on to the next waiter (or back to
// the pool). A permit is never lost and never granted twice.
func (s *Semaphore) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w := &waiter{granted: make(chan struct{})}
	acquired := ref.Modify(s.state, func(st state) (bool, state) {
		if st.permits > 0 {
			return true, state{permits: st.permits - 1, waiters: st.waiters}
		}
		return false, state{waiters: enqueue(st.waiters, w)}
	})
	if acquired {
		return nil
	}

	select {
	case <-w.granted:
		return nil
	case <-ctx.Done():
		removed := ref.Modify(s.state, func(st state) (bool, state) {
			ws, ok := remove(st.waiters, w)
			if !ok {
				return false, st
			}
			return true, state{permits: st.permits, waiters: ws}
		})
		if !removed {
			// A concurrent Release already dequeued this waiter and
			// transferred a permit to it. Pass the permit on so it is
			// not lost with the abandoned wait.
			s.Release()
		}
		return ctx.Err()
	}
}

// TryAcquire obtains a permit without parking. It returns true if a permit
// was taken and false if the semaphore is exhausted.
//
// TryAcquire never jumps the queue: while waiters are parked the permit
// count is zero, so it simply fails.
func (s *Semaphore) TryAcquire() bool {
	return ref.Modify(s.state, func(st state) (bool, state) {
		if st.permits > 0 {
			return true, state{permits: st.permits - 1, waiters: st.waiters}
		}
		return false, st
	})
}

// Release returns a permit. If goroutines are parked in Acquire, the
// longest-waiting one is woken and the permit is transferred to it
// directly; otherwise the permit rejoins the pool.
//
// Release does not track ownership. Calling it more times than Acquire
// grows the pool past the semaphore's original capacity; balanced use is
// the caller's responsibility.
func (s *Semaphore) Release() {
	head := ref.Modify(s.state, func(st state) (*waiter, state) {
		if len(st.waiters) > 0 {
			return st.waiters[0], state{permits: st.permits, waiters: st.waiters[1:]}
		}
		return nil, state{permits: st.permits + 1}
	})
	if head != nil {
		close(head.granted)
	}
}

// With runs f while holding a permit, releasing it when f returns or
// panics. It returns ctx.Err() if the permit could not be obtained, and
// f's error otherwise.
func (s *Semaphore) With(ctx context.Context, f func() error) error {
	if err := s.Acquire(ctx); err != nil {
		return err
	}
	defer s.Release()
	return f()
}

// Available returns the number of permits currently in the pool. It is
// zero whenever goroutines are parked waiting.
func (s *Semaphore) Available() int64 {
	return s.state.Get().permits
}

// Waiting returns the number of goroutines currently parked in Acquire.
func (s *Semaphore) Waiting() int {
	return len(s.state.Get().waiters)
}

// String returns a human-readable view of the semaphore's state, in the
// form "Semaphore(available=A, waiting=W)". It enables direct printing of
// semaphores in fmt operations.
func (s *Semaphore) String() string {
	st := s.state.Get()
	return fmt.Sprintf("Semaphore(available=%d, waiting=%d)", st.permits, len(st.waiters))
}

// enqueue appends w to a fresh copy of the queue. Modify functions must be
// pure, so the shared backing array is never appended to in place; a
// losing race discards the copy untouched.
func enqueue(ws []*waiter, w *waiter) []*waiter {
	next := make([]*waiter, len(ws)+1)
	copy(next, ws)
	next[len(ws)] = w
	return next
}

// remove returns the queue without w, preserving order, and reports
// whether w was present. Waiters are matched by identity: each Acquire
// parks on its own token, so pointer equality is exact.
func remove(ws []*waiter, w *waiter) ([]*waiter, bool) {
	for i, candidate := range ws {
		if candidate != w {
			continue
		}
		next := make([]*waiter, 0, len(ws)-1)
		next = append(next, ws[:i]...)
		next = append(next, ws[i+1:]...)
		return next, true
	}
	return nil, false
}
