package semaphore

import (
	"context"
	"fmt"
	"sync"
)

// A Group is a collection of goroutines doing concurrent work, with the
// number of simultaneously active goroutines bounded by a shared
// Semaphore. Admission is FIFO: callers blocked in Go are granted slots in
// the order they asked.
//
// A zero Group is valid and has no limit on the number of active
// goroutines.
type Group struct {
	wg    sync.WaitGroup
	limit int64
	sem   *Semaphore
}

// Go runs f in a new goroutine. It blocks until the goroutine can start
// without the number of active goroutines exceeding the configured limit,
// or until ctx is done, in which case f never runs and ctx.Err() is
// returned.
func (g *Group) Go(ctx context.Context, f func()) error {
	if g.sem != nil {
		if err := g.sem.Acquire(ctx); err != nil {
			return err
		}
	}
	g.wg.Add(1)
	go func() {
		defer g.done()
		f()
	}()
	return nil
}

func (g *Group) done() {
	if g.sem != nil {
		g.sem.Release()
	}
	g.wg.Done()
}

// Wait blocks until all goroutines started by Go have returned.
func (g *Group) Wait() {
	g.wg.Wait()
}

// SetLimit limits the number of active goroutines in this group to at most
// n. A negative value indicates no limit. A zero value will block any
// further calls to Go until the limit is raised.
//
// The limit must not be modified while any goroutines in the group are
// active.
func (g *Group) SetLimit(n int64) {
	if g.sem != nil {
		if active := g.limit - g.sem.Available(); active != 0 {
			panic(fmt.Errorf("semaphore: modify limit while %v goroutines in the group are still active", active))
		}
	}
	if n < 0 {
		g.limit, g.sem = 0, nil
		return
	}
	g.limit, g.sem = n, New(n)
}
