package semaphore_test

import (
	"context"
	"fmt"

	"github.com/gciuloaica/zio/semaphore"
)

func Example() {
	sem := semaphore.New(2)
	fmt.Println("created:", sem)

	// With permits available, Acquire returns immediately.
	// Always pair it with a deferred Release so the permit is returned
	// even if your code panics.
	if err := sem.Acquire(context.Background()); err != nil {
		panic(err)
	}
	defer sem.Release()
	fmt.Println("after acquire:", sem)

	// TryAcquire lets you handle the "too busy" case without parking.
	if sem.TryAcquire() {
		fmt.Println("after try-acquire:", sem)
		sem.Release()
	}

	// Exhausted: TryAcquire reports failure instead of waiting.
	sem.Acquire(context.Background())
	defer sem.Release()
	if !sem.TryAcquire() {
		fmt.Println("exhausted:", sem)
	}

	// Output:
	// created: Semaphore(available=2, waiting=0)
	// after acquire: Semaphore(available=1, waiting=0)
	// after try-acquire: Semaphore(available=0, waiting=0)
	// exhausted: Semaphore(available=0, waiting=0)
}

// A context deadline bounds how long Acquire may wait. On timeout the
// waiter is removed from the queue atomically, so an abandoned wait never
// leaves a stale entry behind to swallow a future release.
func Example_timeout() {
	sem := semaphore.New(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // stands in for a deadline firing

	err := sem.Acquire(ctx)
	fmt.Println("acquire:", err)
	fmt.Println("state:  ", sem)

	// The release finds no waiter and pools the permit.
	sem.Release()
	fmt.Println("after release:", sem)

	// Output:
	// acquire: context canceled
	// state:   Semaphore(available=0, waiting=0)
	// after release: Semaphore(available=1, waiting=0)
}

// A Group bounds how many of its goroutines run at once, admitting them in
// FIFO order through the shared semaphore.
func Example_group() {
	var g semaphore.Group
	g.SetLimit(2)

	results := make(chan int, 4)
	for i := 0; i < 4; i++ {
		i := i
		g.Go(context.Background(), func() {
			results <- i * i
		})
	}
	g.Wait()
	close(results)

	sum := 0
	for n := range results {
		sum += n
	}
	fmt.Println("sum of squares:", sum)
	// Output:
	// sum of squares: 14
}
