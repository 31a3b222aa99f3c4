package ref_test

import (
	"fmt"
	"sync"

	"github.com/gciuloaica/zio/ref"
)

func Example() {
	// A Ref holds one immutable value that many goroutines may share.
	counter := ref.New(0)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				// Update retries on contention, so no increment is ever lost.
				// The function must be pure: it may run once per retry.
				counter.Update(func(n int) int { return n + 1 })
			}
		}()
	}
	wg.Wait()

	fmt.Println(counter.Get())
	// Output:
	// 400
}

// Modify pairs an atomic replacement with a result for the caller. Drawing
// identifiers from a shared sequence is the canonical use: every caller gets
// a distinct value, no matter how many race.
func Example_modify() {
	sequence := ref.New(uint64(100))

	id := ref.Modify(sequence, func(next uint64) (uint64, uint64) {
		return next, next + 1
	})

	fmt.Println("issued:", id)
	fmt.Println("next:  ", sequence.Get())
	// Output:
	// issued: 100
	// next:   101
}

// CompareAndSwap matches a specific write, not an equal payload. Two writes
// that happen to carry the same value are distinct events, so a stale
// snapshot cannot sneak a swap through after the cell has moved on and back.
func Example_snapshot() {
	cell := ref.New("blue")
	snap := cell.Snapshot()

	cell.Set("green")
	cell.Set("blue") // same payload, different write

	fmt.Println("swapped:", cell.CompareAndSwap(snap, "red"))
	fmt.Println("held:   ", cell.Get())
	// Output:
	// swapped: false
	// held:    blue
}
