// Package parallel fans independent index ranges out to worker
// goroutines. The forward kernels are pure functions over read-only
// inputs where each observation point owns a disjoint output slot, so
// chunking the outer loop needs no synchronization beyond the final
// wait.
package parallel

import (
	"runtime"
	"sync"
)

// Over splits [0, n) into contiguous chunks, one per available CPU,
// and calls fn(lo, hi) for each chunk on its own goroutine. It returns
// once every chunk has finished. fn must only write to state owned by
// its index range.
func Over(n int, fn func(lo, hi int)) {
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		if n > 0 {
			fn(0, n)
		}
		return
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		lo := lo
		hi := min(lo+chunk, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(lo, hi)
		}()
	}
	wg.Wait()
}
