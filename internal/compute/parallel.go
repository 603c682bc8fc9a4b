package compute

import (
	"runtime"
	"sync"
)

// DefaultWorkers is the worker count used when a caller passes zero.
func DefaultWorkers() int {
	return runtime.NumCPU()
}

// ParallelFor executes fn over [0, n) split into at most workers chunks
// of at least minChunk indices each. It returns after every chunk is done.
func ParallelFor(n, minChunk, workers int, fn func(start, end int)) {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
