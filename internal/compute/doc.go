// Package compute splits per-body work across goroutines.
//
// Work is divided into contiguous index chunks, one per worker. Callers
// that write only to the indices of their own chunk get results identical
// to a serial loop:
//
//	compute.ParallelFor(n, 64, workers, func(start, end int) {
//	    for i := start; i < end; i++ {
//	        out[i] = f(in, i)
//	    }
//	})
package compute
