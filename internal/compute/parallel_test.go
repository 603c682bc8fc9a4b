package compute

import (
	"sync/atomic"
	"testing"
)

func TestParallelForCoversRange(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		minChunk int
		workers  int
	}{
		{"empty", 0, 4, 4},
		{"below min chunk", 3, 8, 4},
		{"single worker", 100, 1, 1},
		{"even split", 100, 10, 4},
		{"uneven split", 101, 7, 3},
		{"default workers", 257, 16, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := make([]int32, tt.n)
			ParallelFor(tt.n, tt.minChunk, tt.workers, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			for i, h := range hits {
				if h != 1 {
					t.Fatalf("index %d visited %d times, want 1", i, h)
				}
			}
		})
	}
}

func TestParallelForChunkCount(t *testing.T) {
	var calls int32
	ParallelFor(100, 10, 4, func(start, end int) {
		atomic.AddInt32(&calls, 1)
	})
	if calls != 4 {
		t.Errorf("expected 4 chunks, got %d", calls)
	}
}
