// Package parallel provides the fan-out helpers used to shard batch epochs.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64,
	}
}

// Chunks splits [0, n) into contiguous [start, end) ranges, one per worker.
//
// A single range covering everything is returned when parallelism is
// disabled or n is below MinChunkSize. No range is empty; n <= 0 yields nil.
func Chunks(n int, cfg Config) [][2]int {
	if n <= 0 {
		return nil
	}
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < cfg.MinChunkSize {
		return [][2]int{{0, n}}
	}

	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)
	chunks := make([][2]int, 0, (n+chunkSize-1)/chunkSize)
	for start := 0; start < n; start += chunkSize {
		chunks = append(chunks, [2]int{start, min(start+chunkSize, n)})
	}
	return chunks
}

// ForChunks runs f once per range returned by Chunks and waits for all of
// them. A single chunk runs on the calling goroutine. Returns the number of
// chunks.
func ForChunks(n int, f func(chunk, start, end int), cfg Config) int {
	chunks := Chunks(n, cfg)
	if len(chunks) == 1 {
		f(0, chunks[0][0], chunks[0][1])
		return 1
	}

	var wg sync.WaitGroup
	for i, c := range chunks {
		wg.Add(1)
		go func(i, s, e int) {
			defer wg.Done()
			f(i, s, e)
		}(i, c[0], c[1])
	}
	wg.Wait()
	return len(chunks)
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	ForChunks(n, func(_, start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	}, cfg)
}
