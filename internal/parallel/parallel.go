// Package parallel provides the chunked parallel loop used by the CPU kernels.
package parallel

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Maximum number of goroutines in flight.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.GOMAXPROCS(0)
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 4096,
	}
}

// Chunks returns how many pieces For splits n items into under cfg.
func (cfg Config) Chunks(n int) int {
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < 2*max(cfg.MinChunkSize, 1) {
		return 1
	}
	size := cfg.chunkSize(n)
	return (n + size - 1) / size
}

func (cfg Config) chunkSize(n int) int {
	return max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)
}

// For calls f(start, end) over consecutive half-open ranges covering [0, n).
// Ranges never overlap, so f may write to disjoint parts of a shared output.
// Falls back to a single call when parallelism is disabled or n is too small.
//
// A panic in f is re-raised on the calling goroutine once every chunk has
// finished, so callers can recover it whatever the chunk count.
func For(n int, f func(start, end int), cfg Config) {
	if n <= 0 {
		return
	}
	if cfg.Chunks(n) == 1 {
		f(0, n)
		return
	}

	size := cfg.chunkSize(n)

	var g errgroup.Group
	g.SetLimit(cfg.NumWorkers)
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &panicError{value: r}
				}
			}()
			f(start, end)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var pe *panicError
		if errors.As(err, &pe) {
			panic(pe.value)
		}
		panic(err)
	}
}

// panicError carries a recovered panic from a worker goroutine.
type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("parallel: worker panicked: %v", e.value)
}

// ForRows runs f(row) for every row in [0, rows), splitting by rows.
// cost is the work per row; it scales MinChunkSize so that cheap rows are batched.
func ForRows(rows, cost int, f func(row int), cfg Config) {
	if cost > 1 {
		cfg.MinChunkSize = max(cfg.MinChunkSize/cost, 1)
	}
	For(rows, func(start, end int) {
		for r := start; r < end; r++ {
			f(r)
		}
	}, cfg)
}
