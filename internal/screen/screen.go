// Package screen evaluates conditions over in-memory rows on a bounded pool.
package screen

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/stockscreen/screener/internal/dataset"
	"github.com/stockscreen/screener/internal/filter"
	"github.com/stockscreen/screener/internal/logger"
)

// chunksPerWorker splits the input finer than the pool size so slow chunks
// do not leave workers idle.
const chunksPerWorker = 4

// Screener filters rows in parallel chunks.
type Screener struct {
	pool    *ants.Pool
	workers int
}

// New creates a Screener backed by a pool of the given size.
func New(workers int) (*Screener, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("screen: workers must be positive, got %d", workers)
	}
	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(v any) {
		logger.Error("screen worker panic", "panic", v)
	}))
	if err != nil {
		return nil, fmt.Errorf("screen: failed to create pool: %w", err)
	}
	return &Screener{pool: pool, workers: workers}, nil
}

// Release stops the pool, waiting briefly for running chunks.
func (s *Screener) Release() {
	if s.pool != nil {
		_ = s.pool.ReleaseTimeout(3 * time.Second)
	}
}

// Filter returns the rows satisfying conds, in input order. It stops early
// and returns the context error when ctx is cancelled.
func (s *Screener) Filter(ctx context.Context, conds filter.Conditions, rows []dataset.Row) ([]dataset.Row, error) {
	if len(rows) == 0 {
		return nil, ctx.Err()
	}

	start := time.Now()
	matched := make([]bool, len(rows))
	chunk := chunkSize(len(rows), s.workers)

	nChunks := (len(rows) + chunk - 1) / chunk
	finished := make([]bool, nChunks)

	var (
		wg        sync.WaitGroup
		submitErr error
	)
	for c := 0; c < nChunks; c++ {
		lo := c * chunk
		hi := min(lo+chunk, len(rows))

		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				if ctx.Err() != nil {
					return
				}
				matched[i] = conds.Match(rows[i].Values)
			}
			finished[c] = true
		})
		if err != nil {
			wg.Done()
			submitErr = fmt.Errorf("screen: failed to submit chunk: %w", err)
			break
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if submitErr != nil {
		return nil, submitErr
	}
	for _, done := range finished {
		if !done {
			// A chunk panicked; its rows were never evaluated.
			return nil, fmt.Errorf("screen: a worker failed while evaluating rows")
		}
	}

	var out []dataset.Row
	for i, ok := range matched {
		if ok {
			out = append(out, rows[i])
		}
	}
	logger.Debug("in-memory screen", "rows", len(rows), "matched", len(out), "workers", s.workers, "took", time.Since(start))
	return out, nil
}

func chunkSize(n, workers int) int {
	parts := workers * chunksPerWorker
	size := (n + parts - 1) / parts
	if size < 1 {
		return 1
	}
	return size
}
