// Package worker provides a bounded-parallel executor whose results come
// back in input order, which callers rely on for correct attribution of
// per-item results.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job
type Result interface {
	GetError() error
}

// RunOrdered executes jobs with at most workers goroutines and returns one
// result per job, index-aligned with the input slice. A canceled context
// leaves the remaining slots nil.
func RunOrdered(ctx context.Context, workers int, jobs []Job) []Result {
	if len(jobs) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	results := make([]Result, len(jobs))
	indices := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indices {
				select {
				case <-ctx.Done():
					return
				default:
				}
				results[idx] = jobs[idx].Execute(ctx)
			}
		}()
	}

	for i := range jobs {
		select {
		case <-ctx.Done():
			close(indices)
			wg.Wait()
			return results
		case indices <- i:
		}
	}
	close(indices)
	wg.Wait()
	return results
}

// ErrorResult is a minimal Result for jobs that only report an error
type ErrorResult struct {
	Err error
}

// GetError returns the wrapped error
func (r ErrorResult) GetError() error { return r.Err }
