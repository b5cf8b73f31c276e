package dgc

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency bounds how many operations a Batch runs at once
// when no explicit limit is configured.
const DefaultBatchConcurrency = 20

// ErrorPolicy controls how a Batch reacts to per-item failures.
type ErrorPolicy int

const (
	// ContinueOnError records the failure and keeps processing.
	ContinueOnError ErrorPolicy = iota
	// StopOnError cancels remaining work after the first failure. Items
	// already in flight are allowed to finish.
	StopOnError
)

// BatchItemError pairs a failed item index with its error.
type BatchItemError struct {
	Index int
	Err   error
}

func (e BatchItemError) Error() string { return e.Err.Error() }

func (e BatchItemError) Unwrap() error { return e.Err }

// BatchResult collects the outcome of a batch run. Successes and Errors
// preserve item order.
type BatchResult[R any] struct {
	// Successes holds the result per succeeded input index.
	Successes map[int]R
	// Errors holds one entry per failed item, ordered by index.
	Errors []BatchItemError
}

// SuccessCount returns the number of items that completed without error.
func (r *BatchResult[R]) SuccessCount() int { return len(r.Successes) }

// ErrorCount returns the number of failed items.
func (r *BatchResult[R]) ErrorCount() int { return len(r.Errors) }

// Batch runs an operation over items with bounded concurrency.
type Batch[T, R any] struct {
	// Concurrency bounds parallel operations (DefaultBatchConcurrency if 0).
	Concurrency int
	// Policy selects the error handling strategy.
	Policy ErrorPolicy
	// OnProgress, if set, is called after each item with (done, total).
	OnProgress func(done, total int)
}

// Run applies op to every item. The returned BatchResult is complete even
// when the context is cancelled mid-run; unprocessed items simply have no
// entry.
func (b *Batch[T, R]) Run(ctx context.Context, items []T, op func(context.Context, T) (R, error)) *BatchResult[R] {
	limit := b.Concurrency
	if limit <= 0 {
		limit = DefaultBatchConcurrency
	}

	type slot struct {
		result R
		err    error
		ran    bool
	}
	slots := make([]slot, len(items))

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return nil
			}
			r, err := op(gctx, item)
			slots[i] = slot{result: r, err: err, ran: true}
			if b.OnProgress != nil {
				b.OnProgress(int(done.Add(1)), len(items))
			}
			if err != nil && b.Policy == StopOnError {
				return err
			}
			return nil
		})
	}
	// The only error an item can propagate is its own op error under
	// StopOnError; it is already captured in its slot.
	_ = g.Wait()

	out := &BatchResult[R]{Successes: make(map[int]R)}
	for i, s := range slots {
		if !s.ran {
			continue
		}
		if s.err != nil {
			out.Errors = append(out.Errors, BatchItemError{Index: i, Err: s.err})
		} else {
			out.Successes[i] = s.result
		}
	}
	return out
}
