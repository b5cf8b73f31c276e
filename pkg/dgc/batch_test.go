package dgc

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchRunAllSucceed(t *testing.T) {
	b := &Batch[int, string]{Concurrency: 4}
	items := []int{1, 2, 3, 4, 5}

	result := b.Run(context.Background(), items, func(_ context.Context, n int) (string, error) {
		return fmt.Sprintf("item-%d", n), nil
	})

	assert.Equal(t, 5, result.SuccessCount())
	assert.Zero(t, result.ErrorCount())
	assert.Equal(t, "item-3", result.Successes[2])
}

func TestBatchContinueOnError(t *testing.T) {
	b := &Batch[int, int]{Concurrency: 2, Policy: ContinueOnError}
	items := []int{0, 1, 2, 3, 4, 5}

	result := b.Run(context.Background(), items, func(_ context.Context, n int) (int, error) {
		if n%2 == 1 {
			return 0, fmt.Errorf("odd %d", n)
		}
		return n * 10, nil
	})

	assert.Equal(t, 3, result.SuccessCount())
	require.Equal(t, 3, result.ErrorCount())
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Equal(t, 3, result.Errors[1].Index)
	assert.Equal(t, 5, result.Errors[2].Index)
	assert.EqualError(t, result.Errors[0], "odd 1")
}

func TestBatchStopOnError(t *testing.T) {
	b := &Batch[int, int]{Concurrency: 1, Policy: StopOnError}
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}

	var processed atomic.Int64
	result := b.Run(context.Background(), items, func(_ context.Context, n int) (int, error) {
		processed.Add(1)
		if n == 3 {
			return 0, fmt.Errorf("item 3 failed")
		}
		return n, nil
	})

	assert.Equal(t, 1, result.ErrorCount())
	// Work after the failure was skipped.
	assert.Less(t, processed.Load(), int64(100))
}

func TestBatchProgressCallback(t *testing.T) {
	var calls atomic.Int64
	b := &Batch[int, int]{
		Concurrency: 3,
		OnProgress: func(done, total int) {
			calls.Add(1)
			assert.LessOrEqual(t, done, total)
		},
	}

	b.Run(context.Background(), []int{1, 2, 3, 4}, func(_ context.Context, n int) (int, error) {
		return n, nil
	})
	assert.Equal(t, int64(4), calls.Load())
}

func TestBatchDefaultConcurrency(t *testing.T) {
	b := &Batch[int, int]{}
	result := b.Run(context.Background(), []int{1, 2, 3}, func(_ context.Context, n int) (int, error) {
		return n, nil
	})
	assert.Equal(t, 3, result.SuccessCount())
}

func TestBatchEmptyInput(t *testing.T) {
	b := &Batch[int, int]{}
	result := b.Run(context.Background(), nil, func(_ context.Context, n int) (int, error) {
		return n, nil
	})
	assert.Zero(t, result.SuccessCount())
	assert.Zero(t, result.ErrorCount())
}

func TestBatchItemErrorUnwrap(t *testing.T) {
	inner := fmt.Errorf("inner")
	err := BatchItemError{Index: 7, Err: inner}
	assert.ErrorIs(t, err, inner)
}
