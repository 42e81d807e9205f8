// Package discovery finds attractions and food spots near a coordinate,
// racing each category lookup against a fixed time budget.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// TimeoutError reports that a labeled operation exceeded its time budget.
type TimeoutError struct {
	Label  string
	Budget time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Label, e.Budget)
}

// FetchWithTimeout races op against the budget and returns whichever settles
// first. A late result is discarded, never delivered: op receives a context
// with the budget as deadline so it can stop early, but the caller is
// released at the deadline whether op honors it or not.
func FetchWithTimeout[T any](ctx context.Context, budget time.Duration, label string, op func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	// Buffered so the loser's send never blocks; the value is simply dropped.
	results := make(chan outcome, 1)

	go func() {
		value, err := op(ctx)
		results <- outcome{value: value, err: err}
	}()

	select {
	case out := <-results:
		return out.value, out.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.Canceled) {
			return zero, ctx.Err()
		}
		return zero, &TimeoutError{Label: label, Budget: budget}
	}
}
