// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package deadline bounds how long a caller waits for a unit of work.
//
// Go cannot stop a running goroutine from outside, so a deadline here is a
// guarantee to the caller only: work that overruns keeps running in the
// background until it returns on its own, and its result is discarded.
package deadline

import (
	"context"
	"errors"
	"time"
)

// ErrDeadlineExceeded is returned when fn does not finish within the budget.
var ErrDeadlineExceeded = errors.New("deadline exceeded")

// Run calls fn and returns its result. When d is positive, fn runs on its
// own goroutine and Run waits at most d for it, returning
// ErrDeadlineExceeded on overrun or ctx.Err() if ctx ends first. When d is
// zero or negative, fn runs synchronously with no budget.
func Run[T any](ctx context.Context, d time.Duration, fn func() T) (T, error) {
	if d <= 0 {
		return fn(), nil
	}

	// Buffered so an abandoned fn can deliver its result and exit.
	done := make(chan T, 1)
	go func() {
		done <- fn()
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	var zero T
	select {
	case v := <-done:
		return v, nil
	case <-timer.C:
		return zero, ErrDeadlineExceeded
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
