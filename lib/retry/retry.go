// Package retry provides a bounded retry combinator so retry policies
// are plain values instead of nested loops with mutable counters.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Policy struct {
	// MaxAttempts must be >= 1.
	MaxAttempts int
	// Backoff is slept between attempts, not after the last one.
	Backoff time.Duration
}

type stopError struct {
	err error
}

func (s stopError) Error() string { return s.err.Error() }
func (s stopError) Unwrap() error { return s.err }

// Stop wraps an error so Do returns it immediately without consuming
// the remaining attempts.
func Stop(err error) error {
	return stopError{err: err}
}

// Do runs fn until it succeeds, the policy's attempt budget is
// exhausted, or the context is cancelled. The last error is returned.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error) error {
	if policy.MaxAttempts < 1 {
		return fmt.Errorf("retry: invalid max attempts: %d", policy.MaxAttempts)
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		var stop stopError
		if errors.As(err, &stop) {
			return stop.err
		}
		lastErr = err

		if attempt == policy.MaxAttempts {
			break
		}
		if policy.Backoff > 0 {
			select {
			case <-time.After(policy.Backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		} else if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return lastErr
}
