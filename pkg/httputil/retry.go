package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure that [Retry] should attempt again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry calls fn up to attempts times, doubling delay after each failure.
// Only errors wrapped in [RetryableError] are retried; anything else is
// returned at once. A cancelled ctx stops the wait and returns ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
