package rotation

import (
	"errors"
	"fmt"
	"time"
)

// RateLimitError signals that the upstream throttled the request. When the
// response carried a Retry-After hint, RetryAfter holds it.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

// transientError marks an error as worth retrying.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient wraps err so the retry policy will attempt it again
// (server errors, timeouts, truncated bodies).
func Transient(err error) error { return &transientError{err: err} }

// Retryable reports whether the retry policy should attempt err again.
func Retryable(err error) bool {
	var rl *RateLimitError
	var tr *transientError
	return errors.As(err, &rl) || errors.As(err, &tr)
}

// RetryPolicy is a bounded retry with exponential backoff. The zero value is
// not usable; start from DefaultRetryPolicy.
type RetryPolicy struct {
	Attempts   int           // total attempts, including the first
	BaseDelay  time.Duration // delay before the second attempt
	Multiplier float64       // backoff growth per attempt
	MaxDelay   time.Duration // backoff cap

	// Sleep is the wait function, settable in tests. Nil means time.Sleep.
	Sleep func(time.Duration)
}

// DefaultRetryPolicy matches the upstream rate limiter's temper: six
// attempts, starting at one second, doubling up to twenty.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 6, BaseDelay: time.Second, Multiplier: 2, MaxDelay: 20 * time.Second}
}

// Do runs op until it succeeds, fails with a non-retryable error, or the
// attempt budget is spent. Rate-limit errors that carry a Retry-After hint
// wait that long instead of the computed backoff.
func (p RetryPolicy) Do(op func() error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	delay := p.BaseDelay
	var err error
	for attempt := 0; attempt < p.Attempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if !Retryable(err) || attempt == p.Attempts-1 {
			return err
		}
		wait := delay
		var rl *RateLimitError
		if errors.As(err, &rl) && rl.RetryAfter > 0 {
			wait = rl.RetryAfter
		}
		sleep(wait)
		delay = time.Duration(float64(delay) * p.Multiplier)
		if delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
	return err
}
