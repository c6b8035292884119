package resilience

import (
	"context"
	"math"
	"time"

	"github.com/8arr3tt/have-we-met/pkg/resolveerr"
)

// RetryPolicy configures exponential backoff retry.
type RetryPolicy struct {
	MaxAttempts       int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64

	// Retryable classifies an error as worth retrying. Nil means every
	// error is retryable except a resolveerr CodeValidation error; no
	// other kind (resolveerr has no authorization code) is excluded.
	Retryable func(error) bool
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	d := float64(p.InitialDelay) * math.Pow(p.BackoffMultiplier, float64(attempt))
	if d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	return time.Duration(d)
}

func (p RetryPolicy) retryable(err error) bool {
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	if resolveerr.Is(err, resolveerr.CodeValidation) {
		return false
	}
	return true
}

// WithRetry runs op, retrying retryable failures up to MaxAttempts,
// waiting min(maxDelay, initialDelay*backoffMultiplier^attempt) between
// attempts.
func WithRetry(ctx context.Context, policy RetryPolicy, op Operation) (any, error) {
	var lastErr error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		value, err := op(ctx)
		if err == nil {
			return value, nil
		}
		lastErr = err

		if !policy.retryable(err) {
			return nil, err
		}
		if attempt == policy.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(policy.delay(attempt)):
		}
	}
	return nil, lastErr
}
