// Package resilience composes timeout, retry with exponential backoff,
// and a per-service circuit breaker around external validator/lookup
// calls, per spec.md §4.6.
package resilience

import (
	"context"
	"time"

	"github.com/8arr3tt/have-we-met/pkg/resolveerr"
)

// Operation is an arbitrary async call the resilience wrapper protects.
// It must observe ctx cancellation cooperatively.
type Operation func(ctx context.Context) (any, error)

// WithTimeout races op against a deadline. On expiry, ctx is cancelled
// (cooperative cancellation is the callee's responsibility) and a
// ServiceTimeoutError is returned. The pending timer is released on
// every exit path.
func WithTimeout(ctx context.Context, timeout time.Duration, op Operation) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		value, err := op(ctx)
		done <- outcome{value, err}
	}()

	select {
	case o := <-done:
		return o.value, o.err
	case <-ctx.Done():
		return nil, resolveerr.New(resolveerr.CodeServiceTimeout, "operation timed out").WithOperation("resilience.timeout")
	}
}
