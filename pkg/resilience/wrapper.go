package resilience

import (
	"context"
	"time"
)

// Config bundles the three layers' settings for one external service.
type Config struct {
	ServiceName string
	Timeout     time.Duration
	Retry       RetryPolicy
	Breaker     BreakerConfig
}

// Wrapper composes circuit breaker -> retry -> timeout around an
// external call, per spec.md §4.6's composition order: the breaker
// observes exactly one outcome per outer Call regardless of how many
// times retry re-invokes the operation.
type Wrapper struct {
	registry *Registry
}

// NewWrapper builds a Wrapper sharing a process-wide breaker Registry.
func NewWrapper(registry *Registry) *Wrapper {
	return &Wrapper{registry: registry}
}

// Call runs op through breaker(retry(timeout(op))).
func (w *Wrapper) Call(ctx context.Context, cfg Config, op Operation) (any, error) {
	timedOp := func(ctx context.Context) (any, error) {
		return WithTimeout(ctx, cfg.Timeout, op)
	}
	retriedOp := func(ctx context.Context) (any, error) {
		return WithRetry(ctx, cfg.Retry, timedOp)
	}
	return w.registry.Call(ctx, cfg.ServiceName, cfg.Breaker, retriedOp)
}
