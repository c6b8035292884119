package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/8arr3tt/have-we-met/pkg/resolveerr"
)

// State is one of the breaker's three states, per spec.md §4.6.
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half-open"
)

// BreakerConfig configures one circuit breaker instance.
type BreakerConfig struct {
	FailureThreshold int
	FailureWindow    time.Duration
	ResetTimeout     time.Duration
	SuccessThreshold int
}

// Breaker is a single-service circuit breaker. All state transitions
// are serialized by an internal mutex.
type Breaker struct {
	cfg BreakerConfig

	mu               sync.Mutex
	state            State
	failures         []time.Time
	successCount     int
	openedAt         time.Time
	halfOpenAdmitted bool
}

// NewBreaker builds a closed Breaker.
func NewBreaker(cfg BreakerConfig) *Breaker {
	return &Breaker{cfg: cfg, state: StateClosed}
}

// State returns the breaker's current state, recomputing open->half-open
// transitions if ResetTimeout has elapsed.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.maybeResetLocked()
	return b.state
}

func (b *Breaker) maybeResetLocked() {
	if b.state == StateOpen && time.Since(b.openedAt) >= b.cfg.ResetTimeout {
		b.state = StateHalfOpen
		b.halfOpenAdmitted = false
		b.successCount = 0
	}
}

// Allow reports whether a call may proceed. In the open state it fails
// fast; in half-open it admits exactly one probe until that probe
// resolves.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.maybeResetLocked()

	switch b.state {
	case StateOpen:
		return false
	case StateHalfOpen:
		if b.halfOpenAdmitted {
			return false
		}
		b.halfOpenAdmitted = true
		return true
	default:
		return true
	}
}

// RecordSuccess registers a successful call outcome.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateHalfOpen:
		b.successCount++
		b.halfOpenAdmitted = false
		if b.successCount >= b.cfg.SuccessThreshold {
			b.state = StateClosed
			b.failures = nil
		}
	case StateClosed:
		b.failures = nil
	}
}

// RecordFailure registers a failed call outcome, counting it within the
// sliding failure window.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		b.trip()
		return
	}

	now := time.Now()
	cutoff := now.Add(-b.cfg.FailureWindow)
	kept := b.failures[:0]
	for _, t := range b.failures {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	b.failures = append(kept, now)

	if len(b.failures) >= b.cfg.FailureThreshold {
		b.trip()
	}
}

func (b *Breaker) trip() {
	b.state = StateOpen
	b.openedAt = time.Now()
	b.halfOpenAdmitted = false
	b.successCount = 0
}

// Registry is process-wide mutable state keyed by service name, per
// spec.md §5's shared-resources note. Mutation of each entry is
// serialized by the entry's own Breaker mutex; the registry map itself
// is guarded separately so distinct services never contend.
type Registry struct {
	mu       sync.Mutex
	breakers map[string]*Breaker
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{breakers: make(map[string]*Breaker)}
}

// Get returns the named service's Breaker, creating one with cfg on
// first use.
func (r *Registry) Get(service string, cfg BreakerConfig) *Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.breakers[service]
	if !ok {
		b = NewBreaker(cfg)
		r.breakers[service] = b
	}
	return b
}

// Call runs op through the named service's breaker: fails fast with a
// ServiceUnavailableError when open, otherwise invokes op and records
// the outcome.
func (r *Registry) Call(ctx context.Context, service string, cfg BreakerConfig, op Operation) (any, error) {
	breaker := r.Get(service, cfg)
	if !breaker.Allow() {
		return nil, resolveerr.New(resolveerr.CodeServiceUnavailable, "circuit breaker open").
			With("service", service).WithOperation("resilience.circuitbreaker")
	}

	value, err := op(ctx)
	if err != nil {
		breaker.RecordFailure()
		return nil, err
	}
	breaker.RecordSuccess()
	return value, nil
}
