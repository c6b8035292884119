package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/8arr3tt/have-we-met/pkg/resolveerr"
)

// TestWrapper_CircuitOpensAfterThreshold mirrors spec.md scenario S6.
func TestWrapper_CircuitOpensAfterThreshold(t *testing.T) {
	wrapper := NewWrapper(NewRegistry())
	calls := 0
	alwaysFails := func(ctx context.Context) (any, error) {
		calls++
		return nil, resolveerr.New(resolveerr.CodeServiceNetwork, "network error")
	}

	cfg := Config{
		ServiceName: "carrier-lookup",
		Timeout:     50 * time.Millisecond,
		Retry:       RetryPolicy{MaxAttempts: 1, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffMultiplier: 2},
		Breaker:     BreakerConfig{FailureThreshold: 3, FailureWindow: time.Minute, ResetTimeout: 20 * time.Millisecond, SuccessThreshold: 1},
	}

	for i := 0; i < 3; i++ {
		_, err := wrapper.Call(context.Background(), cfg, alwaysFails)
		require.Error(t, err)
	}

	callsBeforeOpen := calls
	_, err := wrapper.Call(context.Background(), cfg, alwaysFails)
	require.Error(t, err)
	assert.True(t, resolveerr.Is(err, resolveerr.CodeServiceUnavailable))
	assert.Equal(t, callsBeforeOpen, calls, "breaker should fail fast without invoking the wrapped function")

	time.Sleep(25 * time.Millisecond)

	succeeds := func(ctx context.Context) (any, error) {
		return "ok", nil
	}
	result, err := wrapper.Call(context.Background(), cfg, succeeds)
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
}

func TestRetry_ValidationErrorsNotRetried(t *testing.T) {
	attempts := 0
	op := func(ctx context.Context) (any, error) {
		attempts++
		return nil, resolveerr.New(resolveerr.CodeValidation, "bad input")
	}

	_, err := WithRetry(context.Background(), RetryPolicy{MaxAttempts: 5, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffMultiplier: 2}, op)
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestTimeout_CancelsSlowOperation(t *testing.T) {
	op := func(ctx context.Context) (any, error) {
		select {
		case <-time.After(100 * time.Millisecond):
			return "too slow", nil
		case <-ctx.Done():
			return nil, errors.New("cancelled")
		}
	}

	_, err := WithTimeout(context.Background(), 10*time.Millisecond, op)
	require.Error(t, err)
	assert.True(t, resolveerr.Is(err, resolveerr.CodeServiceTimeout))
}
