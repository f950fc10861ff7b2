package retry

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/shell-ai/internal/domain"
)

func fastPolicy() Policy {
	return Policy{MaxAttempts: 5, BaseDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond}
}

func serverError() error {
	return &domain.ProviderError{Kind: domain.ServerError, Provider: domain.ProviderOpenAI, StatusCode: 503}
}

func TestCallSucceedsAfterTransientFailures(t *testing.T) {
	var calls int32
	got, err := Call(context.Background(), fastPolicy(), func(context.Context) (string, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return "", serverError()
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.EqualValues(t, 3, calls)
}

func TestCallStopsAtAttemptCap(t *testing.T) {
	var calls int32
	_, err := Call(context.Background(), fastPolicy(), func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, serverError()
	})

	var exhausted *domain.RetryExhaustedError
	require.True(t, errors.As(err, &exhausted), "got %v", err)
	assert.Equal(t, 5, exhausted.Attempts)
	assert.EqualValues(t, 5, calls)
	assert.True(t, domain.IsRetryable(exhausted.Last))
}

func TestCallDoesNotRetryFatalErrors(t *testing.T) {
	fatal := []domain.ProviderErrorKind{domain.AuthError, domain.SchemaViolation, domain.RequestRejected}
	for _, kind := range fatal {
		t.Run(kind.String(), func(t *testing.T) {
			var calls int32
			want := &domain.ProviderError{Kind: kind}
			_, err := Call(context.Background(), fastPolicy(), func(context.Context) (int, error) {
				atomic.AddInt32(&calls, 1)
				return 0, want
			})
			assert.Same(t, want, err)
			assert.EqualValues(t, 1, calls)
		})
	}
}

func TestCallDelaysGrowAndAreCapped(t *testing.T) {
	var delays []time.Duration
	p := fastPolicy()
	p.OnRetry = func(_ int, d time.Duration, _ error) { delays = append(delays, d) }

	_, err := Call(context.Background(), p, func(context.Context) (int, error) {
		return 0, serverError()
	})
	require.Error(t, err)

	assert.Equal(t, []time.Duration{
		time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond, 4 * time.Millisecond,
	}, delays)
}

func TestCallJitteredDelaysStayWithinMax(t *testing.T) {
	p := fastPolicy()
	p.MaxAttempts = 8
	p.Jitter = 0.5
	p.OnRetry = func(_ int, d time.Duration, _ error) {
		assert.LessOrEqual(t, d, p.MaxDelay)
		assert.Greater(t, d, time.Duration(0))
	}

	_, err := Call(context.Background(), p, func(context.Context) (int, error) {
		return 0, serverError()
	})
	require.Error(t, err)
}

func TestCallHonorsRetryAfterWithinMax(t *testing.T) {
	var delays []time.Duration
	p := fastPolicy()
	p.MaxAttempts = 3
	p.OnRetry = func(_ int, d time.Duration, _ error) { delays = append(delays, d) }

	retryAfter := []time.Duration{3 * time.Millisecond, time.Hour}
	var calls int32
	_, _ = Call(context.Background(), p, func(context.Context) (int, error) {
		n := atomic.AddInt32(&calls, 1)
		return 0, &domain.ProviderError{Kind: domain.RateLimited, RetryAfter: retryAfter[(n-1)%2]}
	})

	assert.Equal(t, []time.Duration{3 * time.Millisecond, 4 * time.Millisecond}, delays)
}

func TestCallCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{MaxAttempts: 3, BaseDelay: time.Hour, MaxDelay: time.Hour}
	p.OnRetry = func(int, time.Duration, error) { cancel() }

	start := time.Now()
	_, err := Call(ctx, p, func(context.Context) (int, error) {
		return 0, serverError()
	})

	assert.ErrorIs(t, err, domain.ErrCancelled)
	assert.Less(t, time.Since(start), time.Minute)
}

func TestCallCancelledDuringAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	_, err := Call(ctx, fastPolicy(), func(attemptCtx context.Context) (int, error) {
		cancel()
		<-attemptCtx.Done()
		return 0, attemptCtx.Err()
	})
	assert.ErrorIs(t, err, domain.ErrCancelled)
}

func TestCallAttemptTimeoutIsRetried(t *testing.T) {
	p := fastPolicy()
	p.MaxAttempts = 2
	p.AttemptTimeout = 5 * time.Millisecond

	var calls int32
	_, err := Call(context.Background(), p, func(attemptCtx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-attemptCtx.Done()
		return 0, attemptCtx.Err()
	})

	var exhausted *domain.RetryExhaustedError
	require.True(t, errors.As(err, &exhausted), "got %v", err)
	assert.EqualValues(t, 2, calls)
}

func TestPolicyFromConfig(t *testing.T) {
	cfg := domain.NewConfiguration(nil, map[string]domain.ResolvedValue{
		domain.KeyRetryMaxAttempts: {Value: 2},
		domain.KeyRetryBaseDelay:   {Value: 250},
		domain.KeyRetryMaxDelay:    {Value: 1000},
		domain.KeyRetryJitter:      {Value: 0.0},
	}, domain.Derived{}, nil)

	p := PolicyFromConfig(cfg)
	assert.Equal(t, 2, p.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, p.BaseDelay)
	assert.Equal(t, time.Second, p.MaxDelay)
	assert.Equal(t, 0.0, p.Jitter)
	assert.Equal(t, domain.DefaultAttemptTimeout, p.AttemptTimeout)
}
