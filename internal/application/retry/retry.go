package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/doeshing/shell-ai/internal/domain"
)

// Call runs fn until it succeeds, fails with a non-transient error, or the
// attempt cap is reached. Each attempt gets its own timeout. Cancellation
// of ctx, during an attempt or a wait, yields domain.ErrCancelled.
func Call[T any](ctx context.Context, p Policy, fn func(context.Context) (T, error)) (T, error) {
	p = p.normalized()
	delays := newDelays(p)

	var zero T
	for attempt := 1; ; attempt++ {
		result, err := runAttempt(ctx, p.AttemptTimeout, fn)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return zero, domain.ErrCancelled
		}
		if !domain.IsRetryable(err) {
			return zero, err
		}
		if attempt >= p.MaxAttempts {
			return zero, &domain.RetryExhaustedError{Attempts: attempt, Last: err}
		}

		delay := delays.next(err)
		if p.OnRetry != nil {
			p.OnRetry(attempt, delay, err)
		}
		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
	}
}

func runAttempt[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	result, err := fn(attemptCtx)
	if err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		// The attempt, not the caller, timed out.
		var pe *domain.ProviderError
		if !errors.As(err, &pe) {
			err = &domain.ProviderError{Kind: domain.NetworkError, Message: "request timed out", Err: err}
		}
	}
	return result, err
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return domain.ErrCancelled
	case <-timer.C:
		return nil
	}
}

// delays is the per-call backoff state.
type delays struct {
	b   *backoff.ExponentialBackOff
	max time.Duration
}

func newDelays(p Policy) *delays {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.RandomizationFactor = p.Jitter
	b.Multiplier = 2
	b.MaxInterval = p.MaxDelay
	b.Reset()
	return &delays{b: b, max: p.MaxDelay}
}

// next returns the wait before the following attempt. A server supplied
// Retry-After replaces the computed delay; both are capped at max.
func (d *delays) next(err error) time.Duration {
	delay := d.b.NextBackOff()
	var pe *domain.ProviderError
	if errors.As(err, &pe) && pe.RetryAfter > 0 {
		delay = pe.RetryAfter
	}
	if delay > d.max {
		delay = d.max
	}
	if delay < 0 {
		delay = 0
	}
	return delay
}
