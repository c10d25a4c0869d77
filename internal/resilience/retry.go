// Package resilience provides retry with backoff and error classification for
// renderer and store calls.
package resilience

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RetryConfig controls retry behavior. Attempts are spaced a fixed Backoff
// apart.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts (including the first try).
	// A value of 1 means no retries. Default: 5.
	MaxAttempts int

	// Backoff is the delay before every retry. Default: 5s.
	Backoff time.Duration

	// ShouldRetry optionally overrides the default check. If nil, every error
	// except a PermanentError is retried.
	ShouldRetry func(err error) bool

	// OnRetry is called before each retry sleep with attempt number and error.
	OnRetry func(attempt int, err error)

	// Sleep waits between attempts. If nil, a timer honoring ctx is used.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryConfig returns five attempts spaced five seconds apart.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 5,
		Backoff:     5 * time.Second,
	}
}

// Do executes fn with retry logic according to cfg. The attempt counter lives
// in this call only, so independent calls never share a budget. Context
// cancellation stops retries immediately.
func Do(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	_, err := DoVal(ctx, cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoVal executes fn returning a value with retry logic. Same semantics as Do
// but preserves the return value from the successful call.
func DoVal[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	v, _, err := DoCounted(ctx, cfg, fn)
	return v, err
}

// DoCounted is DoVal that also returns how many attempts were made.
func DoCounted[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, int, error) {
	cfg = applyDefaults(cfg)

	shouldRetry := cfg.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = func(err error) bool { return !IsPermanent(err) }
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = timerSleep
	}

	var zero T
	var lastErr error
	attempt := 0
	for attempt < cfg.MaxAttempts {
		val, err := fn(ctx)
		attempt++
		if err == nil {
			return val, attempt, nil
		}
		lastErr = err

		// Don't retry on context cancellation.
		if ctx.Err() != nil {
			return zero, attempt, lastErr
		}

		if !shouldRetry(lastErr) {
			return zero, attempt, lastErr
		}

		// Don't sleep after the last attempt.
		if attempt >= cfg.MaxAttempts {
			break
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, lastErr)
		}

		if err := sleep(ctx, cfg.Backoff); err != nil {
			return zero, attempt, lastErr
		}
	}

	return zero, attempt, lastErr
}

func timerSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func applyDefaults(cfg RetryConfig) RetryConfig {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 5 * time.Second
	}
	return cfg
}

// RetryLogger returns an OnRetry callback that logs each failed attempt with
// the remaining budget.
func RetryLogger(log *zap.Logger, maxAttempts int) func(int, error) {
	return func(attempt int, err error) {
		log.Warn("attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("remaining", maxAttempts-attempt),
			zap.String("error_class", ClassifyError(err)),
			zap.Error(err),
		)
	}
}
