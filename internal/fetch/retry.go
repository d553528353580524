package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RetryConfig configures exponential backoff retry behavior.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration // default 1s
	// ShouldRetry decides whether err is worth another attempt.
	// Defaults to Retryable.
	ShouldRetry func(err error) bool
	OnRetry     func(attempt int, delay time.Duration, err error)
}

// RetryWithBackoff retries fn with exponential backoff.
// Delays: BaseDelay, BaseDelay*2, BaseDelay*4, ...
// Errors rejected by ShouldRetry are returned immediately.
func RetryWithBackoff(ctx context.Context, cfg RetryConfig, fn func() error) error {
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.ShouldRetry == nil {
		cfg.ShouldRetry = Retryable
	}

	delay := cfg.BaseDelay
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !cfg.ShouldRetry(err) {
			return err
		}
		if attempt >= cfg.MaxRetries {
			if cfg.MaxRetries == 0 {
				return err
			}
			return fmt.Errorf("max retries (%d) exceeded: %w", cfg.MaxRetries, err)
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, delay, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// Retryable reports whether err is a transient failure: a transport error,
// a 5xx response or 429. Everything else is final.
func Retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var status *StatusError
	if errors.As(err, &status) {
		return status.Code >= 500 || status.Code == 429
	}
	var req *RequestError
	return errors.As(err, &req)
}
