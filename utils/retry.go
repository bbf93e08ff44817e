package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Retry holds the parameters for the exponential back-off strategy.
// ShouldRetry, when set, lets callers stop early for errors a plain
// retry cannot fix (parse failures, hard rate limits).
type Retry struct {
	MaxAttempts int
	BaseDelay   time.Duration
	ShouldRetry func(error) bool
	Logger      zerolog.Logger
}

// Do executes fn with exponential back-off until it succeeds, attempts run
// out, the error is declared non-retryable, or ctx is cancelled.
func (r *Retry) Do(ctx context.Context, operation string, fn func() error) error {
	var lastErr error
	delay := r.BaseDelay

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if r.ShouldRetry != nil && !r.ShouldRetry(lastErr) {
			return lastErr
		}
		if attempt == r.MaxAttempts {
			break
		}

		r.Logger.Warn().
			Str("operation", operation).
			Int("attempt", attempt).
			Int("max", r.MaxAttempts).
			Dur("delay", delay).
			Err(lastErr).
			Msg("Retrying")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, r.MaxAttempts, lastErr)
}
