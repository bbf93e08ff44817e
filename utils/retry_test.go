package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	r := &Retry{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: zerolog.Nop()}

	calls := 0
	err := r.Do(context.Background(), "flaky", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	fatal := errors.New("bad input")
	r := &Retry{
		MaxAttempts: 5,
		BaseDelay:   time.Millisecond,
		ShouldRetry: func(err error) bool { return !errors.Is(err, fatal) },
		Logger:      zerolog.Nop(),
	}

	calls := 0
	err := r.Do(context.Background(), "doomed", func() error {
		calls++
		return fatal
	})
	if !errors.Is(err, fatal) {
		t.Fatalf("expected the original error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls: got %d, want 1 (no retries for non-retryable errors)", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	r := &Retry{MaxAttempts: 2, BaseDelay: time.Millisecond, Logger: zerolog.Nop()}

	calls := 0
	err := r.Do(context.Background(), "always-fails", func() error {
		calls++
		return errors.New("nope")
	})
	if err == nil {
		t.Fatal("expected an error after exhausting attempts")
	}
	if calls != 2 {
		t.Errorf("calls: got %d, want 2", calls)
	}
}
