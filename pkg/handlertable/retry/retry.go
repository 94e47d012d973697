// Package retry repeats table operations that failed because a slot was
// busy, with exponential backoff.
//
// Table operations never retry on their own: a register that finds its slot
// occupied, or loses a race for it, reports false immediately. Callers that
// must eventually register use this package to decide how long to keep
// trying. Do sleeps between attempts, so it belongs in service code, never in
// paths that must not block.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/randalmurphal/handlertable/pkg/handlertable"
)

// Config configures retry behavior.
type Config struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	MaxAttempts int

	// InitialBackoff is the starting backoff duration.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	MaxBackoff time.Duration

	// BackoffFactor is the multiplier applied to backoff after each attempt.
	BackoffFactor float64

	// Jitter is the random jitter factor (0.0-1.0).
	Jitter float64

	// RetryableFunc optionally overrides the default retryability check.
	RetryableFunc func(error) bool
}

// Default is the standard retry configuration.
var Default = Config{
	MaxAttempts:    5,
	InitialBackoff: 1 * time.Millisecond,
	MaxBackoff:     100 * time.Millisecond,
	BackoffFactor:  2.0,
	Jitter:         0.1,
}

// Aggressive retries more often with shorter pauses, for slots expected to
// be released quickly.
var Aggressive = Config{
	MaxAttempts:    20,
	InitialBackoff: 50 * time.Microsecond,
	MaxBackoff:     10 * time.Millisecond,
	BackoffFactor:  1.5,
	Jitter:         0.2,
}

// None disables retries.
var None = Config{
	MaxAttempts: 1,
}

// Result describes the outcome of Do.
type Result struct {
	// Err is the final error, nil on success.
	Err error

	// Attempts is the number of attempts made.
	Attempts int

	// Duration is the total time spent, including backoff.
	Duration time.Duration
}

// Retryable is the default retryability check: only an occupied slot is
// worth another attempt. Out-of-range indices and nil handlers never
// succeed on retry.
func Retryable(err error) bool {
	return errors.Is(err, handlertable.ErrSlotOccupied)
}

// Do calls fn until it succeeds, returns a non-retryable error, the attempts
// are exhausted, or ctx is done.
func Do(ctx context.Context, cfg Config, fn func(context.Context) error) Result {
	start := time.Now()
	backoff := cfg.InitialBackoff
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	isRetryable := cfg.RetryableFunc
	if isRetryable == nil {
		isRetryable = Retryable
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Result{Err: err, Attempts: attempt, Duration: time.Since(start)}
		}

		err := fn(ctx)
		if err == nil {
			return Result{Attempts: attempt + 1, Duration: time.Since(start)}
		}
		lastErr = err

		if !isRetryable(err) {
			return Result{Err: err, Attempts: attempt + 1, Duration: time.Since(start)}
		}

		// No sleep after the last attempt.
		if attempt < maxAttempts-1 {
			timer := time.NewTimer(calculateBackoff(backoff, cfg.Jitter))
			select {
			case <-ctx.Done():
				timer.Stop()
				return Result{Err: ctx.Err(), Attempts: attempt + 1, Duration: time.Since(start)}
			case <-timer.C:
			}

			backoff = time.Duration(float64(backoff) * cfg.BackoffFactor)
			if cfg.MaxBackoff > 0 && backoff > cfg.MaxBackoff {
				backoff = cfg.MaxBackoff
			}
		}
	}

	return Result{
		Err:      &ExhaustedError{Attempts: maxAttempts, Err: lastErr},
		Attempts: maxAttempts,
		Duration: time.Since(start),
	}
}

// calculateBackoff returns the backoff duration with jitter applied.
func calculateBackoff(base time.Duration, jitter float64) time.Duration {
	if jitter <= 0 || base <= 0 {
		return base
	}
	// base +/- (base * jitter * random)
	jitterAmount := float64(base) * jitter * (rand.Float64()*2 - 1)
	return time.Duration(float64(base) + jitterAmount)
}

// ExhaustedError reports that every attempt failed with a retryable error.
type ExhaustedError struct {
	// Attempts is the number of attempts made.
	Attempts int
	// Err is the error from the last attempt.
	Err error
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the last attempt's error for errors.Is/As support.
func (e *ExhaustedError) Unwrap() error {
	return e.Err
}
