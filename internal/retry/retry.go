// Package retry provides a retry mechanism with exponential backoff for
// transport-level LLM failures.
package retry

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	defaultMaxAttempts  = 3
	defaultInitialDelay = 1 * time.Second
	defaultMaxDelay     = 10 * time.Second
)

// Config represents retry configuration.
type Config struct {
	MaxAttempts    int           // maximum number of attempts (default: 3)
	InitialBackoff time.Duration // initial backoff duration (default: 1s)
	MaxBackoff     time.Duration // maximum backoff duration (default: 10s)
}

// Do executes fn with retry on retryable errors. Context cancellation is
// honoured between attempts and during backoff.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = defaultInitialDelay
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultMaxDelay
	}

	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}

		if attempt == cfg.MaxAttempts-1 {
			break
		}

		backoff := calculateBackoff(attempt, cfg.InitialBackoff, cfg.MaxBackoff)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, fmt.Errorf("all %d attempts failed: %w", cfg.MaxAttempts, lastErr)
}

// IsRetryable reports whether the error looks like a transient transport
// failure worth retrying: rate limits, server errors, timeouts and
// connection problems.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"status=429",
		"status=500",
		"status=502",
		"status=503",
		"status=504",
		"timeout",
		"connection refused",
		"connection reset",
		"temporary failure",
		"eof",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}

// calculateBackoff doubles the delay each attempt, capped at max.
func calculateBackoff(attempt int, initial, max time.Duration) time.Duration {
	backoff := initial << attempt
	if backoff > max || backoff <= 0 {
		return max
	}
	return backoff
}
