package resilience

import (
	"context"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RetryConfig controls WithRetry. MaxRetries is the total number of attempts,
// not the number of re-tries after the first failure.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   5 * time.Second,
	}
}

var retryablePatterns = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"timed out",
	"temporary failure",
	"unavailable",
	"resource exhausted",
	"aborted",
	"internal error",
	"too many requests",
	"eof",
}

// IsRetryable reports whether err belongs to the transient infrastructure
// class. Anything else (validation, permission, integrity) must surface
// immediately.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range retryablePatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// CalculateBackoff returns the delay to wait after a failed attempt,
// counted from 1: min(2^attempt * base, max).
func CalculateBackoff(attempt int, cfg RetryConfig) time.Duration {
	delay := time.Duration(math.Pow(2, float64(attempt))) * cfg.BaseDelay
	if delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return delay
}

// WithRetry runs operation up to cfg.MaxRetries times, sleeping the
// exponential backoff between attempts. Non-retryable errors propagate on
// the spot; the final attempt's error propagates even when retryable.
func WithRetry(ctx context.Context, logger *zap.Logger, name string, cfg RetryConfig, operation func(ctx context.Context) error) error {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxRetries; attempt++ {
		lastErr = operation(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			if logger != nil {
				logger.Warn("⚠️ operation failed with non-retryable error",
					zap.String("operation", name),
					zap.Int("attempt", attempt),
					zap.Error(lastErr))
			}
			return lastErr
		}
		if attempt == cfg.MaxRetries {
			break
		}

		delay := CalculateBackoff(attempt, cfg)
		if logger != nil {
			logger.Warn("🔄 retrying operation",
				zap.String("operation", name),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr))
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if logger != nil {
		logger.Error("❌ operation failed after all retries",
			zap.String("operation", name),
			zap.Int("attempts", cfg.MaxRetries),
			zap.Error(lastErr))
	}
	return lastErr
}
