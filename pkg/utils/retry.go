package utils

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Retry runs fn up to maxRetries times, stopping at the first success.
// Between attempts it waits 2s, 4s, 8s... The error of a single attempt is
// returned as is; after several attempts the last error is wrapped.
func Retry(ctx context.Context, maxRetries int, logger *zap.Logger, fn func() error) error {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == maxRetries {
			break
		}

		wait := time.Duration(1<<uint(attempt)) * time.Second
		logger.Warn("attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", maxRetries),
			zap.Duration("wait", wait),
			zap.Error(lastErr),
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted after %d attempts: %w", attempt, lastErr)
		case <-time.After(wait):
		}
	}

	if maxRetries == 1 {
		return lastErr
	}
	return fmt.Errorf("all %d attempts failed: %w", maxRetries, lastErr)
}
