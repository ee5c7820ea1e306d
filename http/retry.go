package http

import (
	"context"
	"log/slog"
	"time"
)

// DefaultRetryDelays returns the backoff delays for search retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// attemptFunc performs one request. retry reports whether a failure is
// transient and worth another attempt.
type attemptFunc func(ctx context.Context, path string) (body []byte, retry bool, err error)

// getWithRetry calls attempt until it succeeds, fails permanently, or the
// delays run out. There is one initial attempt plus one per delay.
func getWithRetry(ctx context.Context, path string, attempt attemptFunc, logger *slog.Logger, delays []time.Duration) ([]byte, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		body, retry, err := attempt(ctx, path)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !retry || i >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		logger.Info("retry directory request",
			"path", path,
			"attempt", i+2,
			"err", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[i]):
		}
	}

	return nil, lastErr
}
