package enrich

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// MaxRetries bounds attempts for a single enrichment call.
const MaxRetries = 3

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// completeWithRetry wraps Complete with jittered backoff on retryable errors.
func (c *Client) completeWithRetry(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	var lastErr error
	for attempt := range MaxRetries {
		reply, err := c.Complete(ctx, system, prompt, maxTokens)
		if err == nil || !IsRetryable(err) {
			return reply, err
		}
		lastErr = err
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", lastErr
}
