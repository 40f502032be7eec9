package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Caller wraps a Client with per-attempt timeouts and bounded retry.
type Caller struct {
	client   Client
	attempts int
	delay    time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

// NewCaller creates a Caller. attempts must be at least 1.
func NewCaller(client Client, attempts int, delay, timeout time.Duration, logger *slog.Logger) *Caller {
	if attempts < 1 {
		attempts = 1
	}
	return &Caller{
		client:   client,
		attempts: attempts,
		delay:    delay,
		timeout:  timeout,
		logger:   logger,
	}
}

// Complete attempts the completion up to the configured number of times,
// bounding each attempt by the per-attempt timeout. The last error is
// returned if every attempt fails.
func (c *Caller) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		result, err := c.client.Complete(attemptCtx, systemPrompt, userPrompt)
		cancel()

		if err == nil {
			return result, nil
		}
		lastErr = err
		c.logger.Warn("completion attempt failed", "attempt", attempt, "error", err)

		if attempt < c.attempts {
			select {
			case <-time.After(c.delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	return "", fmt.Errorf("all %d attempts failed: %w", c.attempts, lastErr)
}
