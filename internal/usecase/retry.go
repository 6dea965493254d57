package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/split-the-distance/internal/pkg/errors"
)

// RetryPolicy bounds how often an UpstreamUnavailable failure is retried.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

// withUpstreamRetry runs fn and retries it with linear backoff while it keeps
// failing with a retryable error. Other errors are returned immediately.
func withUpstreamRetry(ctx context.Context, policy RetryPolicy, logger *zap.Logger, op string, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !errors.IsRetryable(err) || attempt >= policy.MaxRetries {
			return err
		}

		wait := policy.Backoff * time.Duration(attempt+1)
		logger.Warn("Upstream call failed, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return err
		case <-time.After(wait):
		}
	}
}
