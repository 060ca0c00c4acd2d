package gateway

import (
	"context"
	"log/slog"
	"time"

	"payment-reconciler/internal/pkg/errs"
	"payment-reconciler/internal/usecase/commands"

	"github.com/cenkalti/backoff/v4"
)

// withRetry repeats op while it fails with ErrGatewayUnavailable.
// Any other failure is returned after the first attempt.
func withRetry[T any](ctx context.Context, maxRetries uint64, name string, op func() (T, error)) (T, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxInterval = 2 * time.Second
	policy.Reset()

	var out T
	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		res, err := op()
		if err != nil {
			if errs.Is(err, commands.ErrGatewayUnavailable) {
				return err
			}
			return backoff.Permanent(err)
		}
		out = res
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(policy, maxRetries), ctx), func(err error, wait time.Duration) {
		slog.WarnContext(ctx, "retrying gateway call",
			"operation", name,
			"attempt", attempt,
			"wait_ms", wait.Milliseconds(),
			"error", err.Error())
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
