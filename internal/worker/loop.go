// Package worker runs the background jobs of the service: the reconciliation
// sweep and the notification outbox dispatcher.
package worker

import (
	"context"
	"log/slog"
	"time"
)

// Loop calls tick every interval until ctx is canceled. A failing tick is
// logged and the loop carries on with the next one.
func Loop(ctx context.Context, name string, interval time.Duration, tick func(ctx context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("worker started", "worker", name, "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped", "worker", name)
			return
		case <-ticker.C:
			if err := tick(ctx); err != nil && ctx.Err() == nil {
				slog.Error("worker tick failed", "worker", name, "error", err.Error())
			}
		}
	}
}
