package worker

import (
	"context"
	"log/slog"

	"payment-reconciler/internal/usecase/commands"
)

type sweeper interface {
	SweepOnce(ctx context.Context) (commands.SweepReport, error)
}

// SweepTick adapts a sweeper to Loop and logs non-empty passes.
func SweepTick(s sweeper) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		report, err := s.SweepOnce(ctx)
		if err != nil {
			return err
		}
		if report.Scanned > 0 {
			slog.Info("reconciliation sweep finished",
				"scanned", report.Scanned,
				"applied", report.Applied,
				"failed", report.Failed)
		}
		return nil
	}
}
