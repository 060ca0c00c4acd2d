package commands

import (
	"context"
	"log/slog"
	"time"

	"payment-reconciler/internal/domain/payment"
	"payment-reconciler/internal/pkg/clock"
	"payment-reconciler/internal/usecase/shared"
)

type SweepReport struct {
	Scanned int
	Applied int
	Failed  int
}

type SweepPolicy struct {
	StaleAfter time.Duration
	BatchSize  int
}

// Sweeper re-reads gateway state for intents that neither webhook nor verify
// has settled, covering lost webhook deliveries.
type Sweeper struct {
	uow        shared.UnitOfWork
	gateway    Gateway
	reconciler *Reconciler
	clock      clock.Clock
	policy     SweepPolicy
}

func NewSweeper(uow shared.UnitOfWork, gateway Gateway, reconciler *Reconciler, clk clock.Clock, policy SweepPolicy) *Sweeper {
	if policy.BatchSize <= 0 {
		policy.BatchSize = 50
	}
	return &Sweeper{uow: uow, gateway: gateway, reconciler: reconciler, clock: clk, policy: policy}
}

func (s *Sweeper) SweepOnce(ctx context.Context) (SweepReport, error) {
	var report SweepReport

	stale, err := s.uow.Reads().ListStale(ctx,
		[]payment.Status{payment.StatusCreated, payment.StatusPending},
		s.clock.Now().Add(-s.policy.StaleAfter),
		s.policy.BatchSize)
	if err != nil {
		return report, err
	}

	for _, intent := range stale {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		report.Scanned++

		gi, err := s.gateway.GetIntent(ctx, intent.ID())
		if err != nil {
			report.Failed++
			slog.WarnContext(ctx, "sweep could not read gateway intent", "intent_id", intent.ID(), "error", err.Error())
			continue
		}

		result, err := s.reconciler.ReconcileFrom(ctx, intent, Observation{
			IntentID: intent.ID(),
			Status:   gi.Status,
			Sequence: gi.Sequence,
			Source:   payment.SourceSweep,
		})
		if err != nil {
			report.Failed++
			slog.WarnContext(ctx, "sweep reconciliation failed", "intent_id", intent.ID(), "error", err.Error())
			continue
		}
		if result.Applied {
			report.Applied++
		}
	}

	if report.Scanned > 0 {
		slog.InfoContext(ctx, "reconciliation sweep finished",
			"scanned", report.Scanned,
			"applied", report.Applied,
			"failed", report.Failed)
	}
	return report, nil
}
