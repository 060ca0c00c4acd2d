package commands

import (
	"context"
	"log/slog"

	"payment-reconciler/internal/domain/payment"
	"payment-reconciler/internal/infra"
	"payment-reconciler/internal/pkg/clock"
	"payment-reconciler/internal/pkg/errs"
	"payment-reconciler/internal/usecase/shared"
)

const DefaultReconcileAttempts = 3

type Observation struct {
	IntentID string
	Status   payment.Status
	Sequence int64
	Source   payment.Source
}

type ReconcileResult struct {
	// Intent is the authoritative record after reconciliation.
	Intent   *payment.Intent
	Decision payment.Decision
	// Applied is true only for the caller whose CAS won.
	Applied  bool
	Notified bool
}

// Reconciler is the single writer of intent status. The webhook, verify and
// sweep paths all funnel their observations through it.
type Reconciler struct {
	uow         shared.UnitOfWork
	clock       clock.Clock
	maxAttempts int
}

func NewReconciler(uow shared.UnitOfWork, clk clock.Clock, maxAttempts int) *Reconciler {
	if maxAttempts <= 0 {
		maxAttempts = DefaultReconcileAttempts
	}
	return &Reconciler{uow: uow, clock: clk, maxAttempts: maxAttempts}
}

func (r *Reconciler) Reconcile(ctx context.Context, obs Observation) (*ReconcileResult, error) {
	current, err := r.load(ctx, obs.IntentID)
	if err != nil {
		return nil, err
	}
	return r.ReconcileFrom(ctx, current, obs)
}

// ReconcileFrom starts from an already loaded record and reloads it after
// every lost CAS.
func (r *Reconciler) ReconcileFrom(ctx context.Context, current *payment.Intent, obs Observation) (*ReconcileResult, error) {
	for attempt := 1; ; attempt++ {
		decision := payment.Decide(current, obs.Status, obs.Sequence)
		if decision != payment.DecisionApply {
			if decision.IsAnomaly() {
				logAnomaly(ctx, current, obs, decision)
			}
			return &ReconcileResult{Intent: current, Decision: decision}, nil
		}

		next := current.Observe(obs.Status, obs.Sequence, r.clock.Now())
		if obs.Status == current.Status() {
			next = current.Touch(r.clock.Now())
		}
		notification, err := payment.NotificationFor(current, next)
		if err != nil {
			return nil, errs.Wrap(err, "build notification")
		}

		err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if err := tx.Intents().SwapStatus(ctx, current.LastEventSequence(), next); err != nil {
				return err
			}
			if notification == nil {
				return nil
			}
			return tx.Notifications().Enqueue(ctx, notification)
		})
		if err == nil {
			slog.InfoContext(ctx, "payment intent reconciled",
				"intent_id", next.ID(),
				"previous_status", current.Status().String(),
				"status", next.Status().String(),
				"sequence", next.LastEventSequence(),
				"source", string(obs.Source))
			return &ReconcileResult{
				Intent:   next,
				Decision: decision,
				Applied:  true,
				Notified: notification != nil,
			}, nil
		}
		if !infra.IsKind(err, infra.KindStaleSequence) {
			return nil, err
		}

		if attempt >= r.maxAttempts {
			slog.WarnContext(ctx, "reconciliation gave up after repeated CAS conflicts",
				"intent_id", obs.IntentID,
				"attempts", attempt,
				"observed_status", obs.Status.String(),
				"observed_sequence", obs.Sequence,
				"source", string(obs.Source))
			return nil, errs.Mark(err, ErrReconcileConflict)
		}

		current, err = r.load(ctx, obs.IntentID)
		if err != nil {
			return nil, err
		}
	}
}

func (r *Reconciler) load(ctx context.Context, id string) (*payment.Intent, error) {
	intent, err := r.uow.Reads().FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrIntentNotFound)
		}
		return nil, err
	}
	return intent, nil
}

func logAnomaly(ctx context.Context, current *payment.Intent, obs Observation, decision payment.Decision) {
	slog.WarnContext(ctx, "reconciliation anomaly",
		"decision", decision.String(),
		"intent_id", current.ID(),
		"current_status", current.Status().String(),
		"current_sequence", current.LastEventSequence(),
		"observed_status", obs.Status.String(),
		"observed_sequence", obs.Sequence,
		"source", string(obs.Source))
}
