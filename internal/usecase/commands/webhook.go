package commands

import (
	"context"
	"log/slog"

	"payment-reconciler/internal/domain/payment"
	"payment-reconciler/internal/infra"
	"payment-reconciler/internal/pkg/errs"
	"payment-reconciler/internal/usecase/shared"
)

// Ack is returned for every delivery the gateway should stop retrying.
type Ack struct {
	EventID   string
	Duplicate bool
	Ignored   bool
	Applied   bool
}

type WebhookCommands interface {
	HandleWebhook(ctx context.Context, rawBody []byte, signatureHeader string) (*Ack, error)
}

type WebhookPolicy struct {
	// HardFailUnknownIntent answers ErrIntentNotFound instead of acknowledging
	// events for intents this service never created.
	HardFailUnknownIntent bool
}

type webhookUseCaseImpl struct {
	gateway    Gateway
	seen       SeenEvents
	uow        shared.UnitOfWork
	reconciler *Reconciler
	policy     WebhookPolicy
}

func NewWebhookUseCase(uow shared.UnitOfWork, gateway Gateway, seen SeenEvents, reconciler *Reconciler, policy WebhookPolicy) WebhookCommands {
	return &webhookUseCaseImpl{
		gateway:    gateway,
		seen:       seen,
		uow:        uow,
		reconciler: reconciler,
		policy:     policy,
	}
}

func (uc *webhookUseCaseImpl) HandleWebhook(ctx context.Context, rawBody []byte, signatureHeader string) (*Ack, error) {
	event, err := uc.gateway.ParseEvent(rawBody, signatureHeader)
	if err != nil {
		if errs.Is(err, ErrSignature) {
			slog.WarnContext(ctx, "webhook rejected: signature verification failed")
		}
		return nil, err
	}

	ack := &Ack{EventID: event.ID}

	observed, ok := event.ObservedStatus()
	if !ok {
		ack.Ignored = true
		return ack, nil
	}

	fresh, err := uc.seen.Claim(ctx, event.ID)
	if err != nil {
		return nil, errs.Wrap(err, "claim webhook event")
	}
	if !fresh {
		slog.DebugContext(ctx, "duplicate webhook delivery", "event_id", event.ID, "intent_id", event.IntentID)
		ack.Duplicate = true
		return ack, nil
	}

	applied, err := uc.process(ctx, event, observed)
	if err != nil {
		// Let the gateway's redelivery run the event again.
		if rerr := uc.seen.Release(ctx, event.ID); rerr != nil {
			slog.ErrorContext(ctx, "failed to release webhook event claim", "event_id", event.ID, "error", rerr.Error())
		}
		return nil, err
	}
	ack.Applied = applied
	return ack, nil
}

func (uc *webhookUseCaseImpl) process(ctx context.Context, event *payment.Event, observed payment.Status) (bool, error) {
	current, err := uc.uow.Reads().FindByID(ctx, event.IntentID)
	if err != nil {
		if !infra.IsKind(err, infra.KindNotFound) {
			return false, err
		}
		slog.WarnContext(ctx, "webhook for unknown payment intent",
			"event_id", event.ID,
			"intent_id", event.IntentID,
			"hard_fail", uc.policy.HardFailUnknownIntent)
		if uc.policy.HardFailUnknownIntent {
			return false, errs.Mark(err, ErrIntentNotFound)
		}
		return false, nil
	}

	if !event.MatchesMoney(current.Money()) {
		slog.WarnContext(ctx, "reconciliation anomaly",
			"decision", "amount_mismatch",
			"event_id", event.ID,
			"intent_id", current.ID(),
			"stored_amount", current.Money().AmountMinorUnits(),
			"stored_currency", current.Money().Currency().String(),
			"event_amount", event.AmountMinorUnits,
			"event_currency", event.Currency,
			"source", string(payment.SourceWebhook))
		return false, nil
	}

	result, err := uc.reconciler.ReconcileFrom(ctx, current, Observation{
		IntentID: current.ID(),
		Status:   observed,
		Sequence: event.Sequence,
		Source:   payment.SourceWebhook,
	})
	if err != nil {
		return false, err
	}
	if result.Decision == payment.DecisionStaleTransition {
		return uc.reconcileFromGateway(ctx, result.Intent)
	}
	return result.Applied, nil
}

// reconcileFromGateway settles a signed transition that lost on sequence by
// applying the gateway's current view, stamped at read time.
func (uc *webhookUseCaseImpl) reconcileFromGateway(ctx context.Context, current *payment.Intent) (bool, error) {
	gi, err := uc.gateway.GetIntent(ctx, current.ID())
	if err != nil {
		return false, errs.Wrap(err, "re-read gateway intent")
	}

	result, err := uc.reconciler.ReconcileFrom(ctx, current, Observation{
		IntentID: current.ID(),
		Status:   gi.Status,
		Sequence: gi.Sequence,
		Source:   payment.SourceWebhook,
	})
	if err != nil {
		return false, err
	}
	return result.Applied, nil
}
