package commands

import (
	"context"
	"log/slog"
	"strings"

	"payment-reconciler/internal/domain/payment"
	"payment-reconciler/internal/infra"
	"payment-reconciler/internal/pkg/clock"
	"payment-reconciler/internal/pkg/errs"
	"payment-reconciler/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateIntentParams struct {
	AmountMinorUnits int64
	Currency         string
	// Reference is generated when empty.
	Reference string
	PlanID    string
	PlanName  string
	Period    string
	UserEmail string
	OwnerID   uuid.UUID
}

type IntentHandle struct {
	IntentID         string
	ClientSecret     string
	Reference        string
	Status           payment.Status
	AmountMinorUnits int64
	Currency         string
	// IsReplayed marks a handle returned for a reference that already had an intent.
	IsReplayed bool
}

type VerifyIntentParams struct {
	IntentID       string
	ExpectedAmount int64
	OwnerID        uuid.UUID
}

// PaymentOutcome is what the checkout caller sees: public status plus a retry hint.
type PaymentOutcome struct {
	IntentID         string
	Status           payment.Status
	AmountMinorUnits int64
	Currency         string
	AmountMismatch   bool
	Retryable        bool
}

type IntentCommands interface {
	CreateIntent(ctx context.Context, params CreateIntentParams) (*IntentHandle, error)
	VerifyIntent(ctx context.Context, params VerifyIntentParams) (*PaymentOutcome, error)
}

type IntentPolicy struct {
	FailOnOverpayment bool
}

type intentUseCaseImpl struct {
	uow        shared.UnitOfWork
	gateway    Gateway
	reconciler *Reconciler
	clock      clock.Clock
	policy     IntentPolicy
}

func NewIntentUseCase(uow shared.UnitOfWork, gateway Gateway, reconciler *Reconciler, clk clock.Clock, policy IntentPolicy) IntentCommands {
	return &intentUseCaseImpl{
		uow:        uow,
		gateway:    gateway,
		reconciler: reconciler,
		clock:      clk,
		policy:     policy,
	}
}

func (uc *intentUseCaseImpl) CreateIntent(ctx context.Context, params CreateIntentParams) (*IntentHandle, error) {
	money, err := payment.NewMoney(params.AmountMinorUnits, params.Currency)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidRequest)
	}

	var ref payment.Reference
	if strings.TrimSpace(params.Reference) == "" {
		ref = payment.GenerateReference(uc.clock.Now())
	} else if ref, err = payment.NewReference(params.Reference); err != nil {
		return nil, errs.Mark(err, ErrInvalidRequest)
	}

	md, err := payment.NewPlanMetadata(params.PlanID, params.PlanName, payment.Period(params.Period), params.OwnerID)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidRequest)
	}

	existing, err := uc.uow.Reads().FindByReference(ctx, ref)
	switch {
	case err == nil:
		return uc.replay(ctx, existing, money, params.OwnerID)
	case !infra.IsKind(err, infra.KindNotFound):
		return nil, err
	}

	gi, err := uc.gateway.CreateIntent(ctx, IntentSpec{
		Money:        money,
		Reference:    ref,
		Metadata:     md,
		ReceiptEmail: params.UserEmail,
	})
	if err != nil {
		return nil, err
	}

	intent, err := payment.NewIntent(gi.ID, ref, money, md, params.OwnerID, uc.clock.Now())
	if err != nil {
		return nil, errs.Wrap(err, "gateway returned an unusable intent")
	}

	var inserted bool
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var ierr error
		inserted, ierr = tx.Intents().InsertIfAbsent(ctx, intent)
		return ierr
	})
	if err != nil {
		return nil, err
	}

	if !inserted {
		// A concurrent request with the same reference stored first.
		stored, err := uc.uow.Reads().FindByReference(ctx, ref)
		if err != nil {
			return nil, err
		}
		if stored.ID() == gi.ID {
			return handleFor(stored, gi.ClientSecret, true), nil
		}
		return uc.replay(ctx, stored, money, params.OwnerID)
	}

	slog.InfoContext(ctx, "payment intent created",
		"intent_id", intent.ID(),
		"reference", ref.String(),
		"amount_minor_units", money.AmountMinorUnits(),
		"currency", money.Currency().String())

	return handleFor(intent, gi.ClientSecret, false), nil
}

func (uc *intentUseCaseImpl) replay(ctx context.Context, existing *payment.Intent, money payment.Money, ownerID uuid.UUID) (*IntentHandle, error) {
	if !existing.Money().Equal(money) || !existing.IsOwnedBy(ownerID) {
		return nil, errs.Wrap(ErrInvalidRequest, "reference already used for a different payment")
	}

	gi, err := uc.gateway.GetIntent(ctx, existing.ID())
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "payment intent creation replayed",
		"intent_id", existing.ID(),
		"reference", existing.Reference().String())

	return handleFor(existing, gi.ClientSecret, true), nil
}

func handleFor(intent *payment.Intent, clientSecret string, replayed bool) *IntentHandle {
	return &IntentHandle{
		IntentID:         intent.ID(),
		ClientSecret:     clientSecret,
		Reference:        intent.Reference().String(),
		Status:           intent.Status(),
		AmountMinorUnits: intent.Money().AmountMinorUnits(),
		Currency:         intent.Money().Currency().String(),
		IsReplayed:       replayed,
	}
}

func (uc *intentUseCaseImpl) VerifyIntent(ctx context.Context, params VerifyIntentParams) (*PaymentOutcome, error) {
	if params.IntentID == "" || params.ExpectedAmount <= 0 {
		return nil, ErrInvalidRequest
	}

	local, err := uc.uow.Reads().FindByID(ctx, params.IntentID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrIntentNotFound)
		}
		return nil, err
	}
	// Other callers' intents are indistinguishable from missing ones.
	if !local.IsOwnedBy(params.OwnerID) {
		return nil, ErrIntentNotFound
	}

	gi, err := uc.gateway.GetIntent(ctx, params.IntentID)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(gi.Currency, local.Money().Currency().String()) {
		slog.WarnContext(ctx, "gateway currency differs from stored intent",
			"intent_id", local.ID(),
			"stored_currency", local.Money().Currency().String(),
			"gateway_currency", gi.Currency)
		return nil, ErrCurrencyMismatch
	}

	mismatch := gi.AmountMinorUnits != params.ExpectedAmount
	if mismatch {
		slog.WarnContext(ctx, "verified amount differs from expected amount",
			"intent_id", local.ID(),
			"expected_amount", params.ExpectedAmount,
			"gateway_amount", gi.AmountMinorUnits)
		if gi.AmountMinorUnits > params.ExpectedAmount && uc.policy.FailOnOverpayment {
			return nil, ErrAmountExceedsExpected
		}
	}

	result, err := uc.reconciler.ReconcileFrom(ctx, local, Observation{
		IntentID: local.ID(),
		Status:   gi.Status,
		Sequence: gi.Sequence,
		Source:   payment.SourceVerify,
	})
	if err != nil {
		return nil, err
	}

	status := result.Intent.Status().Public()
	return &PaymentOutcome{
		IntentID:         result.Intent.ID(),
		Status:           status,
		AmountMinorUnits: gi.AmountMinorUnits,
		Currency:         result.Intent.Money().Currency().String(),
		AmountMismatch:   mismatch,
		Retryable:        status == payment.StatusPending,
	}, nil
}
