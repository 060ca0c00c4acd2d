package commands

import (
	"context"

	"payment-reconciler/internal/domain/payment"
)

// IntentSpec is what the gateway needs to open an intent.
type IntentSpec struct {
	Money        payment.Money
	Reference    payment.Reference
	Metadata     payment.Metadata
	ReceiptEmail string
}

// GatewayIntent is the gateway's current view of an intent.
// Sequence orders this view against webhook events for the same intent.
type GatewayIntent struct {
	ID               string
	ClientSecret     string
	Status           payment.Status
	AmountMinorUnits int64
	Currency         string
	Sequence         int64
}

// Gateway is the payment provider capability injected into the use cases.
// Transport failures are reported as ErrGatewayUnavailable, rejected
// parameters as ErrInvalidRequest and unknown ids as ErrIntentNotFound.
type Gateway interface {
	// CreateIntent must be idempotent on spec.Reference.
	CreateIntent(ctx context.Context, spec IntentSpec) (*GatewayIntent, error)
	GetIntent(ctx context.Context, id string) (*GatewayIntent, error)
	// ParseEvent authenticates rawBody against the signature header before decoding.
	// Any signature problem yields ErrSignature; undecodable bodies ErrMalformedPayload.
	ParseEvent(rawBody []byte, signatureHeader string) (*payment.Event, error)
}

// SeenEvents is the retention window of processed webhook event ids.
type SeenEvents interface {
	// Claim records id and reports true if it had not been seen yet.
	Claim(ctx context.Context, eventID string) (bool, error)
	// Release forgets id so a failed delivery can be processed on redelivery.
	Release(ctx context.Context, eventID string) error
}
