package gateway

import (
	"encoding/json"
	"strings"
	"time"

	"payment-reconciler/internal/domain/payment"
	"payment-reconciler/internal/pkg/errs"
	"payment-reconciler/internal/usecase/commands"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
)

// SignatureVerifier authenticates webhook bodies with the endpoint secret.
type SignatureVerifier struct {
	secret    string
	tolerance time.Duration
}

func NewSignatureVerifier(secret string, tolerance time.Duration) *SignatureVerifier {
	return &SignatureVerifier{secret: secret, tolerance: tolerance}
}

// Verify hides which check failed so the caller cannot probe the secret.
func (v *SignatureVerifier) Verify(rawBody []byte, header string) error {
	if strings.TrimSpace(header) == "" {
		return commands.ErrSignature
	}
	if err := webhook.ValidatePayloadWithTolerance(rawBody, header, v.secret, v.tolerance); err != nil {
		return commands.ErrSignature
	}
	return nil
}

// Sign produces a header the verifier accepts. Used by the sandbox driver and tests.
func (v *SignatureVerifier) Sign(rawBody []byte, at time.Time) string {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   rawBody,
		Secret:    v.secret,
		Timestamp: at,
	})
	return signed.Header
}

// ParseEvent verifies then decodes a payment_intent webhook.
func (v *SignatureVerifier) ParseEvent(rawBody []byte, header string) (*payment.Event, error) {
	if err := v.Verify(rawBody, header); err != nil {
		return nil, err
	}
	return decodeEvent(rawBody)
}

func decodeEvent(rawBody []byte) (*payment.Event, error) {
	var evt stripe.Event
	if err := json.Unmarshal(rawBody, &evt); err != nil {
		return nil, errs.Mark(errs.Wrap(err, "decode webhook event"), commands.ErrMalformedPayload)
	}
	if evt.ID == "" {
		return nil, errs.Mark(errs.New("webhook event has no id"), commands.ErrMalformedPayload)
	}

	eventType := eventTypeOf(evt.Type)
	out := &payment.Event{
		ID:         evt.ID,
		Type:       eventType,
		OccurredAt: time.Unix(evt.Created, 0).UTC(),
	}
	if eventType == payment.EventOther {
		return out, nil
	}

	if evt.Data == nil || len(evt.Data.Raw) == 0 {
		return nil, errs.Mark(errs.New("webhook event has no data object"), commands.ErrMalformedPayload)
	}
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(evt.Data.Raw, &pi); err != nil {
		return nil, errs.Mark(errs.Wrap(err, "decode payment intent"), commands.ErrMalformedPayload)
	}
	if pi.ID == "" {
		return nil, errs.Mark(errs.New("payment intent has no id"), commands.ErrMalformedPayload)
	}

	status, _ := out.ObservedStatus()
	out.IntentID = pi.ID
	out.AmountMinorUnits = pi.Amount
	out.Currency = strings.ToUpper(string(pi.Currency))
	out.Sequence = payment.SequenceAt(evt.Created, status)
	return out, nil
}

func eventTypeOf(t stripe.EventType) payment.EventType {
	switch t {
	case stripe.EventTypePaymentIntentSucceeded:
		return payment.EventSucceeded
	case stripe.EventTypePaymentIntentPaymentFailed:
		return payment.EventFailed
	case stripe.EventTypePaymentIntentProcessing:
		return payment.EventProcessing
	case stripe.EventTypePaymentIntentCanceled:
		return payment.EventCanceled
	default:
		return payment.EventOther
	}
}
