package gateway

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"payment-reconciler/internal/domain/payment"
	"payment-reconciler/internal/pkg/clock"
	"payment-reconciler/internal/pkg/errs"
	"payment-reconciler/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
)

// SandboxGateway is an in-process stand-in for Stripe used in development and e2e runs.
// Webhook bodies it emits are Stripe-shaped and signed with the configured secret.
type SandboxGateway struct {
	mu          sync.Mutex
	intents     map[string]*sandboxIntent
	byReference map[string]string
	verifier    *SignatureVerifier
	clock       clock.Clock
}

type sandboxIntent struct {
	id           string
	clientSecret string
	amount       int64
	currency     string
	status       payment.Status
}

func NewSandboxGateway(verifier *SignatureVerifier, clk clock.Clock) *SandboxGateway {
	return &SandboxGateway{
		intents:     make(map[string]*sandboxIntent),
		byReference: make(map[string]string),
		verifier:    verifier,
		clock:       clk,
	}
}

func (g *SandboxGateway) CreateIntent(ctx context.Context, spec commands.IntentSpec) (*commands.GatewayIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id, ok := g.byReference[spec.Reference.String()]; ok {
		return g.view(g.intents[id]), nil
	}

	id := "pi_sbx_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
	in := &sandboxIntent{
		id:           id,
		clientSecret: id + "_secret_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		amount:       spec.Money.AmountMinorUnits(),
		currency:     spec.Money.Currency().String(),
		status:       payment.StatusCreated,
	}
	g.intents[id] = in
	g.byReference[spec.Reference.String()] = id
	return g.view(in), nil
}

func (g *SandboxGateway) GetIntent(ctx context.Context, id string) (*commands.GatewayIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	in, ok := g.intents[id]
	if !ok {
		return nil, errs.Mark(errs.New("no such payment intent: "+id), commands.ErrIntentNotFound)
	}
	return g.view(in), nil
}

func (g *SandboxGateway) ParseEvent(rawBody []byte, signatureHeader string) (*payment.Event, error) {
	return g.verifier.ParseEvent(rawBody, signatureHeader)
}

// Settle moves a sandbox intent as if the payer finished (or abandoned) checkout
// and returns the signed webhook the real gateway would deliver.
func (g *SandboxGateway) Settle(id string, status payment.Status) (body []byte, header string, err error) {
	g.mu.Lock()
	in, ok := g.intents[id]
	if !ok {
		g.mu.Unlock()
		return nil, "", errs.Mark(errs.New("no such payment intent: "+id), commands.ErrIntentNotFound)
	}
	in.status = status
	snapshot := *in
	g.mu.Unlock()

	now := g.clock.Now()
	body, err = json.Marshal(map[string]any{
		"id":      "evt_sbx_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24],
		"object":  "event",
		"type":    eventTypeFor(status),
		"created": now.Unix(),
		"data": map[string]any{
			"object": map[string]any{
				"id":       snapshot.id,
				"object":   "payment_intent",
				"amount":   snapshot.amount,
				"currency": strings.ToLower(snapshot.currency),
				"status":   stripeStatusFor(status),
			},
		},
	})
	if err != nil {
		return nil, "", errs.Wrap(err, "encode sandbox event")
	}
	return body, g.verifier.Sign(body, now), nil
}

func (g *SandboxGateway) view(in *sandboxIntent) *commands.GatewayIntent {
	return &commands.GatewayIntent{
		ID:               in.id,
		ClientSecret:     in.clientSecret,
		Status:           in.status,
		AmountMinorUnits: in.amount,
		Currency:         in.currency,
		Sequence:         payment.SequenceAt(g.clock.Now().Unix(), in.status),
	}
}

func eventTypeFor(s payment.Status) stripe.EventType {
	switch s {
	case payment.StatusSucceeded:
		return stripe.EventTypePaymentIntentSucceeded
	case payment.StatusFailed:
		return stripe.EventTypePaymentIntentPaymentFailed
	case payment.StatusCanceled:
		return stripe.EventTypePaymentIntentCanceled
	case payment.StatusPending:
		return stripe.EventTypePaymentIntentProcessing
	default:
		return stripe.EventTypePaymentIntentCreated
	}
}

func stripeStatusFor(s payment.Status) stripe.PaymentIntentStatus {
	switch s {
	case payment.StatusSucceeded:
		return stripe.PaymentIntentStatusSucceeded
	case payment.StatusCanceled:
		return stripe.PaymentIntentStatusCanceled
	case payment.StatusPending:
		return stripe.PaymentIntentStatusProcessing
	default:
		return stripe.PaymentIntentStatusRequiresPaymentMethod
	}
}
