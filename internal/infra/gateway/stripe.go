package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"payment-reconciler/internal/domain/payment"
	"payment-reconciler/internal/pkg/clock"
	"payment-reconciler/internal/pkg/errs"
	"payment-reconciler/internal/usecase/commands"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
)

type StripeConfig struct {
	SecretKey  string
	Timeout    time.Duration
	MaxRetries uint64
	// BaseURL overrides the Stripe API host; empty means production.
	BaseURL string
}

type StripeGateway struct {
	api        *client.API
	verifier   *SignatureVerifier
	clock      clock.Clock
	maxRetries uint64
}

func NewStripeGateway(cfg StripeConfig, verifier *SignatureVerifier, clk clock.Clock) *StripeGateway {
	backendCfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if cfg.BaseURL != "" {
		backendCfg.URL = stripe.String(cfg.BaseURL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg)

	api := client.New(cfg.SecretKey, &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})

	return &StripeGateway{
		api:        api,
		verifier:   verifier,
		clock:      clk,
		maxRetries: cfg.MaxRetries,
	}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, spec commands.IntentSpec) (*commands.GatewayIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(spec.Money.AmountMinorUnits()),
		Currency: stripe.String(strings.ToLower(spec.Money.Currency().String())),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey("create-intent:" + spec.Reference.String())
	for k, v := range spec.Metadata {
		params.AddMetadata(k, v)
	}
	if spec.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(spec.ReceiptEmail)
	}

	return withRetry(ctx, g.maxRetries, "create_intent", func() (*commands.GatewayIntent, error) {
		pi, err := g.api.PaymentIntents.New(params)
		if err != nil {
			return nil, mapStripeError(err, "create payment intent")
		}
		return g.toGatewayIntent(pi), nil
	})
}

func (g *StripeGateway) GetIntent(ctx context.Context, id string) (*commands.GatewayIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	return withRetry(ctx, g.maxRetries, "get_intent", func() (*commands.GatewayIntent, error) {
		pi, err := g.api.PaymentIntents.Get(id, params)
		if err != nil {
			return nil, mapStripeError(err, "retrieve payment intent")
		}
		return g.toGatewayIntent(pi), nil
	})
}

func (g *StripeGateway) ParseEvent(rawBody []byte, signatureHeader string) (*payment.Event, error) {
	return g.verifier.ParseEvent(rawBody, signatureHeader)
}

// A retrieved intent carries no event timestamp, so the fetch time orders it against webhooks.
func (g *StripeGateway) toGatewayIntent(pi *stripe.PaymentIntent) *commands.GatewayIntent {
	status := statusOf(pi)
	return &commands.GatewayIntent{
		ID:               pi.ID,
		ClientSecret:     pi.ClientSecret,
		Status:           status,
		AmountMinorUnits: pi.Amount,
		Currency:         strings.ToUpper(string(pi.Currency)),
		Sequence:         payment.SequenceAt(g.clock.Now().Unix(), status),
	}
}

func statusOf(pi *stripe.PaymentIntent) payment.Status {
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return payment.StatusSucceeded
	case stripe.PaymentIntentStatusCanceled:
		return payment.StatusCanceled
	case stripe.PaymentIntentStatusProcessing,
		stripe.PaymentIntentStatusRequiresCapture,
		stripe.PaymentIntentStatusRequiresAction:
		return payment.StatusPending
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		if pi.LastPaymentError != nil {
			return payment.StatusFailed
		}
		return payment.StatusCreated
	default:
		return payment.StatusCreated
	}
}

func mapStripeError(err error, msg string) error {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return errs.Mark(errs.Wrap(err, msg), commands.ErrGatewayUnavailable)
	}

	switch {
	case stripeErr.Code == stripe.ErrorCodeResourceMissing:
		return errs.Mark(errs.Wrap(err, msg), commands.ErrIntentNotFound)
	case stripeErr.HTTPStatusCode == http.StatusTooManyRequests,
		stripeErr.HTTPStatusCode >= http.StatusInternalServerError,
		stripeErr.Type == stripe.ErrorTypeAPI:
		return errs.Mark(errs.Wrap(err, msg), commands.ErrGatewayUnavailable)
	case stripeErr.HTTPStatusCode == http.StatusUnauthorized,
		stripeErr.HTTPStatusCode == http.StatusForbidden:
		// our credentials, not the caller's request
		return errs.Mark(errs.Wrap(err, msg), commands.ErrGatewayUnavailable)
	default:
		return errs.Mark(errs.Wrap(err, msg), commands.ErrInvalidRequest)
	}
}
