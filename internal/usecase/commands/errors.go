package commands

import (
	"payment-reconciler/internal/pkg/errs"
)

// Caller-visible failure taxonomy. Failures are attached with errs.Mark and matched with errs.Is.
var (
	ErrInvalidRequest        = errs.New("invalid payment request")
	ErrGatewayUnavailable    = errs.New("payment gateway unavailable")
	ErrIntentNotFound        = errs.New("payment intent not found")
	ErrReconcileConflict     = errs.New("payment intent changed concurrently")
	ErrAmountExceedsExpected = errs.New("paid amount exceeds expected amount")
	ErrCurrencyMismatch      = errs.New("paid currency differs from intent currency")

	// ErrSignature is the single opaque failure for any signature problem.
	ErrSignature        = errs.New("invalid webhook signature")
	ErrBadSignature     = ErrSignature
	ErrMalformedPayload = errs.New("malformed webhook payload")
)

// IsRetryable reports whether the caller may repeat the same request later.
func IsRetryable(err error) bool {
	return errs.Is(err, ErrGatewayUnavailable) || errs.Is(err, ErrReconcileConflict)
}
