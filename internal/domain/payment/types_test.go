//go:build unit

package payment_test

import (
	"testing"

	"payment-reconciler/internal/domain/payment"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []payment.Status{
	payment.StatusCreated,
	payment.StatusPending,
	payment.StatusSucceeded,
	payment.StatusFailed,
	payment.StatusCanceled,
}

func TestStatusTransitions(t *testing.T) {
	allowed := map[payment.Status][]payment.Status{
		payment.StatusCreated: {payment.StatusPending, payment.StatusSucceeded, payment.StatusFailed, payment.StatusCanceled},
		payment.StatusPending: {payment.StatusSucceeded, payment.StatusFailed, payment.StatusCanceled},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				assert.Equal(t, want, from.CanTransitionTo(to))
			})
		}
	}

	t.Run("unknown statuses never transition", func(t *testing.T) {
		assert.False(t, payment.Status("refunded").CanTransitionTo(payment.StatusSucceeded))
		assert.False(t, payment.StatusCreated.CanTransitionTo(payment.Status("refunded")))
	})
}

func TestStatusPublic(t *testing.T) {
	tests := []struct {
		status payment.Status
		want   payment.Status
	}{
		{payment.StatusCreated, payment.StatusPending},
		{payment.StatusPending, payment.StatusPending},
		{payment.StatusSucceeded, payment.StatusSucceeded},
		{payment.StatusFailed, payment.StatusFailed},
		{payment.StatusCanceled, payment.StatusFailed},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Public())
		})
	}
}

func TestParseStatus(t *testing.T) {
	s, err := payment.ParseStatus("pending")
	assert.NoError(t, err)
	assert.Equal(t, payment.StatusPending, s)

	_, err = payment.ParseStatus("PENDING")
	assert.ErrorIs(t, err, payment.ErrInvalidStatus)
}
