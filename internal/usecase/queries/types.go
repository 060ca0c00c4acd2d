package queries

import (
	"time"

	"payment-reconciler/internal/domain/payment"

	"github.com/google/uuid"
)

// IntentView is the caller-facing read model of a payment intent.
// Status is already collapsed to the public succeeded|failed|pending set.
type IntentView struct {
	ID               string            `json:"id"`
	Reference        string            `json:"reference"`
	AmountMinorUnits int64             `json:"amount"`
	Currency         string            `json:"currency"`
	Status           string            `json:"status"`
	Metadata         map[string]string `json:"metadata"`
	OwnerID          uuid.UUID         `json:"owner_id"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func ViewFromSnapshot(s payment.Snapshot) *IntentView {
	return &IntentView{
		ID:               s.ID,
		Reference:        s.Reference,
		AmountMinorUnits: s.AmountMinorUnits,
		Currency:         s.Currency,
		Status:           s.Status.Public().String(),
		Metadata:         s.Metadata,
		OwnerID:          s.OwnerID,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}
