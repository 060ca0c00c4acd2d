package request

import (
	"strings"

	"payment-reconciler/internal/usecase/commands"
	"payment-reconciler/internal/usecase/queries"

	"github.com/google/uuid"
)

type PlanMetadata struct {
	PlanID   string `json:"planId" binding:"required,max=64"`
	PlanName string `json:"planName" binding:"required,max=128"`
	Period   string `json:"period" binding:"required,plan_period"`
}

type CreateIntentRequest struct {
	Amount    int64        `json:"amount" binding:"required,gt=0"`
	Currency  string       `json:"currency" binding:"required,iso4217"`
	Reference string       `json:"reference" binding:"omitempty,payref"`
	Metadata  PlanMetadata `json:"metadata" binding:"required"`
	UserEmail string       `json:"userEmail" binding:"required,email"`
}

func (r *CreateIntentRequest) ToParams(ownerID uuid.UUID) commands.CreateIntentParams {
	return commands.CreateIntentParams{
		AmountMinorUnits: r.Amount,
		Currency:         strings.ToUpper(r.Currency),
		Reference:        strings.TrimSpace(r.Reference),
		PlanID:           r.Metadata.PlanID,
		PlanName:         r.Metadata.PlanName,
		Period:           r.Metadata.Period,
		UserEmail:        r.UserEmail,
		OwnerID:          ownerID,
	}
}

type VerifyIntentRequest struct {
	IntentID       string `json:"intentId" binding:"required,max=255"`
	ExpectedAmount int64  `json:"expectedAmount" binding:"required,gt=0"`
}

func (r *VerifyIntentRequest) ToParams(ownerID uuid.UUID) commands.VerifyIntentParams {
	return commands.VerifyIntentParams{
		IntentID:       r.IntentID,
		ExpectedAmount: r.ExpectedAmount,
		OwnerID:        ownerID,
	}
}

type HistoryQuery struct {
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
	After string `form:"after"`
}

func (q *HistoryQuery) Cursor() *queries.Cursor {
	if q.After == "" {
		return nil
	}
	return &queries.Cursor{After: q.After}
}
