package response

import (
	"time"

	"payment-reconciler/internal/usecase/commands"
	"payment-reconciler/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type IntentHandleResponse struct {
	IntentID     string `json:"intentId"`
	ClientSecret string `json:"clientSecret"`
	Reference    string `json:"reference"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Replayed     bool   `json:"replayed,omitempty"`
}

func FromIntentHandle(h *commands.IntentHandle) *IntentHandleResponse {
	return &IntentHandleResponse{
		IntentID:     h.IntentID,
		ClientSecret: h.ClientSecret,
		Reference:    h.Reference,
		Amount:       h.AmountMinorUnits,
		Currency:     h.Currency,
		Replayed:     h.IsReplayed,
	}
}

type PaymentOutcomeResponse struct {
	IntentID       string `json:"intentId"`
	Status         string `json:"status"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	AmountMismatch bool   `json:"amountMismatch"`
	Retryable      bool   `json:"retryable"`
}

// FromPaymentOutcome collapses the internal status to succeeded|failed|pending.
func FromPaymentOutcome(o *commands.PaymentOutcome) *PaymentOutcomeResponse {
	return &PaymentOutcomeResponse{
		IntentID:       o.IntentID,
		Status:         o.Status.Public().String(),
		Amount:         o.AmountMinorUnits,
		Currency:       o.Currency,
		AmountMismatch: o.AmountMismatch,
		Retryable:      o.Retryable,
	}
}

type IntentResponse struct {
	ID        string            `json:"id"`
	Reference string            `json:"reference"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Status    string            `json:"status"`
	Metadata  map[string]string `json:"metadata"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func FromIntentView(v *queries.IntentView) *IntentResponse {
	res := &IntentResponse{}
	_ = copier.Copy(res, v)
	res.Amount = v.AmountMinorUnits
	return res
}

type IntentHistoryResponse struct {
	Items      []*IntentResponse `json:"items"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

func FromIntentHistory(items []*queries.IntentView, next *queries.Cursor) *IntentHistoryResponse {
	res := &IntentHistoryResponse{Items: make([]*IntentResponse, len(items))}
	for i, it := range items {
		res.Items[i] = FromIntentView(it)
	}
	if next != nil {
		res.NextCursor = next.After
	}
	return res
}

type WebhookAckResponse struct {
	Received  bool `json:"received"`
	Duplicate bool `json:"duplicate,omitempty"`
}

func FromAck(a *commands.Ack) *WebhookAckResponse {
	return &WebhookAckResponse{Received: true, Duplicate: a.Duplicate}
}
