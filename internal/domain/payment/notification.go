package payment

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TopicPaymentSucceeded = "payment.succeeded"
	TopicPaymentFailed    = "payment.failed"
)

type NotificationStatus string

const (
	NotificationQueued     NotificationStatus = "queued"
	NotificationProcessing NotificationStatus = "processing"
	NotificationSent       NotificationStatus = "sent"
	NotificationDead       NotificationStatus = "dead"
)

// Notification is an outbox entry written in the same atomic step as the
// status transition that produced it.
type Notification struct {
	ID        uuid.UUID
	IntentID  string
	Topic     string
	Payload   []byte
	RunAt     time.Time
	Attempts  int
	Status    NotificationStatus
	LastError *string
}

type NotificationPayload struct {
	IntentID         string            `json:"intentId"`
	Reference        string            `json:"reference"`
	Status           string            `json:"status"`
	AmountMinorUnits int64             `json:"amountMinorUnits"`
	Currency         string            `json:"currency"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	OccurredAt       time.Time         `json:"occurredAt"`
}

// NotificationFor returns the downstream notification owed for prev -> next,
// or nil when the transition does not produce one.
func NotificationFor(prev, next *Intent) (*Notification, error) {
	if prev.status == next.status {
		return nil, nil
	}

	var topic string
	switch next.status {
	case StatusSucceeded:
		topic = TopicPaymentSucceeded
	case StatusFailed:
		topic = TopicPaymentFailed
	default:
		return nil, nil
	}

	payload, err := json.Marshal(NotificationPayload{
		IntentID:         next.id,
		Reference:        next.reference.String(),
		Status:           next.status.String(),
		AmountMinorUnits: next.money.AmountMinorUnits(),
		Currency:         next.money.Currency().String(),
		Metadata:         next.metadata.Clone(),
		OccurredAt:       next.updatedAt,
	})
	if err != nil {
		return nil, err
	}

	return &Notification{
		ID:       uuid.New(),
		IntentID: next.id,
		Topic:    topic,
		Payload:  payload,
		RunAt:    next.updatedAt,
		Status:   NotificationQueued,
	}, nil
}
