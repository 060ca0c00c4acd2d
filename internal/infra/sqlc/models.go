package sqlc

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type PaymentIntents struct {
	ID                string             `json:"id"`
	Reference         string             `json:"reference"`
	AmountMinorUnits  int64              `json:"amount_minor_units"`
	Currency          string             `json:"currency"`
	Status            string             `json:"status"`
	Metadata          []byte             `json:"metadata"`
	OwnerID           uuid.UUID          `json:"owner_id"`
	LastEventSequence int64              `json:"last_event_sequence"`
	CreatedAt         pgtype.Timestamptz `json:"created_at"`
	UpdatedAt         pgtype.Timestamptz `json:"updated_at"`
}

type NotificationJobs struct {
	ID          uuid.UUID          `json:"id"`
	IntentID    string             `json:"intent_id"`
	Topic       string             `json:"topic"`
	Payload     []byte             `json:"payload"`
	RunAt       pgtype.Timestamptz `json:"run_at"`
	Attempts    int32              `json:"attempts"`
	Status      string             `json:"status"`
	LastError   pgtype.Text        `json:"last_error"`
	LockedUntil pgtype.Timestamptz `json:"locked_until"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}
