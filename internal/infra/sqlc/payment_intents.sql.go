package sqlc

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const paymentIntentColumns = `id, reference, amount_minor_units, currency, status, metadata, owner_id, last_event_sequence, created_at, updated_at`

func scanPaymentIntent(row pgx.Row) (PaymentIntents, error) {
	var i PaymentIntents
	err := row.Scan(
		&i.ID,
		&i.Reference,
		&i.AmountMinorUnits,
		&i.Currency,
		&i.Status,
		&i.Metadata,
		&i.OwnerID,
		&i.LastEventSequence,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectPaymentIntents(rows pgx.Rows, err error) ([]PaymentIntents, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PaymentIntents
	for rows.Next() {
		i, err := scanPaymentIntent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const insertPaymentIntent = `-- name: InsertPaymentIntent :execrows
INSERT INTO payment_intents (
    id, reference, amount_minor_units, currency, status, metadata, owner_id, last_event_sequence, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT DO NOTHING
`

type InsertPaymentIntentParams struct {
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

func (q *Queries) InsertPaymentIntent(ctx context.Context, db DBTX, arg InsertPaymentIntentParams) (int64, error) {
	result, err := db.Exec(ctx, insertPaymentIntent,
		arg.ID,
		arg.Reference,
		arg.AmountMinorUnits,
		arg.Currency,
		arg.Status,
		arg.Metadata,
		arg.OwnerID,
		arg.LastEventSequence,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getPaymentIntentByID = `-- name: GetPaymentIntentByID :one
SELECT ` + paymentIntentColumns + ` FROM payment_intents WHERE id = $1
`

func (q *Queries) GetPaymentIntentByID(ctx context.Context, db DBTX, id string) (PaymentIntents, error) {
	return scanPaymentIntent(db.QueryRow(ctx, getPaymentIntentByID, id))
}

const getPaymentIntentByReference = `-- name: GetPaymentIntentByReference :one
SELECT ` + paymentIntentColumns + ` FROM payment_intents WHERE reference = $1
`

func (q *Queries) GetPaymentIntentByReference(ctx context.Context, db DBTX, reference string) (PaymentIntents, error) {
	return scanPaymentIntent(db.QueryRow(ctx, getPaymentIntentByReference, reference))
}

const swapPaymentIntentStatus = `-- name: SwapPaymentIntentStatus :execrows
UPDATE payment_intents
SET status = $3, last_event_sequence = $4, updated_at = $5
WHERE id = $1 AND last_event_sequence = $2
`

type SwapPaymentIntentStatusParams struct {
	ID                string             `json:"id"`
	ExpectedSequence  int64              `json:"expected_sequence"`
	Status            string             `json:"status"`
	LastEventSequence int64              `json:"last_event_sequence"`
	UpdatedAt         pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) SwapPaymentIntentStatus(ctx context.Context, db DBTX, arg SwapPaymentIntentStatusParams) (int64, error) {
	result, err := db.Exec(ctx, swapPaymentIntentStatus,
		arg.ID,
		arg.ExpectedSequence,
		arg.Status,
		arg.LastEventSequence,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listStalePaymentIntents = `-- name: ListStalePaymentIntents :many
SELECT ` + paymentIntentColumns + ` FROM payment_intents
WHERE status = ANY($1::text[]) AND updated_at < $2
ORDER BY updated_at ASC, id ASC
LIMIT $3
`

type ListStalePaymentIntentsParams struct {
	Statuses      []string           `json:"statuses"`
	UpdatedBefore pgtype.Timestamptz `json:"updated_before"`
	Limit         int32              `json:"limit"`
}

func (q *Queries) ListStalePaymentIntents(ctx context.Context, db DBTX, arg ListStalePaymentIntentsParams) ([]PaymentIntents, error) {
	return collectPaymentIntents(db.Query(ctx, listStalePaymentIntents, arg.Statuses, arg.UpdatedBefore, arg.Limit))
}

const listPaymentIntentsByOwnerFirstPage = `-- name: ListPaymentIntentsByOwnerFirstPage :many
SELECT ` + paymentIntentColumns + ` FROM payment_intents
WHERE owner_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`

type ListPaymentIntentsByOwnerFirstPageParams struct {
	OwnerID uuid.UUID `json:"owner_id"`
	Limit   int32     `json:"limit"`
}

func (q *Queries) ListPaymentIntentsByOwnerFirstPage(ctx context.Context, db DBTX, arg ListPaymentIntentsByOwnerFirstPageParams) ([]PaymentIntents, error) {
	return collectPaymentIntents(db.Query(ctx, listPaymentIntentsByOwnerFirstPage, arg.OwnerID, arg.Limit))
}

const listPaymentIntentsByOwnerKeyset = `-- name: ListPaymentIntentsByOwnerKeyset :many
SELECT ` + paymentIntentColumns + ` FROM payment_intents
WHERE owner_id = $1 AND (created_at, id) < ($2, $3)
ORDER BY created_at DESC, id DESC
LIMIT $4
`

type ListPaymentIntentsByOwnerKeysetParams struct {
	OwnerID       uuid.UUID          `json:"owner_id"`
	LastCreatedAt pgtype.Timestamptz `json:"last_created_at"`
	LastID        string             `json:"last_id"`
	Limit         int32              `json:"limit"`
}

func (q *Queries) ListPaymentIntentsByOwnerKeyset(ctx context.Context, db DBTX, arg ListPaymentIntentsByOwnerKeysetParams) ([]PaymentIntents, error) {
	return collectPaymentIntents(db.Query(ctx, listPaymentIntentsByOwnerKeyset, arg.OwnerID, arg.LastCreatedAt, arg.LastID, arg.Limit))
}
