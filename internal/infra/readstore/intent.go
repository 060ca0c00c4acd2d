package readstore

import (
	"context"
	"time"

	"payment-reconciler/internal/infra"
	"payment-reconciler/internal/infra/repository/converter"
	"payment-reconciler/internal/infra/sqlc"
	"payment-reconciler/internal/pkg/pgconv"
	"payment-reconciler/internal/usecase/queries"

	"github.com/google/uuid"
)

type IntentViewQueries interface {
	GetPaymentIntentByID(ctx context.Context, db sqlc.DBTX, id string) (sqlc.PaymentIntents, error)
	ListPaymentIntentsByOwnerFirstPage(ctx context.Context, db sqlc.DBTX, arg sqlc.ListPaymentIntentsByOwnerFirstPageParams) ([]sqlc.PaymentIntents, error)
	ListPaymentIntentsByOwnerKeyset(ctx context.Context, db sqlc.DBTX, arg sqlc.ListPaymentIntentsByOwnerKeysetParams) ([]sqlc.PaymentIntents, error)
}

type IntentReadStore struct {
	queries IntentViewQueries
	db      sqlc.DBTX
}

func NewIntentReadStore(queries IntentViewQueries, db sqlc.DBTX) queries.IntentReadStore {
	return &IntentReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *IntentReadStore) FindByID(ctx context.Context, id string) (*queries.IntentView, error) {
	row, err := r.queries.GetPaymentIntentByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment intent not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment intent by ID", err)
	}
	return rowToIntentView(row)
}

func (r *IntentReadStore) FindByOwnerFirstPage(ctx context.Context, ownerID uuid.UUID, limit int32) ([]*queries.IntentView, error) {
	rows, err := r.queries.ListPaymentIntentsByOwnerFirstPage(ctx, r.db, sqlc.ListPaymentIntentsByOwnerFirstPageParams{
		OwnerID: ownerID,
		Limit:   limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find payment intents first page", err)
	}
	return rowsToIntentViews(rows)
}

func (r *IntentReadStore) FindByOwnerKeyset(ctx context.Context, ownerID uuid.UUID, lastCreatedAt time.Time, lastID string, limit int32) ([]*queries.IntentView, error) {
	rows, err := r.queries.ListPaymentIntentsByOwnerKeyset(ctx, r.db, sqlc.ListPaymentIntentsByOwnerKeysetParams{
		OwnerID:       ownerID,
		LastCreatedAt: pgconv.TimeToPgtype(lastCreatedAt),
		LastID:        lastID,
		Limit:         limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find payment intents with keyset", err)
	}
	return rowsToIntentViews(rows)
}

func rowToIntentView(row sqlc.PaymentIntents) (*queries.IntentView, error) {
	snap, err := converter.SnapshotFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode payment intent row", err)
	}
	return queries.ViewFromSnapshot(snap), nil
}

func rowsToIntentViews(rows []sqlc.PaymentIntents) ([]*queries.IntentView, error) {
	result := make([]*queries.IntentView, len(rows))
	for i, row := range rows {
		view, err := rowToIntentView(row)
		if err != nil {
			return nil, err
		}
		result[i] = view
	}
	return result, nil
}
