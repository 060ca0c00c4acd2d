package repository

import (
	"context"
	"time"

	"payment-reconciler/internal/domain/payment"
	"payment-reconciler/internal/infra"
	"payment-reconciler/internal/infra/repository/converter"
	"payment-reconciler/internal/infra/sqlc"
	"payment-reconciler/internal/pkg/pgconv"
)

type IntentWriteQueries interface {
	InsertPaymentIntent(ctx context.Context, db sqlc.DBTX, arg sqlc.InsertPaymentIntentParams) (int64, error)
	SwapPaymentIntentStatus(ctx context.Context, db sqlc.DBTX, arg sqlc.SwapPaymentIntentStatusParams) (int64, error)
}

type IntentReadQueries interface {
	GetPaymentIntentByID(ctx context.Context, db sqlc.DBTX, id string) (sqlc.PaymentIntents, error)
	GetPaymentIntentByReference(ctx context.Context, db sqlc.DBTX, reference string) (sqlc.PaymentIntents, error)
	ListStalePaymentIntents(ctx context.Context, db sqlc.DBTX, arg sqlc.ListStalePaymentIntentsParams) ([]sqlc.PaymentIntents, error)
}

type IntentRepository struct {
	queries IntentWriteQueries
	db      sqlc.DBTX
}

func NewIntentRepository(queries IntentWriteQueries, db sqlc.DBTX) *IntentRepository {
	return &IntentRepository{
		queries: queries,
		db:      db,
	}
}

func (r *IntentRepository) InsertIfAbsent(ctx context.Context, intent *payment.Intent) (bool, error) {
	params, err := converter.IntentToInfra(intent)
	if err != nil {
		return false, infra.WrapRepoErr("failed to convert payment intent", err)
	}

	inserted, err := r.queries.InsertPaymentIntent(ctx, r.db, params)
	if err != nil {
		return false, infra.WrapRepoErr("failed to insert payment intent", err)
	}
	return inserted == 1, nil
}

func (r *IntentRepository) SwapStatus(ctx context.Context, expectedSequence int64, next *payment.Intent) error {
	affected, err := r.queries.SwapPaymentIntentStatus(ctx, r.db, converter.SwapToInfra(expectedSequence, next))
	if err != nil {
		return infra.WrapRepoErr("failed to update payment intent status", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("payment intent changed concurrently", nil, infra.KindStaleSequence)
	}
	return nil
}

// IntentReader serves the lookups the commands make outside a transaction.
type IntentReader struct {
	queries IntentReadQueries
	db      sqlc.DBTX
}

func NewIntentReader(queries IntentReadQueries, db sqlc.DBTX) *IntentReader {
	return &IntentReader{
		queries: queries,
		db:      db,
	}
}

func (r *IntentReader) FindByID(ctx context.Context, id string) (*payment.Intent, error) {
	row, err := r.queries.GetPaymentIntentByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment intent not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment intent by ID", err)
	}
	return toIntent(row)
}

func (r *IntentReader) FindByReference(ctx context.Context, ref payment.Reference) (*payment.Intent, error) {
	row, err := r.queries.GetPaymentIntentByReference(ctx, r.db, ref.String())
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment intent not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment intent by reference", err)
	}
	return toIntent(row)
}

func (r *IntentReader) ListStale(ctx context.Context, statuses []payment.Status, updatedBefore time.Time, limit int) ([]*payment.Intent, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = s.String()
	}

	rows, err := r.queries.ListStalePaymentIntents(ctx, r.db, sqlc.ListStalePaymentIntentsParams{
		Statuses:      names,
		UpdatedBefore: pgconv.TimeToPgtype(updatedBefore),
		Limit:         pgconv.ClampInt32(limit),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list stale payment intents", err)
	}

	result := make([]*payment.Intent, 0, len(rows))
	for _, row := range rows {
		intent, err := toIntent(row)
		if err != nil {
			return nil, err
		}
		result = append(result, intent)
	}
	return result, nil
}

func toIntent(row sqlc.PaymentIntents) (*payment.Intent, error) {
	intent, err := converter.IntentFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode payment intent row", err)
	}
	return intent, nil
}
