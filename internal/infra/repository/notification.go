package repository

import (
	"context"
	"time"

	"payment-reconciler/internal/domain/payment"
	"payment-reconciler/internal/infra"
	"payment-reconciler/internal/infra/repository/converter"
	"payment-reconciler/internal/infra/sqlc"
	"payment-reconciler/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type NotificationWriteQueries interface {
	CreateNotificationJob(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateNotificationJobParams) error
}

type NotificationRepository struct {
	queries NotificationWriteQueries
	db      sqlc.DBTX
}

func NewNotificationRepository(queries NotificationWriteQueries, db sqlc.DBTX) *NotificationRepository {
	return &NotificationRepository{
		queries: queries,
		db:      db,
	}
}

func (r *NotificationRepository) Enqueue(ctx context.Context, n *payment.Notification) error {
	if err := r.queries.CreateNotificationJob(ctx, r.db, converter.NotificationToInfra(n)); err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}

type NotificationQueueQueries interface {
	ClaimDueNotificationJobs(ctx context.Context, db sqlc.DBTX, arg sqlc.ClaimDueNotificationJobsParams) ([]sqlc.NotificationJobs, error)
	UpdateNotificationJobStatus(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateNotificationJobStatusParams) (int64, error)
}

// NotificationQueue is the dispatcher's view of the outbox table.
type NotificationQueue struct {
	queries NotificationQueueQueries
	db      sqlc.DBTX
}

func NewNotificationQueue(queries NotificationQueueQueries, db sqlc.DBTX) *NotificationQueue {
	return &NotificationQueue{
		queries: queries,
		db:      db,
	}
}

func (q *NotificationQueue) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]payment.Notification, error) {
	rows, err := q.queries.ClaimDueNotificationJobs(ctx, q.db, sqlc.ClaimDueNotificationJobsParams{
		Now:         pgconv.TimeToPgtype(now),
		LockedUntil: pgconv.TimeToPgtype(now.Add(lease)),
		Limit:       pgconv.ClampInt32(limit),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}

	jobs := make([]payment.Notification, len(rows))
	for i, row := range rows {
		jobs[i] = converter.NotificationFromRow(row)
	}
	return jobs, nil
}

func (q *NotificationQueue) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return q.update(ctx, sqlc.UpdateNotificationJobStatusParams{
		ID:     id,
		Status: string(payment.NotificationSent),
		RunAt:  pgconv.TimeToPgtype(at),
	})
}

func (q *NotificationQueue) MarkRetry(ctx context.Context, id uuid.UUID, runAt time.Time, lastErr string) error {
	return q.update(ctx, sqlc.UpdateNotificationJobStatusParams{
		ID:        id,
		Status:    string(payment.NotificationQueued),
		RunAt:     pgconv.TimeToPgtype(runAt),
		LastError: pgconv.StringToPgtype(lastErr),
	})
}

func (q *NotificationQueue) MarkDead(ctx context.Context, id uuid.UUID, lastErr string) error {
	return q.update(ctx, sqlc.UpdateNotificationJobStatusParams{
		ID:        id,
		Status:    string(payment.NotificationDead),
		RunAt:     pgtype.Timestamptz{},
		LastError: pgconv.StringToPgtype(lastErr),
	})
}

func (q *NotificationQueue) update(ctx context.Context, params sqlc.UpdateNotificationJobStatusParams) error {
	affected, err := q.queries.UpdateNotificationJobStatus(ctx, q.db, params)
	if err != nil {
		return infra.WrapRepoErr("failed to update notification job status", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("notification job not found", nil, infra.KindNotFound)
	}
	return nil
}
