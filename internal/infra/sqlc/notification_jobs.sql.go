package sqlc

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createNotificationJob = `-- name: CreateNotificationJob :exec
INSERT INTO notification_jobs (id, intent_id, topic, payload, run_at, status)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (intent_id, topic) DO NOTHING
`

type CreateNotificationJobParams struct {
	ID       uuid.UUID          `json:"id"`
	IntentID string             `json:"intent_id"`
	Topic    string             `json:"topic"`
	Payload  []byte             `json:"payload"`
	RunAt    pgtype.Timestamptz `json:"run_at"`
	Status   string             `json:"status"`
}

func (q *Queries) CreateNotificationJob(ctx context.Context, db DBTX, arg CreateNotificationJobParams) error {
	_, err := db.Exec(ctx, createNotificationJob,
		arg.ID,
		arg.IntentID,
		arg.Topic,
		arg.Payload,
		arg.RunAt,
		arg.Status,
	)
	return err
}

const claimDueNotificationJobs = `-- name: ClaimDueNotificationJobs :many
UPDATE notification_jobs
SET status = 'processing', attempts = attempts + 1, locked_until = $2, updated_at = $1
WHERE id IN (
    SELECT id FROM notification_jobs
    WHERE (status = 'queued' AND run_at <= $1)
       OR (status = 'processing' AND locked_until < $1)
    ORDER BY run_at ASC
    LIMIT $3
    FOR UPDATE SKIP LOCKED
)
RETURNING id, intent_id, topic, payload, run_at, attempts, status, last_error, locked_until, created_at, updated_at
`

type ClaimDueNotificationJobsParams struct {
	Now         pgtype.Timestamptz `json:"now"`
	LockedUntil pgtype.Timestamptz `json:"locked_until"`
	Limit       int32              `json:"limit"`
}

func (q *Queries) ClaimDueNotificationJobs(ctx context.Context, db DBTX, arg ClaimDueNotificationJobsParams) ([]NotificationJobs, error) {
	rows, err := db.Query(ctx, claimDueNotificationJobs, arg.Now, arg.LockedUntil, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []NotificationJobs
	for rows.Next() {
		var i NotificationJobs
		if err := rows.Scan(
			&i.ID,
			&i.IntentID,
			&i.Topic,
			&i.Payload,
			&i.RunAt,
			&i.Attempts,
			&i.Status,
			&i.LastError,
			&i.LockedUntil,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const updateNotificationJobStatus = `-- name: UpdateNotificationJobStatus :execrows
UPDATE notification_jobs
SET status = $2, run_at = COALESCE($3, run_at), last_error = $4, locked_until = NULL, updated_at = now()
WHERE id = $1
`

type UpdateNotificationJobStatusParams struct {
	ID        uuid.UUID          `json:"id"`
	Status    string             `json:"status"`
	RunAt     pgtype.Timestamptz `json:"run_at"`
	LastError pgtype.Text        `json:"last_error"`
}

func (q *Queries) UpdateNotificationJobStatus(ctx context.Context, db DBTX, arg UpdateNotificationJobStatusParams) (int64, error) {
	result, err := db.Exec(ctx, updateNotificationJobStatus,
		arg.ID,
		arg.Status,
		arg.RunAt,
		arg.LastError,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
