package uow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"payment-reconciler/internal/infra/readstore"
	"payment-reconciler/internal/infra/repository"
	"payment-reconciler/internal/infra/sqlc"
	"payment-reconciler/internal/pkg/errs"
	"payment-reconciler/internal/usecase/queries"
	"payment-reconciler/internal/usecase/shared"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"

	txMaxRetries = 3
	txRetryBase  = 100 * time.Millisecond
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
	q    *sqlc.Queries
}

func NewPostgresUoW(pool *pgxpool.Pool, q *sqlc.Queries) *PostgresUoW {
	return &PostgresUoW{
		pool: pool,
		q:    q,
	}
}

// ReadCommitted is enough here: every status write is a compare-and-swap on the sequence.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

func (u *PostgresUoW) Reads() shared.IntentReads {
	return repository.NewIntentReader(u.q, u.pool)
}

func (u *PostgresUoW) IntentViews() queries.IntentReadStore {
	return readstore.NewIntentReadStore(u.q, u.pool)
}

func (u *PostgresUoW) NotificationQueue() *repository.NotificationQueue {
	return repository.NewNotificationQueue(u.q, u.pool)
}

// runInTx retries the whole transaction on serialization failures and deadlocks.
// Each attempt begins, runs and ends its own transaction so nothing is deferred across attempts.
func (u *PostgresUoW) runInTx(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		err := u.attempt(ctx, options, fn)
		if err == nil || isRetryableError(err) {
			return err
		}
		return backoff.Permanent(err)
	}, newTxBackOff(ctx), func(err error, wait time.Duration) {
		slog.WarnContext(ctx, "retrying transaction due to retryable error",
			"attempt", attempt,
			"wait_ms", wait.Milliseconds(),
			"error", err.Error())
	})
	if err != nil && isRetryableError(err) {
		slog.ErrorContext(ctx, "transaction failed after max retries", "attempts", attempt, "error", err.Error())
		return errs.Mark(err, errMaxRetriesExceeded)
	}
	return err
}

func (u *PostgresUoW) attempt(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	err = fn(ctx, &pgTx{dbtx: pgxTx, uow: u})
	if err == nil {
		if err = pgxTx.Commit(ctx); err == nil {
			return nil
		}
		err = errs.Mark(err, errTransactionCommit)
	}

	if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
		slog.WarnContext(ctx, "rollback failed", "error", rollbackErr.Error())
	}
	return err
}

func newTxBackOff(ctx context.Context) backoff.BackOffContext {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = txRetryBase
	policy.RandomizationFactor = 0.2
	policy.MaxInterval = time.Second
	policy.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(policy, txMaxRetries), ctx)
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx sqlc.DBTX
	uow  *PostgresUoW

	intentRepo       shared.IntentRepository
	notificationRepo shared.NotificationRepository
}

func (t *pgTx) Intents() shared.IntentRepository {
	if t.intentRepo == nil {
		t.intentRepo = repository.NewIntentRepository(t.uow.q, t.dbtx)
	}
	return t.intentRepo
}

func (t *pgTx) Notifications() shared.NotificationRepository {
	if t.notificationRepo == nil {
		t.notificationRepo = repository.NewNotificationRepository(t.uow.q, t.dbtx)
	}
	return t.notificationRepo
}
