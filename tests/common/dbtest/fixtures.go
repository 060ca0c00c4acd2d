//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// the minimal interface required for test DB operations.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type IntentRow struct {
	Status            string
	LastEventSequence int64
	AmountMinorUnits  int64
	UpdatedAt         time.Time
}

func LoadIntent(t *testing.T, db DBLike, id string) IntentRow {
	t.Helper()

	var row IntentRow
	err := db.QueryRow(context.Background(),
		"SELECT status, last_event_sequence, amount_minor_units, updated_at FROM payment_intents WHERE id = $1", id).
		Scan(&row.Status, &row.LastEventSequence, &row.AmountMinorUnits, &row.UpdatedAt)
	require.NoError(t, err)
	return row
}

// CountJobs counts outbox rows for an intent, optionally filtered by status.
func CountJobs(t *testing.T, db DBLike, intentID, status string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM notification_jobs WHERE intent_id = $1 AND ($2 = '' OR status = $2)", intentID, status).
		Scan(&n)
	require.NoError(t, err)
	return n
}

// AgeIntent pushes updated_at into the past so the sweeper treats the intent as stale.
func AgeIntent(t *testing.T, db DBLike, id string, by time.Duration) {
	t.Helper()

	tag, err := db.Exec(context.Background(),
		"UPDATE payment_intents SET updated_at = updated_at - make_interval(secs => $2) WHERE id = $1", id, by.Seconds())
	require.NoError(t, err)
	require.Equal(t, int64(1), tag.RowsAffected())
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables except the migration bookkeeping
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
