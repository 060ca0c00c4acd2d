//go:build unit

package uow

import (
	"context"
	"testing"
	"time"

	"payment-reconciler/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTxBackOff(t *testing.T) {
	b := newTxBackOff(context.Background())

	var waits []time.Duration
	for {
		d := b.NextBackOff()
		if d == backoff.Stop {
			break
		}
		waits = append(waits, d)
	}

	assert.Len(t, waits, txMaxRetries)
	assert.GreaterOrEqual(t, waits[0], txRetryBase*8/10)
	assert.LessOrEqual(t, waits[0], txRetryBase*12/10)
	for _, w := range waits {
		assert.LessOrEqual(t, w, time.Second+time.Second/5)
	}
}

func TestTxBackOff_StopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, backoff.Stop, newTxBackOff(ctx).NextBackOff())
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "serialization failure", err: &pgconn.PgError{Code: pgErrCodeSerializationFailure}, want: true},
		{name: "deadlock wrapped", err: errs.Wrap(&pgconn.PgError{Code: pgErrCodeDeadlockDetected}, "commit"), want: true},
		{name: "deadlock marked as commit failure", err: errs.Mark(&pgconn.PgError{Code: pgErrCodeDeadlockDetected}, errTransactionCommit), want: true},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: false},
		{name: "plain error", err: errs.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}
