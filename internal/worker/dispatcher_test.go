//go:build unit

package worker_test

import (
	"context"
	"testing"
	"time"

	"payment-reconciler/internal/domain/payment"
	"payment-reconciler/internal/infra/memstore"
	"payment-reconciler/internal/pkg/clock"
	"payment-reconciler/internal/pkg/errs"
	"payment-reconciler/internal/usecase/shared"
	"payment-reconciler/internal/worker"
	"payment-reconciler/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dispatchNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type flakyPublisher struct {
	failures  int
	published []payment.Notification
}

func (p *flakyPublisher) Publish(_ context.Context, n payment.Notification) error {
	if p.failures > 0 {
		p.failures--
		return errs.New("sink unavailable")
	}
	p.published = append(p.published, n)
	return nil
}

func (p *flakyPublisher) Close() error { return nil }

func seedSucceeded(t *testing.T, store *memstore.Store) {
	t.Helper()
	intent := builder.NewIntentBuilder().BuildDomain()
	next := intent.Observe(payment.StatusSucceeded, 1, dispatchNow)
	n, err := payment.NotificationFor(intent, next)
	require.NoError(t, err)

	require.NoError(t, store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Intents().InsertIfAbsent(ctx, intent); err != nil {
			return err
		}
		if err := tx.Intents().SwapStatus(ctx, 0, next); err != nil {
			return err
		}
		return tx.Notifications().Enqueue(ctx, n)
	}))
}

func TestDispatcher_DispatchOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes due jobs and marks them sent", func(t *testing.T) {
		store := memstore.New()
		seedSucceeded(t, store)
		pub := &flakyPublisher{}
		d := worker.NewDispatcher(store, pub, clock.NewMockClock(dispatchNow), worker.DispatchPolicy{MaxAttempts: 3})

		report, err := d.DispatchOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, worker.DispatchReport{Sent: 1}, report)
		require.Len(t, pub.published, 1)
		assert.Equal(t, payment.TopicPaymentSucceeded, pub.published[0].Topic)
		assert.Equal(t, payment.NotificationSent, store.Notifications()[0].Status)

		report, err = d.DispatchOnce(ctx)
		require.NoError(t, err)
		assert.Zero(t, report)
	})

	t.Run("failed publish is rescheduled with backoff then delivered", func(t *testing.T) {
		store := memstore.New()
		seedSucceeded(t, store)
		pub := &flakyPublisher{failures: 1}
		clk := clock.NewMockClock(dispatchNow)
		d := worker.NewDispatcher(store, pub, clk, worker.DispatchPolicy{MaxAttempts: 3})

		report, err := d.DispatchOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, worker.DispatchReport{Rescheduled: 1}, report)
		job := store.Notifications()[0]
		assert.Equal(t, payment.NotificationQueued, job.Status)
		assert.Equal(t, dispatchNow.Add(worker.RetryDelay(1)), job.RunAt)
		require.NotNil(t, job.LastError)

		report, err = d.DispatchOnce(ctx)
		require.NoError(t, err)
		assert.Zero(t, report, "not due yet")

		clk.Add(worker.RetryDelay(1))
		report, err = d.DispatchOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, worker.DispatchReport{Sent: 1}, report)
		assert.Equal(t, 2, store.Notifications()[0].Attempts)
	})

	t.Run("job is dead-lettered after max attempts", func(t *testing.T) {
		store := memstore.New()
		seedSucceeded(t, store)
		pub := &flakyPublisher{failures: 10}
		clk := clock.NewMockClock(dispatchNow)
		d := worker.NewDispatcher(store, pub, clk, worker.DispatchPolicy{MaxAttempts: 2})

		_, err := d.DispatchOnce(ctx)
		require.NoError(t, err)
		clk.Add(time.Hour)
		report, err := d.DispatchOnce(ctx)
		require.NoError(t, err)

		assert.Equal(t, worker.DispatchReport{Dead: 1}, report)
		assert.Equal(t, payment.NotificationDead, store.Notifications()[0].Status)
		assert.Empty(t, pub.published)
	})
}

func TestRetryDelay(t *testing.T) {
	assert.Equal(t, 5*time.Second, worker.RetryDelay(0))
	assert.Equal(t, 5*time.Second, worker.RetryDelay(1))
	assert.Equal(t, 20*time.Second, worker.RetryDelay(3))
	assert.Equal(t, 10*time.Minute, worker.RetryDelay(20))
}
