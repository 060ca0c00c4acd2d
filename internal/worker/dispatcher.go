package worker

import (
	"context"
	"log/slog"
	"time"

	"payment-reconciler/internal/domain/payment"
	"payment-reconciler/internal/infra/notify"
	"payment-reconciler/internal/pkg/clock"
	"payment-reconciler/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	retryBaseDelay = 5 * time.Second
	retryMaxDelay  = 10 * time.Minute
)

// NotificationQueue is the outbox as seen by the dispatcher. ClaimDue leases
// the returned jobs until now+lease and has already counted the attempt.
type NotificationQueue interface {
	ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]payment.Notification, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkRetry(ctx context.Context, id uuid.UUID, runAt time.Time, lastErr string) error
	MarkDead(ctx context.Context, id uuid.UUID, lastErr string) error
}

type DispatchPolicy struct {
	BatchSize   int
	MaxAttempts int
	Lease       time.Duration
}

type DispatchReport struct {
	Sent        int
	Rescheduled int
	Dead        int
}

type Dispatcher struct {
	queue     NotificationQueue
	publisher notify.Publisher
	clock     clock.Clock
	policy    DispatchPolicy
}

func NewDispatcher(queue NotificationQueue, publisher notify.Publisher, clk clock.Clock, policy DispatchPolicy) *Dispatcher {
	if policy.BatchSize <= 0 {
		policy.BatchSize = 100
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 8
	}
	if policy.Lease <= 0 {
		policy.Lease = 5 * time.Minute
	}
	return &Dispatcher{queue: queue, publisher: publisher, clock: clk, policy: policy}
}

func (d *Dispatcher) DispatchOnce(ctx context.Context) (DispatchReport, error) {
	var report DispatchReport

	jobs, err := d.queue.ClaimDue(ctx, d.clock.Now(), d.policy.Lease, d.policy.BatchSize)
	if err != nil {
		return report, err
	}

	for _, job := range jobs {
		pubErr := d.publisher.Publish(ctx, job)
		now := d.clock.Now()

		switch {
		case pubErr == nil:
			if err := d.queue.MarkSent(ctx, job.ID, now); err != nil {
				return report, err
			}
			report.Sent++
		case job.Attempts >= d.policy.MaxAttempts:
			slog.Error("notification dead-lettered",
				"notification_id", job.ID.String(),
				"intent_id", job.IntentID,
				"topic", job.Topic,
				"attempts", job.Attempts,
				"error", errs.Redact(pubErr))
			if err := d.queue.MarkDead(ctx, job.ID, pubErr.Error()); err != nil {
				return report, err
			}
			report.Dead++
		default:
			delay := RetryDelay(job.Attempts)
			slog.Warn("notification publish failed, rescheduling",
				"notification_id", job.ID.String(),
				"intent_id", job.IntentID,
				"attempts", job.Attempts,
				"retry_in", delay.String(),
				"error", errs.Redact(pubErr))
			if err := d.queue.MarkRetry(ctx, job.ID, now.Add(delay), pubErr.Error()); err != nil {
				return report, err
			}
			report.Rescheduled++
		}
	}

	return report, nil
}

// RetryDelay doubles from retryBaseDelay per attempt, capped at retryMaxDelay.
func RetryDelay(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	delay := retryBaseDelay
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= retryMaxDelay {
			return retryMaxDelay
		}
	}
	return delay
}

// DispatchTick adapts a dispatcher to Loop.
func DispatchTick(d *Dispatcher) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		report, err := d.DispatchOnce(ctx)
		if err != nil {
			return err
		}
		if report.Sent+report.Rescheduled+report.Dead > 0 {
			slog.Info("notification dispatch finished",
				"sent", report.Sent,
				"rescheduled", report.Rescheduled,
				"dead", report.Dead)
		}
		return nil
	}
}
