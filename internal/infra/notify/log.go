package notify

import (
	"context"
	"log/slog"

	"payment-reconciler/internal/domain/payment"
)

type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{logger: slog.Default().With("sink", "log")}
}

func (p *LogPublisher) Publish(ctx context.Context, n payment.Notification) error {
	p.logger.InfoContext(ctx, "payment notification",
		"notification_id", n.ID.String(),
		"intent_id", n.IntentID,
		"topic", n.Topic,
		"payload", string(n.Payload))
	return nil
}

func (p *LogPublisher) Close() error { return nil }
