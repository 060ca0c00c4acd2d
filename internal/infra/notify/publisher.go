// Package notify delivers outbox notifications to the configured downstream sink.
package notify

import (
	"context"
	"fmt"

	"payment-reconciler/internal/domain/payment"
	"payment-reconciler/internal/pkg/config"
)

// Publisher sends one notification. Implementations key messages by intent id
// so consumers see the events of one intent in order.
type Publisher interface {
	Publish(ctx context.Context, n payment.Notification) error
	Close() error
}

func NewPublisher(ctx context.Context, cfg config.NotifyConfig) (Publisher, error) {
	switch cfg.Sink {
	case config.SinkLog:
		return NewLogPublisher(), nil
	case config.SinkKafka:
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	case config.SinkSNS:
		return NewSNSPublisherFromConfig(ctx, cfg.SNSTopicARN, cfg.AWSEndpoint)
	default:
		return nil, fmt.Errorf("%w: NOTIFY_SINK=%q", config.ErrUnknownOption, cfg.Sink)
	}
}
