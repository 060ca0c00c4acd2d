package notify

import (
	"context"
	"time"

	"payment-reconciler/internal/domain/payment"
	"payment-reconciler/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: 10 * time.Second,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, n payment.Notification) error {
	if err := p.writer.WriteMessages(ctx, kafkaMessage(n)); err != nil {
		return errs.Wrap(err, "failed to write kafka message")
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func kafkaMessage(n payment.Notification) kafka.Message {
	return kafka.Message{
		Key:   []byte(n.IntentID),
		Value: n.Payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(n.Topic)},
			{Key: "notification_id", Value: []byte(n.ID.String())},
		},
	}
}
