package events

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer publishes message-sent events for downstream consumers
// (analytics, notification fan-out). The chat path treats it as
// best-effort.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &Producer{writer: w}
}

func (p *Producer) PublishMessageSent(ctx context.Context, key string, payload []byte) error {
	msg := kafka.Message{Key: []byte(key), Value: payload, Time: time.Now()}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
