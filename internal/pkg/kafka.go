package pkg

import (
	"context"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"Alumni_Network/internal/config"
)

// EventSender publishes one outbox payload keyed by aggregate.
type EventSender interface {
	Send(ctx context.Context, key string, value []byte) error
	Close() error
}

type KafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(cfg config.KafkaConfig) *KafkaProducer {
	return &KafkaProducer{writer: &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 10 * time.Second,
	}}
}

func (p *KafkaProducer) Send(ctx context.Context, key string, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value})
}

func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// LogSender stands in for Kafka when it is disabled.
type LogSender struct {
	Log *zap.Logger
}

func (s *LogSender) Send(_ context.Context, key string, value []byte) error {
	s.Log.Info("outbox event", zap.String("key", key), zap.ByteString("payload", value))
	return nil
}

func (s *LogSender) Close() error { return nil }

func MakeKeyFromID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
