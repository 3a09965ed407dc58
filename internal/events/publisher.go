// Package events publishes compare results for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// CompareCompleted is emitted after a compare request is computed.
type CompareCompleted struct {
	Key            string    `json:"key"`
	OriginPin      string    `json:"originPin"`
	DestinationPin string    `json:"destinationPin"`
	ChargeableKg   float64   `json:"chargeableWeightKg"`
	DistanceKm     float64   `json:"distanceKm"`
	PricingTier    string    `json:"pricingTier"`
	QuoteCount     int       `json:"quoteCount"`
	BestValueID    string    `json:"bestValueId,omitempty"`
	BestValueTotal float64   `json:"bestValueTotal,omitempty"`
	At             time.Time `json:"at"`
}

// Publisher sends keyed events.
type Publisher interface {
	Publish(ctx context.Context, key string, value any) error
	Close() error
}

// Writer is the subset of kafka.Writer the producer uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer writes JSON events to one topic.
type KafkaProducer struct {
	writer Writer
	logger *slog.Logger
}

func NewKafkaProducer(broker, topic string, logger *slog.Logger) *KafkaProducer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return NewKafkaProducerWithWriter(w, logger)
}

// NewKafkaProducerWithWriter allows injecting a test writer.
func NewKafkaProducerWithWriter(w Writer, logger *slog.Logger) *KafkaProducer {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaProducer{writer: w, logger: logger.With("component", "kafka_producer")}
}

func (p *KafkaProducer) Publish(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{Key: []byte(key), Value: b}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("kafka write failed", "key", key, "error", err)
		return fmt.Errorf("write event: %w", err)
	}
	p.logger.Debug("event published", "key", key, "size_bytes", len(b))
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error { return nil }
