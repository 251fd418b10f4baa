package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/cloudcatalog/ingester/internal/catalog"
)

const kafkaWriteTimeout = 10 * time.Second

// messageWriter is the subset of *kafka.Writer used by KafkaSink.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes each entity as a JSON message keyed by its entity reference,
// so updates of the same entity land on the same partition.
type KafkaSink struct {
	writer messageWriter
	topic  string
}

var _ Sink = (*KafkaSink)(nil)

// NewKafkaSink creates a synchronous writer for topic on brokers.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return newKafkaSink(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: kafkaWriteTimeout,
	}, topic)
}

func newKafkaSink(writer messageWriter, topic string) *KafkaSink {
	return &KafkaSink{writer: writer, topic: topic}
}

// Write publishes entity and waits for the broker acknowledgement.
func (s *KafkaSink) Write(ctx context.Context, entity catalog.Entity) error {
	value, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", entity.Ref(), err)
	}

	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(entity.Ref()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "apiVersion", Value: []byte(entity.APIVersion)},
			{Key: "kind", Value: []byte(entity.Kind)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s to %s: %w", entity.Ref(), s.topic, err)
	}

	return nil
}

// Close flushes and closes the writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
