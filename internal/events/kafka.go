package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// envelope is the wire format for emitted events. Messages are keyed by
// tenant so consumers see per-tenant ordering per partition.
type envelope struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	TenantID  string    `json:"tenant_id"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

type KafkaEmitter struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewKafkaEmitter(brokers []string, topic string, logger *zap.Logger) *KafkaEmitter {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		Async:                  true,
	}
	writer.Completion = func(messages []kafka.Message, err error) {
		if err != nil {
			logger.Warn("event delivery failed", zap.Int("messages", len(messages)), zap.Error(err))
		}
	}
	return &KafkaEmitter{writer: writer, logger: logger}
}

// Emit publishes asynchronously and never blocks the business operation.
// A marshalling or enqueue error is logged and dropped.
func (e *KafkaEmitter) Emit(ctx context.Context, tenantID, event string, payload any) {
	value, err := json.Marshal(envelope{
		EventID:   uuid.New().String(),
		EventType: event,
		TenantID:  tenantID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		e.logger.Warn("failed to marshal event", zap.String("event", event), zap.Error(err))
		return
	}

	err = e.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(tenantID),
		Value: value,
	})
	if err != nil {
		e.logger.Warn("failed to enqueue event", zap.String("event", event), zap.Error(err))
	}
}

func (e *KafkaEmitter) Close() error {
	return e.writer.Close()
}

var _ Emitter = (*KafkaEmitter)(nil)
