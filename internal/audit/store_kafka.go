package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"permitdesk/internal/platform/kafka"
)

// kafkaProducer is the slice of the platform producer this sink needs.
type kafkaProducer interface {
	Produce(ctx context.Context, msg *kafka.Message) error
}

// KafkaStore publishes audit events to a Kafka topic. It satisfies Store so
// it can sit behind the async Publisher; reads are not supported on this sink.
type KafkaStore struct {
	producer kafkaProducer
	topic    string
}

func NewKafkaStore(producer kafkaProducer, topic string) *KafkaStore {
	return &KafkaStore{producer: producer, topic: topic}
}

type kafkaPayload struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	ActorID   string `json:"actor_id,omitempty"`
	Action    string `json:"action"`
	Entity    string `json:"entity"`
	EntityID  string `json:"entity_id"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *KafkaStore) Append(ctx context.Context, event Event) error {
	payload := kafkaPayload{
		ID:        event.ID.String(),
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		ActorID:   event.ActorID,
		Action:    event.Action,
		Entity:    event.Entity,
		EntityID:  event.EntityID,
		Detail:    event.Detail,
		RequestID: event.RequestID,
	}
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}
	// Key by entity id so all events for one attempt land on one partition.
	return s.producer.Produce(ctx, &kafka.Message{
		Topic: s.topic,
		Key:   []byte(event.EntityID),
		Value: value,
	})
}

func (s *KafkaStore) ListByEntity(context.Context, string, string) ([]Event, error) {
	return nil, fmt.Errorf("kafka audit sink is write-only")
}
