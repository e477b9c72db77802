package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kdjayakody/kdj-simple-pos/internal/model"
)

const SaleCompletedType = "SaleCompleted"

type SaleCompletedEvent struct {
	EventID   string     `json:"event_id"`
	EventType string     `json:"event_type"`
	Payload   model.Sale `json:"payload"`
	Timestamp time.Time  `json:"timestamp"`
}

// Producer is satisfied by *broker.Producer.
type Producer interface {
	Publish(ctx context.Context, key string, value any) error
}

// KafkaPublisher emits SaleCompleted events keyed by sale id.
type KafkaPublisher struct {
	producer Producer
	newID    func() string
	now      func() time.Time
}

func NewKafkaPublisher(producer Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, newID: uuid.NewString, now: time.Now}
}

func (p *KafkaPublisher) PublishSaleCompleted(ctx context.Context, s model.Sale) error {
	return p.producer.Publish(ctx, s.SaleID, SaleCompletedEvent{
		EventID:   p.newID(),
		EventType: SaleCompletedType,
		Payload:   s,
		Timestamp: p.now().UTC(),
	})
}
