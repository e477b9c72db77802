package listener

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/kdjayakody/kdj-simple-pos/internal/apperror"
	"github.com/kdjayakody/kdj-simple-pos/internal/inventory"
	"github.com/kdjayakody/kdj-simple-pos/internal/inventory/dto"
	"github.com/kdjayakody/kdj-simple-pos/internal/model"
	"github.com/kdjayakody/kdj-simple-pos/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const StockReceivedType = "StockReceived"

// MessageReader is satisfied by *broker.Consumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type InventoryListener struct {
	consumer   MessageReader
	uc         inventory.UseCase
	logger     logger.ZapLogger
	retryDelay time.Duration
}

func NewInventoryListener(consumer MessageReader, uc inventory.UseCase, logger logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer:   consumer,
		uc:         uc,
		logger:     logger,
		retryDelay: time.Second,
	}
}

// Start consumes restock events until ctx is cancelled.
func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("starting restock listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopping restock listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.retryDelay):
				}
				continue
			}
			l.processMessage(ctx, msg)
		}
	}
}

type StockReceivedEvent struct {
	EventID   string               `json:"event_id"`
	EventType string               `json:"event_type"`
	Payload   StockReceivedPayload `json:"payload"`
	Timestamp time.Time            `json:"timestamp"`
}

type StockReceivedPayload struct {
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	Reason    string  `json:"reason"`
}

func (l *InventoryListener) processMessage(ctx context.Context, msg kafka.Message) {
	var event StockReceivedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		l.logger.Warn("skipping undecodable restock event", zap.Int64("offset", msg.Offset), zap.Error(err))
		return
	}
	if event.EventType != StockReceivedType {
		return
	}

	p := event.Payload
	if p.ProductID == "" || p.Quantity <= 0 || p.Quantity != float64(int(p.Quantity)) {
		l.logger.Warn("skipping invalid restock event",
			zap.String("event_id", event.EventID),
			zap.String("product_id", p.ProductID),
			zap.Float64("quantity", p.Quantity),
		)
		return
	}

	reason := p.Reason
	if reason == "" {
		reason = "stock received"
	}
	_, err := l.uc.AdjustInventory(ctx, &dto.AdjustInventoryInput{
		ProductID:      p.ProductID,
		QuantityChange: int(p.Quantity),
		Reason:         reason,
		ReferenceID:    event.EventID,
		ReferenceType:  model.MovementRestock,
	})
	switch {
	case err == nil:
		l.logger.Info("restock applied", zap.String("event_id", event.EventID), zap.String("product_id", p.ProductID))
	case errors.Is(err, apperror.ErrNotFound):
		l.logger.Warn("restock for unknown product skipped", zap.String("event_id", event.EventID), zap.String("product_id", p.ProductID))
	default:
		// Offsets are committed on read, so the event is not redelivered.
		l.logger.Error("failed to apply restock",
			zap.String("event_id", event.EventID),
			zap.String("product_id", p.ProductID),
			zap.Error(err),
		)
	}
}
