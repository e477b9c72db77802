package listener

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kdjayakody/kdj-simple-pos/internal/apperror"
	"github.com/kdjayakody/kdj-simple-pos/internal/inventory/dto"
	"github.com/kdjayakody/kdj-simple-pos/internal/model"
	"github.com/kdjayakody/kdj-simple-pos/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// queueReader replays queued messages, then blocks until ctx ends.
type queueReader struct {
	mu    sync.Mutex
	queue []kafka.Message
	errs  []error
}

func (r *queueReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		r.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

type recordingUseCase struct {
	mu     sync.Mutex
	inputs []dto.AdjustInventoryInput
	err    error
}

func (u *recordingUseCase) AdjustInventory(_ context.Context, in *dto.AdjustInventoryInput) (*model.StockMovement, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.inputs = append(u.inputs, *in)
	if u.err != nil {
		return nil, u.err
	}
	return &model.StockMovement{ProductID: in.ProductID, QuantityChange: in.QuantityChange}, nil
}

func (u *recordingUseCase) ListMovements(context.Context, *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return nil, 0, nil
}

func (u *recordingUseCase) calls() []dto.AdjustInventoryInput {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]dto.AdjustInventoryInput(nil), u.inputs...)
}

func event(t *testing.T, eventType, productID string, qty float64) kafka.Message {
	t.Helper()
	body, err := json.Marshal(StockReceivedEvent{
		EventID:   "evt-" + productID,
		EventType: eventType,
		Payload:   StockReceivedPayload{ProductID: productID, Quantity: qty},
	})
	require.NoError(t, err)
	return kafka.Message{Value: body}
}

func run(t *testing.T, reader *queueReader, uc *recordingUseCase) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewInventoryListener(reader, uc, logger.Wrap(zap.New(core)))
	l.retryDelay = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		reader.mu.Lock()
		defer reader.mu.Unlock()
		return len(reader.queue) == 0 && len(reader.errs) == 0
	}, time.Second, time.Millisecond)
	cancel()
	<-done
	return logs
}

func TestRestockEventsAdjustStock(t *testing.T) {
	reader := &queueReader{
		errs: []error{errors.New("broker hiccup")},
		queue: []kafka.Message{
			event(t, StockReceivedType, "SKU1", 12),
			{Value: []byte("not json")},
			event(t, "OrderCreated", "SKU1", 1),
			event(t, StockReceivedType, "SKU1", -3),
			event(t, StockReceivedType, "SKU1", 1.5),
			event(t, StockReceivedType, "B1", 4),
		},
	}
	uc := &recordingUseCase{}
	logs := run(t, reader, uc)

	calls := uc.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, dto.AdjustInventoryInput{
		ProductID:      "SKU1",
		QuantityChange: 12,
		Reason:         "stock received",
		ReferenceID:    "evt-SKU1",
		ReferenceType:  model.MovementRestock,
	}, calls[0])
	assert.False(t, calls[0].AllowNegative)
	assert.Equal(t, "B1", calls[1].ProductID)

	assert.Equal(t, 1, logs.FilterMessage("failed to read kafka message").Len())
	assert.Equal(t, 1, logs.FilterMessage("skipping undecodable restock event").Len())
	assert.Equal(t, 2, logs.FilterMessage("skipping invalid restock event").Len())
}

func TestRestockForUnknownProductIsSkipped(t *testing.T) {
	reader := &queueReader{queue: []kafka.Message{event(t, StockReceivedType, "GHOST", 1)}}
	uc := &recordingUseCase{err: apperror.ErrNotFound}
	logs := run(t, reader, uc)

	assert.Len(t, uc.calls(), 1)
	assert.Equal(t, 1, logs.FilterMessage("restock for unknown product skipped").Len())
}
