package handler

import (
	"context"

	"github.com/kdjayakody/kdj-simple-pos/api/posv1"
	"github.com/kdjayakody/kdj-simple-pos/internal/apperror"
	"github.com/kdjayakody/kdj-simple-pos/internal/inventory"
	"github.com/kdjayakody/kdj-simple-pos/internal/inventory/dto"
	"github.com/kdjayakody/kdj-simple-pos/internal/model"
	"github.com/kdjayakody/kdj-simple-pos/pkg/logger"
	"google.golang.org/protobuf/types/known/structpb"
)

type InventoryHandler struct {
	posv1.UnimplementedInventoryServiceServer
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) AdjustStock(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	delta, ok := posv1.Number(req, "quantity_change")
	if !ok {
		return nil, apperror.Invalid("quantity_change", "quantity_change must be a number")
	}
	if delta != float64(int(delta)) {
		return nil, apperror.Invalid("quantity_change", "quantity_change must be a whole number")
	}

	input := &dto.AdjustInventoryInput{
		ProductID:      posv1.String(req, "product_id"),
		QuantityChange: int(delta),
		AllowNegative:  posv1.Bool(req, "allow_negative"),
		Reason:         posv1.String(req, "reason"),
		ReferenceID:    posv1.String(req, "reference_id"),
		ReferenceType:  model.MovementManual,
	}

	movement, err := h.uc.AdjustInventory(ctx, input)
	if err != nil {
		return nil, err
	}

	body, err := posv1.Encode(movement)
	if err != nil {
		return nil, err
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"movement": structpb.NewStructValue(body),
		"stock":    structpb.NewNumberValue(float64(movement.QuantityAfter)),
	}}, nil
}

func (h *InventoryHandler) ListMovements(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	page, _ := posv1.Number(req, "page")
	pageSize, _ := posv1.Number(req, "page_size")
	filters := &dto.MovementFilters{
		ProductID:     posv1.String(req, "product_id"),
		ReferenceType: posv1.String(req, "reference_type"),
		Page:          int(page),
		PageSize:      int(pageSize),
	}

	mvs, count, err := h.uc.ListMovements(ctx, filters)
	if err != nil {
		return nil, err
	}

	return posv1.Encode(struct {
		Movements []model.StockMovement `json:"movements"`
		Total     int                   `json:"total"`
	}{Movements: mvs, Total: count})
}
