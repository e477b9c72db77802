package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kdjayakody/kdj-simple-pos/internal/apperror"
	"github.com/kdjayakody/kdj-simple-pos/internal/inventory"
	"github.com/kdjayakody/kdj-simple-pos/internal/inventory/dto"
	"github.com/kdjayakody/kdj-simple-pos/internal/middleware"
	"github.com/kdjayakody/kdj-simple-pos/internal/model"
	"github.com/kdjayakody/kdj-simple-pos/internal/product"
	"github.com/kdjayakody/kdj-simple-pos/pkg/logger"
	"go.uber.org/zap"
)

type inventoryUseCase struct {
	products product.Repository
	repo     inventory.Repository
	validate *validator.Validate
	now      func() time.Time
	logger   logger.ZapLogger
}

func NewInventoryUseCase(products product.Repository, repo inventory.Repository, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		products: products,
		repo:     repo,
		validate: validator.New(),
		now:      time.Now,
		logger:   log,
	}
}

// AdjustInventory applies the delta through the product repository, whose
// exclusive lock makes the read-check-write atomic, then journals the movement.
func (uc *inventoryUseCase) AdjustInventory(ctx context.Context, input *dto.AdjustInventoryInput) (*model.StockMovement, error) {
	if input == nil {
		return nil, apperror.Invalid("", "adjustment is required")
	}
	input.ProductID = strings.TrimSpace(input.ProductID)
	if err := uc.validate.Struct(input); err != nil {
		return nil, apperror.FromValidator(err)
	}

	log := uc.logger.With(
		zap.String("request_id", middleware.RequestID(ctx)),
		zap.String("product_id", input.ProductID),
		zap.Int("quantity_change", input.QuantityChange),
	)

	after, err := uc.products.AdjustStock(ctx, input.ProductID, input.QuantityChange, input.AllowNegative)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrInsufficientStock) {
			log.Warn("stock adjustment rejected", zap.Error(err))
		} else {
			log.Error("stock adjustment failed", zap.Error(err))
		}
		return nil, err
	}

	refType := input.ReferenceType
	if refType == "" {
		refType = model.MovementManual
	}
	movement := &model.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      input.ProductID,
		QuantityChange: input.QuantityChange,
		QuantityBefore: after - input.QuantityChange,
		QuantityAfter:  after,
		Reason:         input.Reason,
		ReferenceType:  refType,
		ReferenceID:    input.ReferenceID,
		CreatedAt:      uc.now().UTC(),
	}
	log.Info("stock adjusted",
		zap.Int("quantity_before", movement.QuantityBefore),
		zap.Int("quantity_after", movement.QuantityAfter),
		zap.String("reason", movement.Reason),
		zap.String("reference_type", refType),
	)

	// The stock change already happened; a journal failure must not report it as failed.
	if err := uc.repo.LogMovement(ctx, movement); err != nil {
		log.Error("failed to journal stock movement", zap.String("movement_id", movement.ID), zap.Error(err))
	}
	return movement, nil
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	if filters != nil {
		filters.ProductID = strings.TrimSpace(filters.ProductID)
	}
	return uc.repo.ListMovements(ctx, filters)
}
