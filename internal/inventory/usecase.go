package inventory

import (
	"context"

	"github.com/kdjayakody/kdj-simple-pos/internal/inventory/dto"
	"github.com/kdjayakody/kdj-simple-pos/internal/model"
)

type UseCase interface {
	AdjustInventory(ctx context.Context, input *dto.AdjustInventoryInput) (*model.StockMovement, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
