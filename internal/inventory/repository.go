package inventory

import (
	"context"

	"github.com/kdjayakody/kdj-simple-pos/internal/inventory/dto"
	"github.com/kdjayakody/kdj-simple-pos/internal/model"
)

// Collection holds the stock movement journal.
const Collection = "stock_movements"

type Repository interface {
	// Movements / Audit
	LogMovement(ctx context.Context, movement *model.StockMovement) error
	// ListMovements returns the matching page newest first, with the total match count.
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
