package category

import (
	"context"

	"github.com/kdjayakody/kdj-simple-pos/internal/model"
)

// Repository is the slice of the product catalog categories are derived from.
type Repository interface {
	GetAll(ctx context.Context) ([]model.Product, error)
}
