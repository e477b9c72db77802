package product

import (
	"context"

	"github.com/kdjayakody/kdj-simple-pos/internal/model"
)

// Collection is the document name products are persisted under.
const Collection = "products"

type Repository interface {
	GetAll(ctx context.Context) ([]model.Product, error)
	// GetByID returns nil, nil when no product has the trimmed id.
	GetByID(ctx context.Context, id string) (*model.Product, error)
	IsIDUnique(ctx context.Context, id string) (bool, error)
	Add(ctx context.Context, p model.Product) (*model.Product, error)
	Update(ctx context.Context, id string, fields model.ProductFields) (*model.Product, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, term string) ([]model.Product, error)

	// AdjustStock applies delta and returns the resulting stock level.
	AdjustStock(ctx context.Context, id string, delta int, allowNegative bool) (int, error)
}
