package category

import (
	"context"

	"github.com/kdjayakody/kdj-simple-pos/internal/category/dto"
	"github.com/kdjayakody/kdj-simple-pos/internal/model"
)

type UseCase interface {
	ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.CategorySummary, int, error)
}
