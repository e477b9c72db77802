package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/kdjayakody/kdj-simple-pos/internal/category"
	"github.com/kdjayakody/kdj-simple-pos/internal/category/dto"
	"github.com/kdjayakody/kdj-simple-pos/internal/model"
	"github.com/kdjayakody/kdj-simple-pos/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo   category.Repository
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		logger: log,
	}
}

type bucket struct {
	summary model.CategorySummary
	value   decimal.Decimal
}

// ListCategories groups the catalog by category and returns the groups sorted
// by name. StockValue counts only positive stock.
func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.CategorySummary, int, error) {
	if filters == nil {
		filters = &dto.CategoryFilters{}
	}

	products, err := uc.repo.GetAll(ctx)
	if err != nil {
		uc.logger.Error("failed to load products for categories", zap.Error(err))
		return nil, 0, err
	}

	search := strings.ToLower(strings.TrimSpace(filters.SearchQuery))
	buckets := make(map[string]*bucket)
	for _, p := range products {
		name := strings.TrimSpace(p.Category)
		if name == "" && !filters.IncludeBlank {
			continue
		}
		key := strings.ToLower(name)
		if search != "" && !strings.Contains(key, search) {
			continue
		}

		b, ok := buckets[key]
		if !ok {
			b = &bucket{summary: model.CategorySummary{Name: name}}
			buckets[key] = b
		}
		b.summary.ProductCount++
		b.summary.UnitsInStock += p.Stock
		if p.Stock > 0 {
			b.value = b.value.Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(p.Stock))))
		}
	}

	categories := make([]model.CategorySummary, 0, len(buckets))
	for _, b := range buckets {
		b.summary.StockValue = b.value.Round(2).InexactFloat64()
		categories = append(categories, b.summary)
	}
	sort.Slice(categories, func(i, j int) bool {
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})

	count := len(categories)
	if filters.PageSize > 0 {
		page := max(filters.Page, 1)
		offset := (page - 1) * filters.PageSize
		if offset >= count {
			return []model.CategorySummary{}, count, nil
		}
		categories = categories[offset:min(offset+filters.PageSize, count)]
	}
	return categories, count, nil
}
