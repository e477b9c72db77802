package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kdjayakody/kdj-simple-pos/internal/apperror"
	"github.com/kdjayakody/kdj-simple-pos/internal/model"
	"github.com/kdjayakody/kdj-simple-pos/internal/product"
	"github.com/kdjayakody/kdj-simple-pos/internal/product/dto"
	"github.com/kdjayakody/kdj-simple-pos/pkg/logger"
	"go.uber.org/zap"
)

type productUseCase struct {
	repo     product.Repository
	validate *validator.Validate
	logger   logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:     repo,
		validate: validator.New(),
		logger:   log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	input.ID = strings.TrimSpace(input.ID)
	input.Name = strings.TrimSpace(input.Name)
	if err := uc.validate.Struct(input); err != nil {
		return nil, apperror.FromValidator(err)
	}

	p, err := uc.repo.Add(ctx, model.Product{
		ID:       input.ID,
		Name:     input.Name,
		Category: input.Category,
		Price:    input.Price,
		Stock:    input.Stock,
	})
	if err != nil {
		uc.logFailure("create product", input.ID, err)
		return nil, err
	}

	uc.logger.Info("product created", zap.String("product_id", p.ID), zap.Int("stock", p.Stock))
	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return uc.repo.GetByID(ctx, id)
}

// ListProducts searches id and name by SearchQuery, then narrows by Category.
func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error) {
	if filters == nil {
		filters = &dto.ProductFilters{}
	}

	products, err := uc.repo.Search(ctx, filters.SearchQuery)
	if err != nil {
		uc.logger.Error("failed to list products", zap.String("search", filters.SearchQuery), zap.Error(err))
		return nil, err
	}

	category := strings.TrimSpace(filters.Category)
	if category == "" {
		return products, nil
	}
	filtered := make([]model.Product, 0, len(products))
	for _, p := range products {
		if strings.EqualFold(p.Category, category) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	input.ID = strings.TrimSpace(input.ID)
	input.Name = strings.TrimSpace(input.Name)
	if err := uc.validate.Struct(input); err != nil {
		return nil, apperror.FromValidator(err)
	}

	p, err := uc.repo.Update(ctx, input.ID, model.ProductFields{
		Name:     input.Name,
		Category: input.Category,
		Price:    input.Price,
	})
	if err != nil {
		uc.logFailure("update product", input.ID, err)
		return nil, err
	}
	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logFailure("delete product", id, err)
		return err
	}
	uc.logger.Info("product deleted", zap.String("product_id", strings.TrimSpace(id)))
	return nil
}

// logFailure keeps caller mistakes at Warn; anything else is an infrastructure failure.
func (uc *productUseCase) logFailure(op, id string, err error) {
	fields := []zap.Field{zap.String("op", op), zap.String("product_id", id), zap.Error(err)}
	if errors.Is(err, apperror.ErrValidation) || errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrConflict) {
		uc.logger.Warn("product request rejected", fields...)
		return
	}
	uc.logger.Error("product request failed", fields...)
}
