package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/kdjayakody/kdj-simple-pos/internal/apperror"
	"github.com/kdjayakody/kdj-simple-pos/internal/docstore"
	"github.com/kdjayakody/kdj-simple-pos/internal/product"
	"github.com/kdjayakody/kdj-simple-pos/internal/product/dto"
	"github.com/kdjayakody/kdj-simple-pos/internal/product/repository"
	"github.com/kdjayakody/kdj-simple-pos/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newUseCase(t *testing.T) (product.UseCase, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.Wrap(zap.New(core))
	store := docstore.New(docstore.NewMemoryBackend(time.Second), log)
	return NewProductUseCase(repository.NewDocumentRepository(store), log), logs
}

func seed(t *testing.T, uc product.UseCase) {
	t.Helper()
	inputs := []dto.CreateProductInput{
		{ID: "SKU1", Name: "Milk", Category: "Dairy", Price: 350, Stock: 10},
		{ID: "SKU2", Name: "Cheese", Category: "dairy", Price: 900, Stock: 2},
		{ID: "B1", Name: "Bread", Category: "Bakery", Price: 120, Stock: 15},
	}
	for i := range inputs {
		_, err := uc.CreateProduct(context.Background(), &inputs[i])
		require.NoError(t, err)
	}
}

func TestCreateProductValidatesInput(t *testing.T) {
	uc, logs := newUseCase(t)

	_, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{ID: "SKU1", Name: "  ", Price: 10})
	require.ErrorIs(t, err, apperror.ErrValidation)
	var ve *apperror.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)

	_, err = uc.CreateProduct(context.Background(), &dto.CreateProductInput{ID: "SKU1", Name: "Milk", Price: -5})
	require.ErrorIs(t, err, apperror.ErrValidation)

	assert.Zero(t, logs.FilterMessage("product created").Len())
}

func TestCreateProductDuplicateLogsWarn(t *testing.T) {
	uc, logs := newUseCase(t)
	seed(t, uc)

	_, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{ID: "SKU1", Name: "Milk again", Price: 1})
	require.ErrorIs(t, err, apperror.ErrConflict)

	rejected := logs.FilterMessage("product request rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, zapcore.WarnLevel, rejected[0].Level)
	assert.Equal(t, "SKU1", rejected[0].ContextMap()["product_id"])
}

func TestListProductsFilters(t *testing.T) {
	uc, _ := newUseCase(t)
	seed(t, uc)
	ctx := context.Background()

	all, err := uc.ListProducts(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	dairy, err := uc.ListProducts(ctx, &dto.ProductFilters{Category: "DAIRY"})
	require.NoError(t, err)
	assert.Len(t, dairy, 2)

	got, err := uc.ListProducts(ctx, &dto.ProductFilters{SearchQuery: "che", Category: "dairy"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "SKU2", got[0].ID)
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	uc, _ := newUseCase(t)
	seed(t, uc)
	ctx := context.Background()

	p, err := uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: "B1", Name: "Sourdough", Category: "Bakery", Price: 250})
	require.NoError(t, err)
	assert.Equal(t, "Sourdough", p.Name)
	assert.Equal(t, 15, p.Stock)

	_, err = uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: "nope", Name: "X", Price: 1})
	require.ErrorIs(t, err, apperror.ErrNotFound)

	require.NoError(t, uc.DeleteProduct(ctx, "B1"))
	got, err := uc.GetProduct(ctx, "B1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.ErrorIs(t, uc.DeleteProduct(ctx, "B1"), apperror.ErrNotFound)
}
