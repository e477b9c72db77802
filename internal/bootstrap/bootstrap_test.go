package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kdjayakody/kdj-simple-pos/config"
	"github.com/kdjayakody/kdj-simple-pos/internal/model"
	"github.com/kdjayakody/kdj-simple-pos/internal/product"
	"github.com/kdjayakody/kdj-simple-pos/internal/sale/dto"
	"github.com/kdjayakody/kdj-simple-pos/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	t.Setenv("STORE_BACKEND", backend)
	t.Setenv("DATA_DIR", filepath.Join(t.TempDir(), "data"))
	cfg, err := config.Parse()
	require.NoError(t, err)
	return cfg
}

func num(v float64) *float64 { return &v }

func TestFileStoreServesASale(t *testing.T) {
	cfg := testConfig(t, "file")
	ctx := context.Background()
	log := logger.NewNop()

	store, err := OpenStore(ctx, cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	svc, err := NewServices(cfg, store, nil, log)
	require.NoError(t, err)

	_, err = svc.Products.Add(ctx, model.Product{ID: "SKU1", Name: "Milk", Price: 350, Stock: 10})
	require.NoError(t, err)

	res, err := svc.SaleUseCase.ProcessSale(ctx, &dto.ProcessSaleInput{
		Items:          []dto.SaleItemInput{{ProductID: "SKU1", Quantity: num(3), PriceAtSale: num(350)}},
		TotalAmount:    num(1050),
		AmountReceived: num(1200),
		ChangeGiven:    num(150),
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "My Simple Grocery", res.Receipt.StoreName)

	_, err = os.Stat(filepath.Join(cfg.Store.DataDir, product.Collection+".json"))
	assert.NoError(t, err, "products persisted as a json document")

	all, err := svc.Ledger.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	report, err := svc.Report.DailyReport(ctx, all[0].Timestamp[:10])
	require.NoError(t, err)
	assert.Equal(t, 1050.0, report.TotalSales)
}

func TestMemoryStore(t *testing.T) {
	cfg := testConfig(t, "memory")
	store, err := OpenStore(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestNewServicesRejectsBadTimezone(t *testing.T) {
	cfg := testConfig(t, "memory")
	cfg.Server.Timezone = "Nowhere/Special"
	store, err := OpenStore(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)

	_, err = NewServices(cfg, store, nil, logger.NewNop())
	assert.Error(t, err)
}

func TestOpenStoreUnknownBackend(t *testing.T) {
	cfg := testConfig(t, "memory")
	cfg.Store.Backend = "etcd"
	_, err := OpenStore(context.Background(), cfg, logger.NewNop())
	assert.ErrorContains(t, err, "etcd")
}
