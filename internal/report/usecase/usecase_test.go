package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/kdjayakody/kdj-simple-pos/internal/apperror"
	"github.com/kdjayakody/kdj-simple-pos/internal/docstore"
	"github.com/kdjayakody/kdj-simple-pos/internal/model"
	"github.com/kdjayakody/kdj-simple-pos/internal/sale"
	"github.com/kdjayakody/kdj-simple-pos/internal/sale/repository"
	"github.com/kdjayakody/kdj-simple-pos/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var colombo = time.FixedZone("+0530", 5*3600+30*60)

func newReport(t *testing.T, ledgerJSON string) (*reportUseCase, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.Wrap(zap.New(core))

	backend := docstore.NewMemoryBackend(time.Second)
	if ledgerJSON != "" {
		backend.Put(sale.Collection, []byte(ledgerJSON))
	}
	ledger := repository.NewDocumentLedger(docstore.New(backend, log), colombo, log)
	uc := NewReportUseCase(ledger, colombo, log).(*reportUseCase)
	uc.now = func() time.Time { return time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC) }
	return uc, logs
}

func TestDailyReportWithoutSales(t *testing.T) {
	uc, _ := newReport(t, "")

	r, err := uc.DailyReport(context.Background(), "2024-03-02")
	require.NoError(t, err)
	assert.Equal(t, &model.DailyReport{Date: "2024-03-02", TotalSales: 0, TransactionCount: 0}, r)
}

func TestDailyReportFoldsTotals(t *testing.T) {
	uc, logs := newReport(t, `[
		{"sale_id": "20240301-001", "timestamp": "2024-03-01T22:00:00+05:30", "items": [], "total_amount": 999},
		{"sale_id": "20240302-001", "timestamp": "2024-03-02T09:00:00+05:30", "items": [], "total_amount": 0.1},
		{"sale_id": "20240302-002", "timestamp": "2024-03-02T10:00:00+05:30", "items": [], "total_amount": "0.2"},
		{"sale_id": "20240302-003", "timestamp": "2024-03-02T11:00:00+05:30", "items": [], "total_amount": "n/a"},
		{"sale_id": "20240302-004", "timestamp": "2024-03-02T12:00:00+05:30", "items": []}
	]`)

	r, err := uc.DailyReport(context.Background(), "2024-03-02")
	require.NoError(t, err)
	assert.Equal(t, 0.3, r.TotalSales)
	assert.Equal(t, 4, r.TransactionCount, "unreadable totals still count as transactions")
	assert.Equal(t, 2, logs.FilterMessage("sale has missing or invalid total_amount, skipping its amount").Len())
}

func TestDailyReportDefaultsToToday(t *testing.T) {
	uc, _ := newReport(t, `[
		{"sale_id": "20240302-001", "timestamp": "2024-03-02T01:00:00+05:30", "items": [], "total_amount": 50}
	]`)

	r, err := uc.DailyReport(context.Background(), " ")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", r.Date)
	assert.Equal(t, 50.0, r.TotalSales)
}

func TestDailyReportRejectsMalformedDate(t *testing.T) {
	uc, _ := newReport(t, "")

	_, err := uc.DailyReport(context.Background(), "2024/03/02")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestDailyReportSurfacesUnreadableLedger(t *testing.T) {
	uc, logs := newReport(t, `{"not": "a list"`)

	_, err := uc.DailyReport(context.Background(), "2024-03-02")
	assert.ErrorIs(t, err, docstore.ErrDecode)
	assert.Equal(t, 1, logs.FilterMessage("failed to read sales for daily report").Len())
}
