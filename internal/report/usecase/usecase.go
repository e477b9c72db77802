package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kdjayakody/kdj-simple-pos/internal/apperror"
	"github.com/kdjayakody/kdj-simple-pos/internal/middleware"
	"github.com/kdjayakody/kdj-simple-pos/internal/model"
	"github.com/kdjayakody/kdj-simple-pos/internal/report"
	"github.com/kdjayakody/kdj-simple-pos/internal/sale"
	"github.com/kdjayakody/kdj-simple-pos/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type reportUseCase struct {
	ledger sale.Ledger
	loc    *time.Location
	now    func() time.Time
	logger logger.ZapLogger
}

func NewReportUseCase(ledger sale.Ledger, loc *time.Location, log logger.ZapLogger) report.UseCase {
	if loc == nil {
		loc = time.Local
	}
	return &reportUseCase{ledger: ledger, loc: loc, now: time.Now, logger: log}
}

func (uc *reportUseCase) DailyReport(ctx context.Context, date string) (*model.DailyReport, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		date = uc.now().In(uc.loc).Format(time.DateOnly)
	}
	log := uc.logger.With(zap.String("request_id", middleware.RequestID(ctx)), zap.String("date", date))

	sales, err := uc.ledger.ByDate(ctx, date)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			log.Warn("daily report rejected", zap.Error(err))
			return nil, err
		}
		log.Error("failed to read sales for daily report", zap.Error(err))
		return nil, err
	}

	total := decimal.Zero
	for _, s := range sales {
		if s.TotalUnreadable {
			log.Warn("sale has missing or invalid total_amount, skipping its amount", zap.String("sale_id", s.SaleID))
			continue
		}
		total = total.Add(decimal.NewFromFloat(s.TotalAmount))
	}

	return &model.DailyReport{
		Date:             date,
		TotalSales:       total.InexactFloat64(),
		TransactionCount: len(sales),
	}, nil
}
