package report

import (
	"context"

	"github.com/kdjayakody/kdj-simple-pos/internal/model"
)

type UseCase interface {
	// DailyReport summarizes the sales recorded on date (YYYY-MM-DD). An empty
	// date means today in the store's timezone.
	DailyReport(ctx context.Context, date string) (*model.DailyReport, error)
}
