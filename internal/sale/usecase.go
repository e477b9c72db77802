package sale

import (
	"context"

	"github.com/kdjayakody/kdj-simple-pos/internal/model"
	"github.com/kdjayakody/kdj-simple-pos/internal/sale/dto"
)

type UseCase interface {
	// ProcessSale validates, records and fulfils one sale. A rejected sale
	// returns a result with Success false together with a *RejectedError.
	ProcessSale(ctx context.Context, input *dto.ProcessSaleInput) (*dto.SaleResult, error)
	// ListSales returns the sales of date (YYYY-MM-DD), or the whole ledger when date is empty.
	ListSales(ctx context.Context, date string) ([]model.Sale, error)
}

// EventPublisher announces completed sales to other systems.
type EventPublisher interface {
	PublishSaleCompleted(ctx context.Context, s model.Sale) error
}
