package sale

import (
	"context"

	"github.com/kdjayakody/kdj-simple-pos/internal/model"
)

// Collection is the document name the ledger is persisted under.
const Collection = "sales"

// Ledger is the append-only record of completed sales.
type Ledger interface {
	// GenerateSaleID returns the next YYYYMMDD-NNN id for today. It reserves
	// nothing: two calls before an Append can return the same id.
	GenerateSaleID(ctx context.Context) (string, error)
	// Append records s. An id already present in the ledger is a conflict.
	Append(ctx context.Context, s model.Sale) error
	// ByDate returns the sales whose timestamp starts with date (YYYY-MM-DD).
	ByDate(ctx context.Context, date string) ([]model.Sale, error)
	All(ctx context.Context) ([]model.Sale, error)
}
