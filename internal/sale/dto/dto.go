package dto

import "github.com/kdjayakody/kdj-simple-pos/internal/model"

type SaleResult struct {
	Success bool           `json:"success"`
	SaleID  string         `json:"sale_id,omitempty"`
	Message string         `json:"message"`
	Receipt *model.Receipt `json:"receipt,omitempty"`
	// StockWarnings lists product ids whose stock could not be decremented
	// after the sale was recorded.
	StockWarnings []string `json:"warnings,omitempty"`
}
