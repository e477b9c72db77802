package model

import "time"

// Reference types for a StockMovement.
const (
	MovementManual  = "manual"
	MovementRestock = "restock"
	MovementSale    = "sale"
)

// StockMovement describes one applied stock adjustment.
type StockMovement struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	QuantityChange int       `json:"quantity_change"`
	QuantityBefore int       `json:"quantity_before"`
	QuantityAfter  int       `json:"quantity_after"`
	Reason         string    `json:"reason"`
	ReferenceType  string    `json:"reference_type"`
	ReferenceID    string    `json:"reference_id"`
	CreatedAt      time.Time `json:"created_at"`
}
