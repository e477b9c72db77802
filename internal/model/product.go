package model

type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`

	// StockUnreadable is set when the stored stock was missing or not a whole number in range.
	StockUnreadable bool `json:"-"`
}

// ProductFields are the attributes the general update path may change.
// Stock is deliberately absent; it only moves through stock adjustment.
type ProductFields struct {
	Name     string
	Category string
	Price    float64
}
