package model

// CategorySummary aggregates the products sharing one category, compared
// case-insensitively. Name keeps the first spelling seen in the catalog.
type CategorySummary struct {
	Name         string  `json:"name"`
	ProductCount int     `json:"product_count"`
	UnitsInStock int     `json:"units_in_stock"`
	StockValue   float64 `json:"stock_value"`
}
