package model

type SaleItem struct {
	ProductID   string  `json:"product_id"`
	Quantity    int     `json:"quantity"`
	PriceAtSale float64 `json:"price_at_sale"`
}

// Sale is one immutable ledger entry. Timestamp keeps the exact ISO-8601 text
// that was stored, offset included.
type Sale struct {
	SaleID         string     `json:"sale_id"`
	Timestamp      string     `json:"timestamp"`
	Items          []SaleItem `json:"items"`
	TotalAmount    float64    `json:"total_amount"`
	AmountReceived float64    `json:"amount_received"`
	ChangeGiven    float64    `json:"change_given"`
	PaymentType    string     `json:"payment_type"`

	// TotalUnreadable is set when the stored total_amount was missing or not numeric.
	TotalUnreadable bool `json:"-"`
}

type ReceiptLine struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	ItemTotal float64 `json:"item_total"`
}

type Receipt struct {
	StoreName      string        `json:"store_name"`
	SaleID         string        `json:"sale_id"`
	Timestamp      string        `json:"timestamp"`
	Items          []ReceiptLine `json:"items"`
	TotalAmount    float64       `json:"total_amount"`
	AmountReceived float64       `json:"amount_received"`
	ChangeGiven    float64       `json:"change_given"`
	PaymentType    string        `json:"payment_type"`
}

type DailyReport struct {
	Date             string  `json:"date"`
	TotalSales       float64 `json:"total_sales"`
	TransactionCount int     `json:"transaction_count"`
}
