package dto

// SaleItemInput is one cart line as submitted. Pointers distinguish a missing
// value from zero.
type SaleItemInput struct {
	ProductID   string   `validate:"required"`
	Quantity    *float64 `validate:"required"`
	PriceAtSale *float64 `validate:"required,gte=0"`
}

type ProcessSaleInput struct {
	Items          []SaleItemInput `validate:"required"`
	TotalAmount    *float64        `validate:"required"`
	AmountReceived *float64        `validate:"required"`
	ChangeGiven    *float64        `validate:"required"`
	PaymentType    string
}
