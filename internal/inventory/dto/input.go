package dto

type AdjustInventoryInput struct {
	ProductID      string `validate:"required"`
	QuantityChange int
	AllowNegative  bool
	Reason         string `validate:"max=200"`
	ReferenceID    string
	ReferenceType  string // manual, restock, sale
}
