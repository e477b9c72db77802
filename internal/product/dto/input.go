package dto

type CreateProductInput struct {
	ID       string  `validate:"required,max=64"`
	Name     string  `validate:"required,max=200"`
	Category string  `validate:"max=100"`
	Price    float64 `validate:"gte=0"`
	Stock    int     `validate:"gte=0"`
}

type UpdateProductInput struct {
	ID       string  `validate:"required"`
	Name     string  `validate:"required,max=200"`
	Category string  `validate:"max=100"`
	Price    float64 `validate:"gte=0"`
}
