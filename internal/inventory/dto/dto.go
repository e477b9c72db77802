package dto

type MovementFilters struct {
	ProductID     string
	ReferenceType string
	Page          int
	PageSize      int
}
