package dto

type CategoryFilters struct {
	SearchQuery  string // substring of the category name, case-insensitive
	IncludeBlank bool   // keep products with no category as a "" row
	Page         int
	PageSize     int
}
