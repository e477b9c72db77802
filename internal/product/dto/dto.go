package dto

type ProductFilters struct {
	SearchQuery string // matched against id and name
	Category    string // exact, case-insensitive
}
