package dto

type CreateLocationInput struct {
	Warehouse string
	Code      string
	Kind      string
}

type LocationFilters struct {
	Warehouse string
	Kind      string
	Active    *bool
	Page      int
	PageSize  int
}
