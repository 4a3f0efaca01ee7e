package dto

type CreateItemInput struct {
	ItemCode     string
	Description  string
	UOM          string
	Kit          bool
	PackQuantity float64
}

type UpdateItemInput struct {
	ID           string
	ItemCode     string
	Description  string
	UOM          string
	Kit          bool
	PackQuantity float64
	Active       bool
}

type ItemFilters struct {
	SearchQuery string
	Kit         *bool
	Active      *bool
	Page        int
	PageSize    int
}
