package dto

// MoveUnitInput moves one scanned unit between locations of a warehouse.
type MoveUnitInput struct {
	Warehouse      string  `json:"warehouse"`
	ScanCode       string  `json:"scanCode"`
	FromLocationID string  `json:"fromLocationId"`
	ToLocationID   string  `json:"toLocationId"`
	ItemCode       string  `json:"itemCode"`
	Quantity       float64 `json:"quantity"`
	Note           string  `json:"note"`
	UserID         string  `json:"-"`
}

// MoveQuantityInput moves untracked quantity between locations.
type MoveQuantityInput struct {
	Warehouse      string  `json:"warehouse"`
	FromLocationID string  `json:"fromLocationId"`
	ToLocationID   string  `json:"toLocationId"`
	ItemCode       string  `json:"itemCode"`
	Quantity       float64 `json:"quantity"`
	Note           string  `json:"note"`
	UserID         string  `json:"-"`
}
