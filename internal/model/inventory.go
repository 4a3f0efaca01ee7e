package model

import "time"

// InventoryLevel is one row of current_inventory: the quantity of an item
// sitting at a location. Quantity never goes below zero.
type InventoryLevel struct {
	ID         string    `db:"id" json:"id"`
	Warehouse  string    `db:"warehouse" json:"warehouse"`
	LocationID string    `db:"location_id" json:"location_id"`
	ItemCode   string    `db:"item_code" json:"item_code"`
	Quantity   float64   `db:"quantity" json:"quantity"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
