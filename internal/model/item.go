package model

type Item struct {
	BaseModel
	ItemCode     string  `db:"item_code" json:"item_code"`
	Description  string  `db:"description" json:"description"`
	UOM          string  `db:"uom" json:"uom"`
	Kit          bool    `db:"kit" json:"kit"`
	PackQuantity float64 `db:"pack_quantity" json:"pack_quantity"` // units per pallet/pack, 0 when not packed
	Active       bool    `db:"active" json:"active"`
}
