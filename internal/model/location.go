package model

import "time"

// Location kinds. "shipped" is the terminal pseudo-location units leave through.
const (
	LocationKindRack      = "rack"
	LocationKindStaging   = "staging"
	LocationKindReceiving = "receiving"
	LocationKindKitting   = "kitting"
	LocationKindShipped   = "shipped"
)

type Location struct {
	ID        string    `db:"id" json:"id"`
	Warehouse string    `db:"warehouse" json:"warehouse"`
	Code      string    `db:"code" json:"code"`
	Kind      string    `db:"kind" json:"kind"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
