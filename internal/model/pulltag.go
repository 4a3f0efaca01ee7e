package model

import "time"

const (
	PulltagStatusOpen      = "open"
	PulltagStatusPartial   = "partial"
	PulltagStatusReceived  = "received"
	PulltagStatusCancelled = "cancelled"
)

// Pulltag is one expected-receipt line issued by the purchasing system.
type Pulltag struct {
	ID               string    `db:"id" json:"id"`
	Warehouse        string    `db:"warehouse" json:"warehouse"`
	PulltagNumber    string    `db:"pulltag_number" json:"pulltag_number"`
	LineNo           int       `db:"line_no" json:"line_no"`
	ItemCode         string    `db:"item_code" json:"item_code"`
	QuantityOrdered  float64   `db:"quantity_ordered" json:"quantity_ordered"`
	QuantityReceived float64   `db:"quantity_received" json:"quantity_received"`
	Status           string    `db:"status" json:"status"`
	JobNumber        *string   `db:"job_number" json:"job_number"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}
