package model

import "time"

// Verification statuses recorded for every scan attempt, accepted or not.
const (
	ScanStatusVerified  = "verified"
	ScanStatusDuplicate = "duplicate"
	ScanStatusConflict  = "conflict"
	ScanStatusMissing   = "missing"
	ScanStatusReleased  = "released"
)

// ScanPlacement is one row of current_scan_location. scan_code is the primary
// key: a physical unit is tracked in at most one place.
type ScanPlacement struct {
	ScanCode   string    `db:"scan_code" json:"scan_code"`
	Warehouse  string    `db:"warehouse" json:"warehouse"`
	LocationID string    `db:"location_id" json:"location_id"`
	ItemCode   string    `db:"item_code" json:"item_code"`
	PlacedAt   time.Time `db:"placed_at" json:"placed_at"`
	PlacedBy   *string   `db:"placed_by" json:"placed_by"`
}

// ScanVerification is the append-only audit row written for every scan
// attempt, including rejected ones.
type ScanVerification struct {
	ID         string    `db:"id" json:"id"`
	ScanCode   string    `db:"scan_code" json:"scan_code"`
	Warehouse  string    `db:"warehouse" json:"warehouse"`
	LocationID *string   `db:"location_id" json:"location_id"`
	ItemCode   string    `db:"item_code" json:"item_code"`
	Status     string    `db:"status" json:"status"`
	Note       string    `db:"note" json:"note"`
	ScannedBy  *string   `db:"scanned_by" json:"scanned_by"`
	ScannedAt  time.Time `db:"scanned_at" json:"scanned_at"`
}
