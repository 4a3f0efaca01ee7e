package dto

import (
	"time"

	"github.com/waretrack/inventory-service/internal/model"
)

type TransactionFilters struct {
	Warehouse       string
	ItemCode        string
	LocationID      string
	TransactionType string
	ReferenceID     string
	Page            int
	PageSize        int
}

type VerificationFilters struct {
	Warehouse string
	ScanCode  string
	Status    string
	Page      int
	PageSize  int
}

// ScanMove updates the recorded location of an already-tracked scan code.
type ScanMove struct {
	ScanCode     string
	ToLocationID string
	MovedAt      time.Time
	MovedBy      *string
}

// Batch is the set of rows a posting commits in one database transaction.
type Batch struct {
	Levels        []model.InventoryLevel
	Places        []model.ScanPlacement
	Moves         []ScanMove
	Releases      []string
	Verifications []model.ScanVerification
	Transactions  []model.Transaction
}
