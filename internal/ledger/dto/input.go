package dto

type ScanOpKind string

const (
	ScanOpPlace   ScanOpKind = "place"
	ScanOpMove    ScanOpKind = "move"
	ScanOpRelease ScanOpKind = "release"
)

// ScanOp is the scan-state change riding on an Entry. For moves,
// FromLocationID must name the location the unit is currently recorded at.
type ScanOp struct {
	Kind           ScanOpKind
	ScanCode       string
	FromLocationID string
}

// Entry is one stock mutation in a posting: a signed quantity change for an
// item at a location, an optional scan-state change, and the ledger metadata.
type Entry struct {
	Warehouse       string
	LocationID      string
	ItemCode        string
	QuantityChange  float64
	TransactionType string
	Scan            *ScanOp
	ReferenceType   string
	ReferenceID     string
	Note            string
	UserID          string
}

type PlaceScanInput struct {
	Warehouse       string
	LocationID      string
	ItemCode        string
	ScanCode        string
	Quantity        float64
	TransactionType string
	ReferenceType   string
	ReferenceID     string
	Note            string
	UserID          string
}

type MoveScanInput struct {
	Warehouse      string
	FromLocationID string
	ToLocationID   string
	ItemCode       string
	ScanCode       string
	Quantity       float64
	ReferenceType  string
	ReferenceID    string
	Note           string
	UserID         string
}

type ReleaseScanInput struct {
	ScanCode        string
	Quantity        float64
	TransactionType string
	ReferenceType   string
	ReferenceID     string
	Note            string
	UserID          string
}
