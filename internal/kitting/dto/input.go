package dto

// ComponentInput is one component line of a kit build. Consumed scan codes
// are released as part of the build posting.
type ComponentInput struct {
	ItemCode  string   `json:"itemCode"`
	Quantity  float64  `json:"quantity"`
	ScanCodes []string `json:"scanCodes"`
}

type BuildKitInput struct {
	Warehouse   string           `json:"warehouse"`
	LocationID  string           `json:"locationId"`
	KitItemCode string           `json:"kitItemCode"`
	KitQuantity float64          `json:"kitQuantity"`
	KitScanCode string           `json:"kitScanCode"`
	Components  []ComponentInput `json:"components"`
	ReferenceID string           `json:"referenceId"`
	Note        string           `json:"note"`
	UserID      string           `json:"-"`
}

// AdjustInput is a signed post-kitting quantity correction. Reason is
// mandatory. OrphanScanCode optionally releases a scan whose unit was
// consumed but never released.
type AdjustInput struct {
	Warehouse      string  `json:"warehouse"`
	LocationID     string  `json:"locationId"`
	ItemCode       string  `json:"itemCode"`
	QuantityChange float64 `json:"quantityChange"`
	Reason         string  `json:"reason"`
	OrphanScanCode string  `json:"orphanScanCode"`
	ReferenceID    string  `json:"referenceId"`
	UserID         string  `json:"-"`
}

// DecomposeInput breaks one pallet into unit scans at the target location.
type DecomposeInput struct {
	Warehouse      string   `json:"warehouse"`
	LocationID     string   `json:"locationId"`
	PalletScanCode string   `json:"palletScanCode"`
	ItemCode       string   `json:"itemCode"`
	UnitScanCodes  []string `json:"unitScanCodes"`
	OverrideReason string   `json:"overrideReason"`
	Note           string   `json:"note"`
	UserID         string   `json:"-"`
}
