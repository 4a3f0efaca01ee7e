package model

import "time"

// Transaction types written to the ledger.
const (
	TxTypeReceipt     = "receipt"
	TxTypeTransferIn  = "transfer_in"
	TxTypeTransferOut = "transfer_out"
	TxTypeKitConsume  = "kit_consume"
	TxTypeKitProduce  = "kit_produce"
	TxTypeAdjustment  = "adjustment"
	TxTypePalletBreak = "pallet_break"
)

// Transaction is one row of the append-only transactions ledger.
type Transaction struct {
	ID              string    `db:"id" json:"id"`
	Warehouse       string    `db:"warehouse" json:"warehouse"`
	ItemCode        string    `db:"item_code" json:"item_code"`
	LocationID      string    `db:"location_id" json:"location_id"`
	TransactionType string    `db:"transaction_type" json:"transaction_type"`
	QuantityChange  float64   `db:"quantity_change" json:"quantity_change"`
	QuantityBefore  float64   `db:"quantity_before" json:"quantity_before"`
	QuantityAfter   float64   `db:"quantity_after" json:"quantity_after"`
	ScanCode        *string   `db:"scan_code" json:"scan_code"`
	ReferenceType   *string   `db:"reference_type" json:"reference_type"`
	ReferenceID     *string   `db:"reference_id" json:"reference_id"`
	Note            string    `db:"note" json:"note"`
	CreatedBy       *string   `db:"created_by" json:"created_by"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
