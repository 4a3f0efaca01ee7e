package ledger

import (
	"context"

	"github.com/waretrack/inventory-service/internal/ledger/dto"
	"github.com/waretrack/inventory-service/internal/model"
)

type Repository interface {
	// Current state reads
	GetLocation(ctx context.Context, id string) (*model.Location, error)
	GetLevel(ctx context.Context, warehouse, locationID, itemCode string) (*model.InventoryLevel, error)
	GetPlacement(ctx context.Context, scanCode string) (*model.ScanPlacement, error)

	// ApplyBatch commits every row of the batch in one database transaction.
	ApplyBatch(ctx context.Context, batch *dto.Batch) error

	// RecordVerification writes a single audit row outside any posting
	// transaction, so rejected scans stay on record.
	RecordVerification(ctx context.Context, v *model.ScanVerification) error

	// Ledger / audit queries
	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.Transaction, int, error)
	ListVerifications(ctx context.Context, filters *dto.VerificationFilters) ([]model.ScanVerification, int, error)
}
