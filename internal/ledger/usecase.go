package ledger

import (
	"context"
	"time"

	"github.com/waretrack/inventory-service/internal/ledger/dto"
	"github.com/waretrack/inventory-service/internal/model"
)

// UseCase is the single layer through which every workflow mutates stock.
// Nothing else writes current_inventory, current_scan_location,
// scan_verifications or transactions.
type UseCase interface {
	Post(ctx context.Context, entries []dto.Entry) ([]model.Transaction, error)
	PlaceScan(ctx context.Context, input *dto.PlaceScanInput) (*model.Transaction, error)
	MoveScan(ctx context.Context, input *dto.MoveScanInput) ([]model.Transaction, error)
	ReleaseScan(ctx context.Context, input *dto.ReleaseScanInput) (*model.Transaction, error)
	GetPlacement(ctx context.Context, scanCode string) (*model.ScanPlacement, error)
	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.Transaction, int, error)
	ListVerifications(ctx context.Context, filters *dto.VerificationFilters) ([]model.ScanVerification, int, error)
}

// Locker serializes read-modify-write across service instances. Satisfied by
// cache.RedisClient.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}
