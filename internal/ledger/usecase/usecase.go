package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/waretrack/inventory-service/internal/ledger"
	"github.com/waretrack/inventory-service/internal/ledger/dto"
	"github.com/waretrack/inventory-service/internal/model"
	"github.com/waretrack/inventory-service/internal/pkg/logger"
	"github.com/waretrack/inventory-service/internal/pkg/metrics"
	"go.uber.org/zap"
)

const (
	lockTTL       = 5 * time.Second
	lockAttempts  = 3
	lockRetryWait = 100 * time.Millisecond
)

type ledgerUseCase struct {
	repo    ledger.Repository
	locker  ledger.Locker
	metrics *metrics.Metrics
	logger  logger.ZapLogger
}

func NewLedgerUseCase(repo ledger.Repository, locker ledger.Locker, m *metrics.Metrics, log logger.ZapLogger) ledger.UseCase {
	return &ledgerUseCase{
		repo:    repo,
		locker:  locker,
		metrics: m,
		logger:  log,
	}
}

// Post applies a batch of entries atomically. State is read under distributed
// locks, the new rows are computed in memory, and everything commits in one
// database transaction. Any rule violation rejects the whole posting.
func (uc *ledgerUseCase) Post(ctx context.Context, entries []dto.Entry) ([]model.Transaction, error) {
	if len(entries) == 0 {
		return nil, ledger.ErrEmptyPosting
	}
	for i := range entries {
		if err := validateEntry(&entries[i]); err != nil {
			return nil, err
		}
	}

	start := time.Now()

	release, err := uc.lockScopes(ctx, entries)
	if err != nil {
		return nil, err
	}
	defer release()

	now := time.Now()
	batch := &dto.Batch{}

	// Working state for the batch: later entries see the effects of earlier
	// ones even before anything is committed.
	locations := map[string]*model.Location{}
	levels := map[string]*model.InventoryLevel{}
	placements := map[string]*model.ScanPlacement{}
	placementLoaded := map[string]bool{}

	for i := range entries {
		e := &entries[i]

		loc, err := uc.resolveLocation(ctx, locations, e.LocationID)
		if err != nil {
			return nil, err
		}
		if loc.Warehouse != e.Warehouse {
			return nil, fmt.Errorf("%w: location %s is in %s, entry says %s",
				ledger.ErrWarehouseMismatch, loc.Code, loc.Warehouse, e.Warehouse)
		}

		level, err := uc.resolveLevel(ctx, levels, e.Warehouse, e.LocationID, e.ItemCode, now)
		if err != nil {
			return nil, err
		}

		before := level.Quantity
		after := before + e.QuantityChange
		if after < 0 {
			if uc.metrics != nil {
				uc.metrics.InsufficientStockTotal.Inc()
			}
			return nil, fmt.Errorf("%w: %s at %s has %g, change %g",
				ledger.ErrInsufficientStock, e.ItemCode, loc.Code, before, e.QuantityChange)
		}
		level.Quantity = after
		level.UpdatedAt = now

		if e.Scan != nil {
			if err := uc.applyScanOp(ctx, batch, placements, placementLoaded, e, now); err != nil {
				return nil, err
			}
		}

		batch.Transactions = append(batch.Transactions, model.Transaction{
			ID:              uuid.New().String(),
			Warehouse:       e.Warehouse,
			ItemCode:        e.ItemCode,
			LocationID:      e.LocationID,
			TransactionType: e.TransactionType,
			QuantityChange:  e.QuantityChange,
			QuantityBefore:  before,
			QuantityAfter:   after,
			ScanCode:        scanCodeOf(e),
			ReferenceType:   optional(e.ReferenceType),
			ReferenceID:     optional(e.ReferenceID),
			Note:            e.Note,
			CreatedBy:       optional(e.UserID),
			CreatedAt:       now,
		})
	}

	for _, level := range levels {
		batch.Levels = append(batch.Levels, *level)
	}

	if err := uc.repo.ApplyBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("apply posting: %w", err)
	}

	if uc.metrics != nil {
		for i := range batch.Transactions {
			uc.metrics.PostingsTotal.WithLabelValues(batch.Transactions[i].TransactionType).Inc()
		}
		uc.metrics.PostingDuration.Observe(time.Since(start).Seconds())
	}

	return batch.Transactions, nil
}

func (uc *ledgerUseCase) applyScanOp(
	ctx context.Context,
	batch *dto.Batch,
	placements map[string]*model.ScanPlacement,
	loaded map[string]bool,
	e *dto.Entry,
	now time.Time,
) error {
	op := e.Scan
	current, err := uc.resolvePlacement(ctx, placements, loaded, op.ScanCode)
	if err != nil {
		return err
	}

	switch op.Kind {
	case dto.ScanOpPlace:
		if current != nil {
			if current.LocationID == e.LocationID {
				uc.auditRejection(ctx, e, model.ScanStatusDuplicate, now)
				if uc.metrics != nil {
					uc.metrics.DuplicateScansTotal.Inc()
				}
				return fmt.Errorf("%w: %s", ledger.ErrDuplicateScan, op.ScanCode)
			}
			uc.auditRejection(ctx, e, model.ScanStatusConflict, now)
			if uc.metrics != nil {
				uc.metrics.ScanConflictsTotal.Inc()
			}
			return fmt.Errorf("%w: %s is at location %s", ledger.ErrScanConflict, op.ScanCode, current.LocationID)
		}

		placement := &model.ScanPlacement{
			ScanCode:   op.ScanCode,
			Warehouse:  e.Warehouse,
			LocationID: e.LocationID,
			ItemCode:   e.ItemCode,
			PlacedAt:   now,
			PlacedBy:   optional(e.UserID),
		}
		placements[op.ScanCode] = placement
		batch.Places = append(batch.Places, *placement)
		batch.Verifications = append(batch.Verifications, verification(e, model.ScanStatusVerified, now))

	case dto.ScanOpMove:
		if current == nil {
			uc.auditRejection(ctx, e, model.ScanStatusMissing, now)
			return fmt.Errorf("%w: %s", ledger.ErrScanNotFound, op.ScanCode)
		}
		if current.LocationID != op.FromLocationID {
			uc.auditRejection(ctx, e, model.ScanStatusConflict, now)
			if uc.metrics != nil {
				uc.metrics.ScanConflictsTotal.Inc()
			}
			return fmt.Errorf("%w: %s is recorded at %s, not %s",
				ledger.ErrWrongLocation, op.ScanCode, current.LocationID, op.FromLocationID)
		}
		if current.Warehouse != e.Warehouse {
			uc.auditRejection(ctx, e, model.ScanStatusConflict, now)
			return fmt.Errorf("%w: %s is tracked in warehouse %s",
				ledger.ErrWarehouseMismatch, op.ScanCode, current.Warehouse)
		}

		current.LocationID = e.LocationID
		current.PlacedAt = now
		current.PlacedBy = optional(e.UserID)
		batch.Moves = append(batch.Moves, dto.ScanMove{
			ScanCode:     op.ScanCode,
			ToLocationID: e.LocationID,
			MovedAt:      now,
			MovedBy:      optional(e.UserID),
		})
		batch.Verifications = append(batch.Verifications, verification(e, model.ScanStatusVerified, now))

	case dto.ScanOpRelease:
		if current == nil {
			uc.auditRejection(ctx, e, model.ScanStatusMissing, now)
			return fmt.Errorf("%w: %s", ledger.ErrScanNotFound, op.ScanCode)
		}
		// The deduction lands at the entry's location; the placement must
		// still be there under the lock, or a concurrent move won the race.
		if current.LocationID != e.LocationID {
			uc.auditRejection(ctx, e, model.ScanStatusConflict, now)
			if uc.metrics != nil {
				uc.metrics.ScanConflictsTotal.Inc()
			}
			return fmt.Errorf("%w: %s is recorded at %s, not %s",
				ledger.ErrWrongLocation, op.ScanCode, current.LocationID, e.LocationID)
		}
		if current.Warehouse != e.Warehouse {
			uc.auditRejection(ctx, e, model.ScanStatusConflict, now)
			return fmt.Errorf("%w: %s is tracked in warehouse %s",
				ledger.ErrWarehouseMismatch, op.ScanCode, current.Warehouse)
		}
		delete(placements, op.ScanCode)
		loaded[op.ScanCode] = true // stays known-absent for the rest of the batch
		batch.Releases = append(batch.Releases, op.ScanCode)
		batch.Verifications = append(batch.Verifications, verification(e, model.ScanStatusReleased, now))

	default:
		return fmt.Errorf("unknown scan op %q", op.Kind)
	}
	return nil
}

// auditRejection records the failed scan attempt outside the posting, so the
// audit row survives the rollback the caller is about to see.
func (uc *ledgerUseCase) auditRejection(ctx context.Context, e *dto.Entry, status string, now time.Time) {
	v := verification(e, status, now)
	if err := uc.repo.RecordVerification(ctx, &v); err != nil {
		uc.logger.Error("failed to record scan rejection",
			zap.String("scan_code", e.Scan.ScanCode),
			zap.String("status", status),
			zap.Error(err),
		)
	}
}

func (uc *ledgerUseCase) lockScopes(ctx context.Context, entries []dto.Entry) (func(), error) {
	keySet := map[string]struct{}{}
	for i := range entries {
		e := &entries[i]
		keySet[fmt.Sprintf("lock:inventory:%s:%s", e.Warehouse, e.ItemCode)] = struct{}{}
		if e.Scan != nil {
			keySet[fmt.Sprintf("lock:scan:%s", e.Scan.ScanCode)] = struct{}{}
		}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	// Deterministic order keeps concurrent postings from deadlocking on each
	// other's partial lock sets.
	sort.Strings(keys)

	token := uuid.New().String()
	held := []string{}
	release := func() {
		for _, k := range held {
			if err := uc.locker.ReleaseLock(ctx, k, token); err != nil {
				uc.logger.Error("failed to release lock", zap.String("key", k), zap.Error(err))
			}
		}
	}

	for _, key := range keys {
		acquired := false
		for attempt := 0; attempt < lockAttempts; attempt++ {
			ok, err := uc.locker.AcquireLock(ctx, key, token, lockTTL)
			if err != nil {
				uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
			}
			if ok {
				acquired = true
				break
			}
			time.Sleep(lockRetryWait)
		}
		if !acquired {
			release()
			return nil, ledger.ErrBusy
		}
		held = append(held, key)
	}
	return release, nil
}

func (uc *ledgerUseCase) resolveLocation(ctx context.Context, cache map[string]*model.Location, id string) (*model.Location, error) {
	if loc, ok := cache[id]; ok {
		return loc, nil
	}
	loc, err := uc.repo.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("%w: %s", ledger.ErrLocationNotFound, id)
	}
	if !loc.Active {
		return nil, fmt.Errorf("%w: %s", ledger.ErrLocationInactive, loc.Code)
	}
	cache[id] = loc
	return loc, nil
}

func (uc *ledgerUseCase) resolveLevel(ctx context.Context, cache map[string]*model.InventoryLevel, warehouse, locationID, itemCode string, now time.Time) (*model.InventoryLevel, error) {
	key := warehouse + "|" + locationID + "|" + itemCode
	if level, ok := cache[key]; ok {
		return level, nil
	}
	level, err := uc.repo.GetLevel(ctx, warehouse, locationID, itemCode)
	if err != nil {
		return nil, err
	}
	if level == nil {
		level = &model.InventoryLevel{
			ID:         uuid.New().String(),
			Warehouse:  warehouse,
			LocationID: locationID,
			ItemCode:   itemCode,
			Quantity:   0,
			UpdatedAt:  now,
		}
	}
	cache[key] = level
	return level, nil
}

func (uc *ledgerUseCase) resolvePlacement(ctx context.Context, cache map[string]*model.ScanPlacement, loaded map[string]bool, scanCode string) (*model.ScanPlacement, error) {
	if loaded[scanCode] {
		return cache[scanCode], nil
	}
	p, err := uc.repo.GetPlacement(ctx, scanCode)
	if err != nil {
		return nil, err
	}
	loaded[scanCode] = true
	if p != nil {
		cache[scanCode] = p
	}
	return cache[scanCode], nil
}

func (uc *ledgerUseCase) PlaceScan(ctx context.Context, input *dto.PlaceScanInput) (*model.Transaction, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	txType := input.TransactionType
	if txType == "" {
		txType = model.TxTypeAdjustment
	}
	txs, err := uc.Post(ctx, []dto.Entry{{
		Warehouse:       input.Warehouse,
		LocationID:      input.LocationID,
		ItemCode:        input.ItemCode,
		QuantityChange:  input.Quantity,
		TransactionType: txType,
		Scan:            &dto.ScanOp{Kind: dto.ScanOpPlace, ScanCode: input.ScanCode},
		ReferenceType:   input.ReferenceType,
		ReferenceID:     input.ReferenceID,
		Note:            input.Note,
		UserID:          input.UserID,
	}})
	if err != nil {
		return nil, err
	}
	return &txs[0], nil
}

func (uc *ledgerUseCase) MoveScan(ctx context.Context, input *dto.MoveScanInput) ([]model.Transaction, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	if input.FromLocationID == input.ToLocationID {
		return nil, fmt.Errorf("source and destination location are the same")
	}
	return uc.Post(ctx, []dto.Entry{
		{
			Warehouse:       input.Warehouse,
			LocationID:      input.FromLocationID,
			ItemCode:        input.ItemCode,
			QuantityChange:  -input.Quantity,
			TransactionType: model.TxTypeTransferOut,
			ReferenceType:   input.ReferenceType,
			ReferenceID:     input.ReferenceID,
			Note:            input.Note,
			UserID:          input.UserID,
		},
		{
			Warehouse:       input.Warehouse,
			LocationID:      input.ToLocationID,
			ItemCode:        input.ItemCode,
			QuantityChange:  input.Quantity,
			TransactionType: model.TxTypeTransferIn,
			Scan: &dto.ScanOp{
				Kind:           dto.ScanOpMove,
				ScanCode:       input.ScanCode,
				FromLocationID: input.FromLocationID,
			},
			ReferenceType: input.ReferenceType,
			ReferenceID:   input.ReferenceID,
			Note:          input.Note,
			UserID:        input.UserID,
		},
	})
}

func (uc *ledgerUseCase) ReleaseScan(ctx context.Context, input *dto.ReleaseScanInput) (*model.Transaction, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	placement, err := uc.repo.GetPlacement(ctx, input.ScanCode)
	if err != nil {
		return nil, err
	}
	if placement == nil {
		return nil, fmt.Errorf("%w: %s", ledger.ErrScanNotFound, input.ScanCode)
	}
	txType := input.TransactionType
	if txType == "" {
		txType = model.TxTypeAdjustment
	}
	txs, err := uc.Post(ctx, []dto.Entry{{
		Warehouse:       placement.Warehouse,
		LocationID:      placement.LocationID,
		ItemCode:        placement.ItemCode,
		QuantityChange:  -input.Quantity,
		TransactionType: txType,
		Scan:            &dto.ScanOp{Kind: dto.ScanOpRelease, ScanCode: input.ScanCode},
		ReferenceType:   input.ReferenceType,
		ReferenceID:     input.ReferenceID,
		Note:            input.Note,
		UserID:          input.UserID,
	}})
	if err != nil {
		return nil, err
	}
	return &txs[0], nil
}

func (uc *ledgerUseCase) GetPlacement(ctx context.Context, scanCode string) (*model.ScanPlacement, error) {
	return uc.repo.GetPlacement(ctx, scanCode)
}

func (uc *ledgerUseCase) ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.Transaction, int, error) {
	return uc.repo.ListTransactions(ctx, filters)
}

func (uc *ledgerUseCase) ListVerifications(ctx context.Context, filters *dto.VerificationFilters) ([]model.ScanVerification, int, error) {
	return uc.repo.ListVerifications(ctx, filters)
}

func validateEntry(e *dto.Entry) error {
	if e.Warehouse == "" || e.LocationID == "" || e.ItemCode == "" {
		return fmt.Errorf("entry needs warehouse, location and item")
	}
	if e.TransactionType == "" {
		return fmt.Errorf("entry needs a transaction type")
	}
	if e.Scan != nil {
		if e.Scan.ScanCode == "" {
			return fmt.Errorf("scan op needs a scan code")
		}
		if e.Scan.Kind == dto.ScanOpMove && e.Scan.FromLocationID == "" {
			return fmt.Errorf("scan move needs its source location")
		}
	}
	return nil
}

func verification(e *dto.Entry, status string, now time.Time) model.ScanVerification {
	locID := e.LocationID
	return model.ScanVerification{
		ID:         uuid.New().String(),
		ScanCode:   e.Scan.ScanCode,
		Warehouse:  e.Warehouse,
		LocationID: &locID,
		ItemCode:   e.ItemCode,
		Status:     status,
		Note:       e.Note,
		ScannedBy:  optional(e.UserID),
		ScannedAt:  now,
	}
}

func scanCodeOf(e *dto.Entry) *string {
	if e.Scan == nil {
		return nil
	}
	code := e.Scan.ScanCode
	return &code
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
