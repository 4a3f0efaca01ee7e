package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/waretrack/inventory-service/internal/ledger"
	ledgerdto "github.com/waretrack/inventory-service/internal/ledger/dto"
	"github.com/waretrack/inventory-service/internal/model"
	"github.com/waretrack/inventory-service/internal/pkg/logger"
	"github.com/waretrack/inventory-service/internal/receiving"
	"github.com/waretrack/inventory-service/internal/receiving/dto"
	"go.uber.org/zap"
)

const (
	lockTTL       = 5 * time.Second
	lockAttempts  = 3
	lockRetryWait = 100 * time.Millisecond
)

type receivingUseCase struct {
	repo      receiving.Repository
	locations receiving.LocationReader
	ledger    ledger.UseCase
	locker    ledger.Locker
	logger    logger.ZapLogger
}

func NewReceivingUseCase(repo receiving.Repository, locations receiving.LocationReader, ledgerUC ledger.UseCase, locker ledger.Locker, log logger.ZapLogger) receiving.UseCase {
	return &receivingUseCase{
		repo:      repo,
		locations: locations,
		ledger:    ledgerUC,
		locker:    locker,
		logger:    log,
	}
}

func (uc *receivingUseCase) ReceiveLine(ctx context.Context, input *dto.ReceiveLineInput) ([]model.Transaction, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	loc, err := uc.locations.FindByID(ctx, input.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("%w: %s", ledger.ErrLocationNotFound, input.LocationID)
	}
	if loc.Kind != model.LocationKindReceiving {
		return nil, fmt.Errorf("%w: %s is a %s location", receiving.ErrNotReceivingLoc, loc.ID, loc.Kind)
	}

	// The over-receipt check and the counter update are a read-modify-write
	// against the pulltag row; the per-line lock serializes concurrent
	// receipts for the same line.
	release, err := uc.lockPulltag(ctx, input.PulltagID)
	if err != nil {
		return nil, err
	}
	defer release()

	tag, err := uc.repo.FindByID(ctx, input.PulltagID)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, receiving.ErrPulltagNotFound
	}
	if tag.Status == model.PulltagStatusCancelled || tag.Status == model.PulltagStatusReceived {
		return nil, fmt.Errorf("%w: %s line %d is %s", receiving.ErrPulltagClosed, tag.PulltagNumber, tag.LineNo, tag.Status)
	}
	if tag.QuantityReceived+input.Quantity > tag.QuantityOrdered {
		return nil, fmt.Errorf("%w: ordered %g, already received %g, attempted %g",
			receiving.ErrOverReceipt, tag.QuantityOrdered, tag.QuantityReceived, input.Quantity)
	}

	entries, err := buildReceiptEntries(tag, input)
	if err != nil {
		return nil, err
	}

	txs, err := uc.ledger.Post(ctx, entries)
	if err != nil {
		return nil, err
	}

	received := tag.QuantityReceived + input.Quantity
	status := model.PulltagStatusPartial
	if received >= tag.QuantityOrdered {
		status = model.PulltagStatusReceived
	}
	if err := uc.repo.UpdateReceipt(ctx, tag.ID, received, status); err != nil {
		// The posting committed; the pulltag counter is reconcilable from the
		// ledger by reference_id, so report but don't fail the receipt.
		uc.logger.Error("failed to update pulltag after receipt",
			zap.String("pulltag_id", tag.ID), zap.Error(err))
	}

	return txs, nil
}

func (uc *receivingUseCase) lockPulltag(ctx context.Context, id string) (func(), error) {
	key := fmt.Sprintf("lock:pulltag:%s", id)
	token := uuid.New().String()
	for attempt := 0; attempt < lockAttempts; attempt++ {
		ok, err := uc.locker.AcquireLock(ctx, key, token, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
		}
		if ok {
			return func() {
				if err := uc.locker.ReleaseLock(ctx, key, token); err != nil {
					uc.logger.Error("failed to release lock", zap.String("key", key), zap.Error(err))
				}
			}, nil
		}
		time.Sleep(lockRetryWait)
	}
	return nil, ledger.ErrBusy
}

func buildReceiptEntries(tag *model.Pulltag, input *dto.ReceiveLineInput) ([]ledgerdto.Entry, error) {
	base := ledgerdto.Entry{
		Warehouse:       tag.Warehouse,
		LocationID:      input.LocationID,
		ItemCode:        tag.ItemCode,
		TransactionType: model.TxTypeReceipt,
		ReferenceType:   "pulltag",
		ReferenceID:     tag.ID,
		Note:            input.Note,
		UserID:          input.UserID,
	}

	if len(input.ScanCodes) == 0 {
		e := base
		e.QuantityChange = input.Quantity
		return []ledgerdto.Entry{e}, nil
	}

	perScan := input.Quantity / float64(len(input.ScanCodes))
	if math.Mod(input.Quantity, float64(len(input.ScanCodes))) != 0 {
		return nil, fmt.Errorf("%w: %g over %d scans", receiving.ErrScanSplit, input.Quantity, len(input.ScanCodes))
	}

	entries := make([]ledgerdto.Entry, 0, len(input.ScanCodes))
	for _, code := range input.ScanCodes {
		e := base
		e.QuantityChange = perScan
		e.Scan = &ledgerdto.ScanOp{Kind: ledgerdto.ScanOpPlace, ScanCode: code}
		entries = append(entries, e)
	}
	return entries, nil
}

func (uc *receivingUseCase) CreateLines(ctx context.Context, input *dto.CreatePulltagsInput) ([]model.Pulltag, error) {
	now := time.Now()
	created := make([]model.Pulltag, 0, len(input.Lines))

	for _, line := range input.Lines {
		existing, err := uc.repo.FindByNumberLine(ctx, input.Warehouse, input.PulltagNumber, line.LineNo)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: %s line %d", receiving.ErrDuplicateLine, input.PulltagNumber, line.LineNo)
		}

		var job *string
		if input.JobNumber != "" {
			j := input.JobNumber
			job = &j
		}
		tag := model.Pulltag{
			ID:              uuid.New().String(),
			Warehouse:       input.Warehouse,
			PulltagNumber:   input.PulltagNumber,
			LineNo:          line.LineNo,
			ItemCode:        line.ItemCode,
			QuantityOrdered: line.Quantity,
			Status:          model.PulltagStatusOpen,
			JobNumber:       job,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := uc.repo.Create(ctx, &tag); err != nil {
			return nil, err
		}
		created = append(created, tag)
	}
	return created, nil
}

// ImportPulltags reads the console's CSV upload. Expected header:
// pulltag_number,line_no,item_code,quantity,job_number
func (uc *receivingUseCase) ImportPulltags(ctx context.Context, warehouse string, r io.Reader) (*dto.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 5
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if strings.ToLower(strings.TrimSpace(header[0])) != "pulltag_number" {
		return nil, fmt.Errorf("unexpected csv header %q", strings.Join(header, ","))
	}

	result := &dto.ImportResult{}
	now := time.Now()

	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, dto.ImportRowError{Row: row, Reason: err.Error()})
			result.Skipped++
			continue
		}

		number := strings.TrimSpace(record[0])
		lineNo, lineErr := strconv.Atoi(strings.TrimSpace(record[1]))
		itemCode := strings.TrimSpace(record[2])
		qty, qtyErr := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		jobNumber := strings.TrimSpace(record[4])

		reason := ""
		switch {
		case number == "":
			reason = "missing pulltag_number"
		case lineErr != nil || lineNo <= 0:
			reason = "bad line_no"
		case itemCode == "":
			reason = "missing item_code"
		case qtyErr != nil || qty <= 0:
			reason = "bad quantity"
		}
		if reason == "" {
			existing, err := uc.repo.FindByNumberLine(ctx, warehouse, number, lineNo)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				reason = "duplicate pulltag line"
			}
		}
		if reason != "" {
			result.Errors = append(result.Errors, dto.ImportRowError{Row: row, Reason: reason})
			result.Skipped++
			continue
		}

		var job *string
		if jobNumber != "" {
			job = &jobNumber
		}
		tag := model.Pulltag{
			ID:              uuid.New().String(),
			Warehouse:       warehouse,
			PulltagNumber:   number,
			LineNo:          lineNo,
			ItemCode:        itemCode,
			QuantityOrdered: qty,
			Status:          model.PulltagStatusOpen,
			JobNumber:       job,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := uc.repo.Create(ctx, &tag); err != nil {
			return nil, err
		}
		result.Created++
	}

	return result, nil
}

func (uc *receivingUseCase) ListPulltags(ctx context.Context, filters *dto.PulltagFilters) ([]model.Pulltag, int, error) {
	return uc.repo.FindAll(ctx, filters)
}
