package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/waretrack/inventory-service/internal/kitting"
	"github.com/waretrack/inventory-service/internal/kitting/dto"
	"github.com/waretrack/inventory-service/internal/ledger"
	ledgerdto "github.com/waretrack/inventory-service/internal/ledger/dto"
	"github.com/waretrack/inventory-service/internal/model"
	"github.com/waretrack/inventory-service/internal/pkg/logger"
)

type kittingUseCase struct {
	ledger ledger.UseCase
	items  kitting.ItemReader
	logger logger.ZapLogger
}

func NewKittingUseCase(ledgerUC ledger.UseCase, items kitting.ItemReader, log logger.ZapLogger) kitting.UseCase {
	return &kittingUseCase{
		ledger: ledgerUC,
		items:  items,
		logger: log,
	}
}

func (uc *kittingUseCase) BuildKit(ctx context.Context, input *dto.BuildKitInput) ([]model.Transaction, error) {
	if input.KitQuantity <= 0 {
		return nil, fmt.Errorf("kit quantity must be positive")
	}
	if len(input.Components) == 0 {
		return nil, kitting.ErrNoComponents
	}

	kit, err := uc.items.FindByCode(ctx, input.KitItemCode)
	if err != nil {
		return nil, err
	}
	if kit == nil {
		return nil, fmt.Errorf("%w: %s", kitting.ErrItemNotFound, input.KitItemCode)
	}
	if !kit.Kit {
		return nil, fmt.Errorf("%w: %s", kitting.ErrNotKit, input.KitItemCode)
	}

	base := ledgerdto.Entry{
		Warehouse:     input.Warehouse,
		LocationID:    input.LocationID,
		ReferenceType: "kit_build",
		ReferenceID:   input.ReferenceID,
		Note:          input.Note,
		UserID:        input.UserID,
	}

	var entries []ledgerdto.Entry
	for _, comp := range input.Components {
		if comp.Quantity <= 0 {
			return nil, fmt.Errorf("component %s quantity must be positive", comp.ItemCode)
		}
		consumed, err := consumeEntries(base, comp)
		if err != nil {
			return nil, err
		}
		entries = append(entries, consumed...)
	}

	produce := base
	produce.ItemCode = input.KitItemCode
	produce.QuantityChange = input.KitQuantity
	produce.TransactionType = model.TxTypeKitProduce
	if input.KitScanCode != "" {
		produce.Scan = &ledgerdto.ScanOp{Kind: ledgerdto.ScanOpPlace, ScanCode: input.KitScanCode}
	}
	entries = append(entries, produce)

	return uc.ledger.Post(ctx, entries)
}

// consumeEntries turns one component line into kit_consume entries, one per
// released scan when scans are given, a single entry otherwise.
func consumeEntries(base ledgerdto.Entry, comp dto.ComponentInput) ([]ledgerdto.Entry, error) {
	base.ItemCode = comp.ItemCode
	base.TransactionType = model.TxTypeKitConsume

	if len(comp.ScanCodes) == 0 {
		base.QuantityChange = -comp.Quantity
		return []ledgerdto.Entry{base}, nil
	}

	if math.Mod(comp.Quantity, float64(len(comp.ScanCodes))) != 0 {
		return nil, fmt.Errorf("%w: %s %g over %d scans",
			kitting.ErrScanSplit, comp.ItemCode, comp.Quantity, len(comp.ScanCodes))
	}
	perScan := comp.Quantity / float64(len(comp.ScanCodes))

	entries := make([]ledgerdto.Entry, 0, len(comp.ScanCodes))
	for _, code := range comp.ScanCodes {
		e := base
		e.QuantityChange = -perScan
		e.Scan = &ledgerdto.ScanOp{Kind: ledgerdto.ScanOpRelease, ScanCode: code}
		entries = append(entries, e)
	}
	return entries, nil
}

func (uc *kittingUseCase) AdjustPostKitting(ctx context.Context, input *dto.AdjustInput) ([]model.Transaction, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return nil, kitting.ErrReasonRequired
	}
	if input.QuantityChange == 0 && input.OrphanScanCode == "" {
		return nil, fmt.Errorf("adjustment changes nothing")
	}

	entry := ledgerdto.Entry{
		Warehouse:       input.Warehouse,
		LocationID:      input.LocationID,
		ItemCode:        input.ItemCode,
		QuantityChange:  input.QuantityChange,
		TransactionType: model.TxTypeAdjustment,
		ReferenceType:   "kitting_adjustment",
		ReferenceID:     input.ReferenceID,
		Note:            input.Reason,
		UserID:          input.UserID,
	}
	if input.OrphanScanCode != "" {
		entry.Scan = &ledgerdto.ScanOp{Kind: ledgerdto.ScanOpRelease, ScanCode: input.OrphanScanCode}
	}

	return uc.ledger.Post(ctx, []ledgerdto.Entry{entry})
}

func (uc *kittingUseCase) DecomposePallet(ctx context.Context, input *dto.DecomposeInput) ([]model.Transaction, error) {
	if len(input.UnitScanCodes) == 0 {
		return nil, fmt.Errorf("pallet break needs unit scan codes")
	}

	it, err := uc.items.FindByCode(ctx, input.ItemCode)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fmt.Errorf("%w: %s", kitting.ErrItemNotFound, input.ItemCode)
	}
	if it.PackQuantity <= 0 {
		return nil, fmt.Errorf("%w: %s", kitting.ErrNotPacked, input.ItemCode)
	}
	if float64(len(input.UnitScanCodes)) != it.PackQuantity && input.OverrideReason == "" {
		return nil, fmt.Errorf("%w: pack quantity is %g, got %d unit scans",
			kitting.ErrPackMismatch, it.PackQuantity, len(input.UnitScanCodes))
	}

	note := input.Note
	if input.OverrideReason != "" {
		note = strings.TrimSpace(note + " override: " + input.OverrideReason)
	}

	base := ledgerdto.Entry{
		Warehouse:       input.Warehouse,
		LocationID:      input.LocationID,
		ItemCode:        input.ItemCode,
		TransactionType: model.TxTypePalletBreak,
		ReferenceType:   "pallet_break",
		ReferenceID:     input.PalletScanCode,
		Note:            note,
		UserID:          input.UserID,
	}

	// One pallet out, its units in. The released pallet scan and the placed
	// unit scans commit with the quantities or not at all.
	release := base
	release.QuantityChange = -1
	release.Scan = &ledgerdto.ScanOp{Kind: ledgerdto.ScanOpRelease, ScanCode: input.PalletScanCode}

	entries := make([]ledgerdto.Entry, 0, len(input.UnitScanCodes)+1)
	entries = append(entries, release)
	for _, code := range input.UnitScanCodes {
		e := base
		e.QuantityChange = 1
		e.Scan = &ledgerdto.ScanOp{Kind: ledgerdto.ScanOpPlace, ScanCode: code}
		entries = append(entries, e)
	}

	return uc.ledger.Post(ctx, entries)
}
