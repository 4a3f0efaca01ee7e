package usecase

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waretrack/inventory-service/internal/ledger"
	"github.com/waretrack/inventory-service/internal/ledger/dto"
	"github.com/waretrack/inventory-service/internal/model"
	"github.com/waretrack/inventory-service/internal/pkg/logger"
)

type fakeRepo struct {
	locations  map[string]*model.Location
	levels     map[string]*model.InventoryLevel
	placements map[string]*model.ScanPlacement

	applied    []*dto.Batch
	rejections []model.ScanVerification
	applyErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		locations:  map[string]*model.Location{},
		levels:     map[string]*model.InventoryLevel{},
		placements: map[string]*model.ScanPlacement{},
	}
}

func levelKey(wh, loc, item string) string { return wh + "|" + loc + "|" + item }

func (r *fakeRepo) GetLocation(_ context.Context, id string) (*model.Location, error) {
	if loc, ok := r.locations[id]; ok {
		cp := *loc
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeRepo) GetLevel(_ context.Context, wh, loc, item string) (*model.InventoryLevel, error) {
	if level, ok := r.levels[levelKey(wh, loc, item)]; ok {
		cp := *level
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeRepo) GetPlacement(_ context.Context, scanCode string) (*model.ScanPlacement, error) {
	if p, ok := r.placements[scanCode]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeRepo) ApplyBatch(_ context.Context, batch *dto.Batch) error {
	if r.applyErr != nil {
		return r.applyErr
	}
	r.applied = append(r.applied, batch)
	for i := range batch.Levels {
		l := batch.Levels[i]
		r.levels[levelKey(l.Warehouse, l.LocationID, l.ItemCode)] = &l
	}
	for i := range batch.Places {
		p := batch.Places[i]
		r.placements[p.ScanCode] = &p
	}
	for _, m := range batch.Moves {
		if p, ok := r.placements[m.ScanCode]; ok {
			p.LocationID = m.ToLocationID
		}
	}
	for _, code := range batch.Releases {
		delete(r.placements, code)
	}
	return nil
}

func (r *fakeRepo) RecordVerification(_ context.Context, v *model.ScanVerification) error {
	r.rejections = append(r.rejections, *v)
	return nil
}

func (r *fakeRepo) ListTransactions(context.Context, *dto.TransactionFilters) ([]model.Transaction, int, error) {
	return nil, 0, nil
}

func (r *fakeRepo) ListVerifications(context.Context, *dto.VerificationFilters) ([]model.ScanVerification, int, error) {
	return nil, 0, nil
}

type fakeLocker struct {
	acquired []string
	released []string
	deny     map[string]bool
}

func (l *fakeLocker) AcquireLock(_ context.Context, key, _ string, _ time.Duration) (bool, error) {
	if l.deny[key] {
		return false, nil
	}
	l.acquired = append(l.acquired, key)
	return true, nil
}

func (l *fakeLocker) ReleaseLock(_ context.Context, key, _ string) error {
	l.released = append(l.released, key)
	return nil
}

func setup() (*fakeRepo, *fakeLocker, ledger.UseCase) {
	repo := newFakeRepo()
	repo.locations["loc-recv"] = &model.Location{ID: "loc-recv", Warehouse: "WH1", Code: "RECV-01", Kind: model.LocationKindReceiving, Active: true}
	repo.locations["loc-rack"] = &model.Location{ID: "loc-rack", Warehouse: "WH1", Code: "A-01-01", Kind: model.LocationKindRack, Active: true}
	repo.locations["loc-kit"] = &model.Location{ID: "loc-kit", Warehouse: "WH1", Code: "KIT-01", Kind: model.LocationKindKitting, Active: true}
	repo.locations["loc-dead"] = &model.Location{ID: "loc-dead", Warehouse: "WH1", Code: "DEAD-01", Kind: model.LocationKindRack, Active: false}
	repo.locations["loc-wh2"] = &model.Location{ID: "loc-wh2", Warehouse: "WH2", Code: "B-01-01", Kind: model.LocationKindRack, Active: true}

	locker := &fakeLocker{}
	uc := NewLedgerUseCase(repo, locker, nil, logger.NewNop())
	return repo, locker, uc
}

func receiptEntry(qty float64) dto.Entry {
	return dto.Entry{
		Warehouse:       "WH1",
		LocationID:      "loc-recv",
		ItemCode:        "WIDGET-1",
		QuantityChange:  qty,
		TransactionType: model.TxTypeReceipt,
		UserID:          "u1",
	}
}

func TestPost_Receipt(t *testing.T) {
	repo, _, uc := setup()

	txs, err := uc.Post(context.Background(), []dto.Entry{receiptEntry(10)})
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, float64(0), txs[0].QuantityBefore)
	assert.Equal(t, float64(10), txs[0].QuantityAfter)
	assert.Equal(t, model.TxTypeReceipt, txs[0].TransactionType)

	level := repo.levels[levelKey("WH1", "loc-recv", "WIDGET-1")]
	require.NotNil(t, level)
	assert.Equal(t, float64(10), level.Quantity)
}

func TestPost_ChainsQuantitiesWithinBatch(t *testing.T) {
	repo, _, uc := setup()

	txs, err := uc.Post(context.Background(), []dto.Entry{receiptEntry(10), receiptEntry(5)})
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, float64(10), txs[1].QuantityBefore)
	assert.Equal(t, float64(15), txs[1].QuantityAfter)
	assert.Equal(t, float64(15), repo.levels[levelKey("WH1", "loc-recv", "WIDGET-1")].Quantity)
	// Both entries collapse into one level upsert
	require.Len(t, repo.applied, 1)
	assert.Len(t, repo.applied[0].Levels, 1)
}

func TestPost_RejectsNegativeStock(t *testing.T) {
	repo, _, uc := setup()

	_, err := uc.Post(context.Background(), []dto.Entry{receiptEntry(-1)})
	require.ErrorIs(t, err, ledger.ErrInsufficientStock)
	assert.Empty(t, repo.applied, "nothing may commit when a rule fails")
}

func TestPost_RejectsWholeBatchOnLateFailure(t *testing.T) {
	repo, _, uc := setup()

	entries := []dto.Entry{
		receiptEntry(10),
		{
			Warehouse:       "WH1",
			LocationID:      "loc-rack",
			ItemCode:        "GADGET-9",
			QuantityChange:  -3, // no stock
			TransactionType: model.TxTypeTransferOut,
		},
	}
	_, err := uc.Post(context.Background(), entries)
	require.ErrorIs(t, err, ledger.ErrInsufficientStock)
	assert.Empty(t, repo.applied)
	assert.Nil(t, repo.levels[levelKey("WH1", "loc-recv", "WIDGET-1")])
}

func TestPost_LocationRules(t *testing.T) {
	t.Run("unknown location", func(t *testing.T) {
		_, _, uc := setup()
		e := receiptEntry(1)
		e.LocationID = "loc-nope"
		_, err := uc.Post(context.Background(), []dto.Entry{e})
		assert.ErrorIs(t, err, ledger.ErrLocationNotFound)
	})

	t.Run("inactive location", func(t *testing.T) {
		_, _, uc := setup()
		e := receiptEntry(1)
		e.LocationID = "loc-dead"
		_, err := uc.Post(context.Background(), []dto.Entry{e})
		assert.ErrorIs(t, err, ledger.ErrLocationInactive)
	})

	t.Run("warehouse mismatch", func(t *testing.T) {
		_, _, uc := setup()
		e := receiptEntry(1)
		e.LocationID = "loc-wh2" // belongs to WH2, entry says WH1
		_, err := uc.Post(context.Background(), []dto.Entry{e})
		assert.ErrorIs(t, err, ledger.ErrWarehouseMismatch)
	})
}

func TestPlaceScan(t *testing.T) {
	t.Run("first placement is verified", func(t *testing.T) {
		repo, _, uc := setup()

		tx, err := uc.PlaceScan(context.Background(), &dto.PlaceScanInput{
			Warehouse:       "WH1",
			LocationID:      "loc-recv",
			ItemCode:        "WIDGET-1",
			ScanCode:        "SC-100",
			Quantity:        1,
			TransactionType: model.TxTypeReceipt,
			UserID:          "u1",
		})
		require.NoError(t, err)
		require.NotNil(t, tx.ScanCode)
		assert.Equal(t, "SC-100", *tx.ScanCode)

		require.NotNil(t, repo.placements["SC-100"])
		assert.Equal(t, "loc-recv", repo.placements["SC-100"].LocationID)

		require.Len(t, repo.applied, 1)
		require.Len(t, repo.applied[0].Verifications, 1)
		assert.Equal(t, model.ScanStatusVerified, repo.applied[0].Verifications[0].Status)
	})

	t.Run("same location again is a duplicate", func(t *testing.T) {
		repo, _, uc := setup()
		repo.placements["SC-100"] = &model.ScanPlacement{ScanCode: "SC-100", Warehouse: "WH1", LocationID: "loc-recv", ItemCode: "WIDGET-1"}

		_, err := uc.PlaceScan(context.Background(), &dto.PlaceScanInput{
			Warehouse: "WH1", LocationID: "loc-recv", ItemCode: "WIDGET-1", ScanCode: "SC-100", Quantity: 1,
		})
		require.ErrorIs(t, err, ledger.ErrDuplicateScan)
		assert.Empty(t, repo.applied)

		// Rejected attempt still leaves an audit row
		require.Len(t, repo.rejections, 1)
		assert.Equal(t, model.ScanStatusDuplicate, repo.rejections[0].Status)
	})

	t.Run("different location is a conflict, never overwritten", func(t *testing.T) {
		repo, _, uc := setup()
		repo.placements["SC-100"] = &model.ScanPlacement{ScanCode: "SC-100", Warehouse: "WH1", LocationID: "loc-rack", ItemCode: "WIDGET-1"}

		_, err := uc.PlaceScan(context.Background(), &dto.PlaceScanInput{
			Warehouse: "WH1", LocationID: "loc-recv", ItemCode: "WIDGET-1", ScanCode: "SC-100", Quantity: 1,
		})
		require.ErrorIs(t, err, ledger.ErrScanConflict)
		assert.Equal(t, "loc-rack", repo.placements["SC-100"].LocationID)

		require.Len(t, repo.rejections, 1)
		assert.Equal(t, model.ScanStatusConflict, repo.rejections[0].Status)
	})

	t.Run("duplicate within a single batch", func(t *testing.T) {
		repo, _, uc := setup()

		e := receiptEntry(1)
		e.Scan = &dto.ScanOp{Kind: dto.ScanOpPlace, ScanCode: "SC-7"}
		_, err := uc.Post(context.Background(), []dto.Entry{e, e})
		require.ErrorIs(t, err, ledger.ErrDuplicateScan)
		assert.Empty(t, repo.applied)
	})
}

func TestMoveScan(t *testing.T) {
	seed := func(repo *fakeRepo) {
		repo.levels[levelKey("WH1", "loc-recv", "WIDGET-1")] = &model.InventoryLevel{
			ID: "lvl1", Warehouse: "WH1", LocationID: "loc-recv", ItemCode: "WIDGET-1", Quantity: 5,
		}
		repo.placements["SC-100"] = &model.ScanPlacement{ScanCode: "SC-100", Warehouse: "WH1", LocationID: "loc-recv", ItemCode: "WIDGET-1"}
	}

	t.Run("happy path moves quantity and scan together", func(t *testing.T) {
		repo, _, uc := setup()
		seed(repo)

		txs, err := uc.MoveScan(context.Background(), &dto.MoveScanInput{
			Warehouse:      "WH1",
			FromLocationID: "loc-recv",
			ToLocationID:   "loc-rack",
			ItemCode:       "WIDGET-1",
			ScanCode:       "SC-100",
			Quantity:       1,
			UserID:         "u1",
		})
		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.Equal(t, model.TxTypeTransferOut, txs[0].TransactionType)
		assert.Equal(t, model.TxTypeTransferIn, txs[1].TransactionType)

		assert.Equal(t, float64(4), repo.levels[levelKey("WH1", "loc-recv", "WIDGET-1")].Quantity)
		assert.Equal(t, float64(1), repo.levels[levelKey("WH1", "loc-rack", "WIDGET-1")].Quantity)
		assert.Equal(t, "loc-rack", repo.placements["SC-100"].LocationID)
	})

	t.Run("wrong stated source", func(t *testing.T) {
		repo, _, uc := setup()
		seed(repo)
		repo.levels[levelKey("WH1", "loc-kit", "WIDGET-1")] = &model.InventoryLevel{
			ID: "lvl2", Warehouse: "WH1", LocationID: "loc-kit", ItemCode: "WIDGET-1", Quantity: 5,
		}

		_, err := uc.MoveScan(context.Background(), &dto.MoveScanInput{
			Warehouse:      "WH1",
			FromLocationID: "loc-kit", // unit is actually at loc-recv
			ToLocationID:   "loc-rack",
			ItemCode:       "WIDGET-1",
			ScanCode:       "SC-100",
			Quantity:       1,
		})
		require.ErrorIs(t, err, ledger.ErrWrongLocation)
		assert.Equal(t, "loc-recv", repo.placements["SC-100"].LocationID)
		assert.Empty(t, repo.applied)

		require.Len(t, repo.rejections, 1)
		assert.Equal(t, model.ScanStatusConflict, repo.rejections[0].Status)
	})

	t.Run("placement tracked in another warehouse", func(t *testing.T) {
		repo, _, uc := setup()
		repo.levels[levelKey("WH1", "loc-rack", "WIDGET-1")] = &model.InventoryLevel{
			ID: "lvl1", Warehouse: "WH1", LocationID: "loc-rack", ItemCode: "WIDGET-1", Quantity: 5,
		}
		repo.placements["SC-200"] = &model.ScanPlacement{ScanCode: "SC-200", Warehouse: "WH2", LocationID: "loc-rack", ItemCode: "WIDGET-1"}

		_, err := uc.MoveScan(context.Background(), &dto.MoveScanInput{
			Warehouse:      "WH1",
			FromLocationID: "loc-rack",
			ToLocationID:   "loc-recv",
			ItemCode:       "WIDGET-1",
			ScanCode:       "SC-200",
			Quantity:       1,
		})
		require.ErrorIs(t, err, ledger.ErrWarehouseMismatch)
		assert.Empty(t, repo.applied)

		// The rejected attempt still leaves an audit row
		require.Len(t, repo.rejections, 1)
		assert.Equal(t, model.ScanStatusConflict, repo.rejections[0].Status)
	})

	t.Run("same source and destination", func(t *testing.T) {
		repo, _, uc := setup()
		seed(repo)

		_, err := uc.MoveScan(context.Background(), &dto.MoveScanInput{
			Warehouse:      "WH1",
			FromLocationID: "loc-recv",
			ToLocationID:   "loc-recv",
			ItemCode:       "WIDGET-1",
			ScanCode:       "SC-100",
			Quantity:       1,
		})
		require.Error(t, err)
		assert.Empty(t, repo.applied)
	})

	t.Run("untracked scan", func(t *testing.T) {
		repo, _, uc := setup()
		repo.levels[levelKey("WH1", "loc-recv", "WIDGET-1")] = &model.InventoryLevel{
			ID: "lvl1", Warehouse: "WH1", LocationID: "loc-recv", ItemCode: "WIDGET-1", Quantity: 5,
		}

		_, err := uc.MoveScan(context.Background(), &dto.MoveScanInput{
			Warehouse:      "WH1",
			FromLocationID: "loc-recv",
			ToLocationID:   "loc-rack",
			ItemCode:       "WIDGET-1",
			ScanCode:       "SC-404",
			Quantity:       1,
		})
		require.ErrorIs(t, err, ledger.ErrScanNotFound)
		require.Len(t, repo.rejections, 1)
		assert.Equal(t, model.ScanStatusMissing, repo.rejections[0].Status)
	})
}

func TestReleaseScan(t *testing.T) {
	t.Run("releases quantity and placement together", func(t *testing.T) {
		repo, _, uc := setup()
		repo.levels[levelKey("WH1", "loc-kit", "WIDGET-1")] = &model.InventoryLevel{
			ID: "lvl1", Warehouse: "WH1", LocationID: "loc-kit", ItemCode: "WIDGET-1", Quantity: 3,
		}
		repo.placements["SC-100"] = &model.ScanPlacement{ScanCode: "SC-100", Warehouse: "WH1", LocationID: "loc-kit", ItemCode: "WIDGET-1"}

		tx, err := uc.ReleaseScan(context.Background(), &dto.ReleaseScanInput{
			ScanCode:        "SC-100",
			Quantity:        1,
			TransactionType: model.TxTypeKitConsume,
			UserID:          "u1",
		})
		require.NoError(t, err)
		assert.Equal(t, float64(-1), tx.QuantityChange)
		assert.Equal(t, "loc-kit", tx.LocationID)

		assert.Nil(t, repo.placements["SC-100"])
		assert.Equal(t, float64(2), repo.levels[levelKey("WH1", "loc-kit", "WIDGET-1")].Quantity)

		require.Len(t, repo.applied, 1)
		require.Len(t, repo.applied[0].Verifications, 1)
		assert.Equal(t, model.ScanStatusReleased, repo.applied[0].Verifications[0].Status)
	})

	t.Run("release entry at the wrong location", func(t *testing.T) {
		repo, _, uc := setup()
		repo.levels[levelKey("WH1", "loc-kit", "WIDGET-1")] = &model.InventoryLevel{
			ID: "lvl1", Warehouse: "WH1", LocationID: "loc-kit", ItemCode: "WIDGET-1", Quantity: 3,
		}
		// The unit was moved to loc-rack after the caller last looked
		repo.placements["SC-100"] = &model.ScanPlacement{ScanCode: "SC-100", Warehouse: "WH1", LocationID: "loc-rack", ItemCode: "WIDGET-1"}

		e := dto.Entry{
			Warehouse:       "WH1",
			LocationID:      "loc-kit",
			ItemCode:        "WIDGET-1",
			QuantityChange:  -1,
			TransactionType: model.TxTypeKitConsume,
			Scan:            &dto.ScanOp{Kind: dto.ScanOpRelease, ScanCode: "SC-100"},
		}
		_, err := uc.Post(context.Background(), []dto.Entry{e})
		require.ErrorIs(t, err, ledger.ErrWrongLocation)
		assert.Empty(t, repo.applied)
		assert.NotNil(t, repo.placements["SC-100"], "placement survives the rejected release")
		assert.Equal(t, float64(3), repo.levels[levelKey("WH1", "loc-kit", "WIDGET-1")].Quantity)

		require.Len(t, repo.rejections, 1)
		assert.Equal(t, model.ScanStatusConflict, repo.rejections[0].Status)
	})
}

func TestPost_Locking(t *testing.T) {
	t.Run("locks are sorted and released", func(t *testing.T) {
		_, locker, uc := setup()

		e1 := receiptEntry(1)
		e2 := receiptEntry(1)
		e2.ItemCode = "AAA-1"
		e1.Scan = &dto.ScanOp{Kind: dto.ScanOpPlace, ScanCode: "SC-1"}

		_, err := uc.Post(context.Background(), []dto.Entry{e1, e2})
		require.NoError(t, err)

		assert.True(t, sort.StringsAreSorted(locker.acquired))
		assert.ElementsMatch(t, locker.acquired, locker.released)
	})

	t.Run("held lock rejects the posting", func(t *testing.T) {
		repo, locker, uc := setup()
		locker.deny = map[string]bool{"lock:inventory:WH1:WIDGET-1": true}

		_, err := uc.Post(context.Background(), []dto.Entry{receiptEntry(1)})
		require.ErrorIs(t, err, ledger.ErrBusy)
		assert.Empty(t, repo.applied)
		assert.ElementsMatch(t, locker.acquired, locker.released)
	})
}

func TestPost_Validation(t *testing.T) {
	_, _, uc := setup()

	_, err := uc.Post(context.Background(), nil)
	assert.ErrorIs(t, err, ledger.ErrEmptyPosting)

	_, err = uc.Post(context.Background(), []dto.Entry{{Warehouse: "WH1"}})
	assert.Error(t, err)

	e := receiptEntry(1)
	e.Scan = &dto.ScanOp{Kind: dto.ScanOpMove, ScanCode: "SC-1"} // missing source
	_, err = uc.Post(context.Background(), []dto.Entry{e})
	assert.Error(t, err)
}
