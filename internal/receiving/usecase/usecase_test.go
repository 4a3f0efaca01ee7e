package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waretrack/inventory-service/internal/ledger"
	ledgerdto "github.com/waretrack/inventory-service/internal/ledger/dto"
	"github.com/waretrack/inventory-service/internal/model"
	"github.com/waretrack/inventory-service/internal/pkg/logger"
	"github.com/waretrack/inventory-service/internal/receiving"
	"github.com/waretrack/inventory-service/internal/receiving/dto"
)

type fakeRepo struct {
	byID map[string]*model.Pulltag
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*model.Pulltag{}}
}

func (r *fakeRepo) Create(_ context.Context, p *model.Pulltag) error {
	r.byID[p.ID] = p
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*model.Pulltag, error) {
	if p, ok := r.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeRepo) FindByNumberLine(_ context.Context, wh, number string, lineNo int) (*model.Pulltag, error) {
	for _, p := range r.byID {
		if p.Warehouse == wh && p.PulltagNumber == number && p.LineNo == lineNo {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) FindAll(context.Context, *dto.PulltagFilters) ([]model.Pulltag, int, error) {
	return nil, 0, nil
}

func (r *fakeRepo) UpdateReceipt(_ context.Context, id string, received float64, status string) error {
	r.byID[id].QuantityReceived = received
	r.byID[id].Status = status
	return nil
}

type fakeLocations struct {
	byID map[string]*model.Location
}

func newFakeLocations() *fakeLocations {
	return &fakeLocations{byID: map[string]*model.Location{
		"loc-recv": {ID: "loc-recv", Warehouse: "WH1", Kind: model.LocationKindReceiving, Active: true},
		"loc-rack": {ID: "loc-rack", Warehouse: "WH1", Kind: model.LocationKindRack, Active: true},
	}}
}

func (l *fakeLocations) FindByID(_ context.Context, id string) (*model.Location, error) {
	if loc, ok := l.byID[id]; ok {
		cp := *loc
		return &cp, nil
	}
	return nil, nil
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

type fakeLedger struct {
	postings [][]ledgerdto.Entry
	postErr  error
}

func (l *fakeLedger) Post(_ context.Context, entries []ledgerdto.Entry) ([]model.Transaction, error) {
	if l.postErr != nil {
		return nil, l.postErr
	}
	l.postings = append(l.postings, entries)
	txs := make([]model.Transaction, len(entries))
	for i, e := range entries {
		txs[i] = model.Transaction{Warehouse: e.Warehouse, ItemCode: e.ItemCode, QuantityChange: e.QuantityChange}
	}
	return txs, nil
}

func (l *fakeLedger) PlaceScan(context.Context, *ledgerdto.PlaceScanInput) (*model.Transaction, error) {
	return nil, nil
}

func (l *fakeLedger) MoveScan(context.Context, *ledgerdto.MoveScanInput) ([]model.Transaction, error) {
	return nil, nil
}

func (l *fakeLedger) ReleaseScan(context.Context, *ledgerdto.ReleaseScanInput) (*model.Transaction, error) {
	return nil, nil
}

func (l *fakeLedger) GetPlacement(context.Context, string) (*model.ScanPlacement, error) {
	return nil, nil
}

func (l *fakeLedger) ListTransactions(context.Context, *ledgerdto.TransactionFilters) ([]model.Transaction, int, error) {
	return nil, 0, nil
}

func (l *fakeLedger) ListVerifications(context.Context, *ledgerdto.VerificationFilters) ([]model.ScanVerification, int, error) {
	return nil, 0, nil
}

func newUC(repo *fakeRepo, led *fakeLedger) receiving.UseCase {
	return NewReceivingUseCase(repo, newFakeLocations(), led, &fakeLocker{}, logger.NewNop())
}

func seedPulltag(repo *fakeRepo, ordered, received float64, status string) *model.Pulltag {
	tag := &model.Pulltag{
		ID:               "pt-1",
		Warehouse:        "WH1",
		PulltagNumber:    "PT-1001",
		LineNo:           1,
		ItemCode:         "WIDGET-1",
		QuantityOrdered:  ordered,
		QuantityReceived: received,
		Status:           status,
	}
	repo.byID[tag.ID] = tag
	return tag
}

func TestReceiveLine(t *testing.T) {
	t.Run("partial receipt", func(t *testing.T) {
		repo := newFakeRepo()
		led := &fakeLedger{}
		uc := newUC(repo, led)
		seedPulltag(repo, 10, 0, model.PulltagStatusOpen)

		txs, err := uc.ReceiveLine(context.Background(), &dto.ReceiveLineInput{
			PulltagID: "pt-1", LocationID: "loc-recv", Quantity: 4, UserID: "u1",
		})
		require.NoError(t, err)
		require.Len(t, txs, 1)

		assert.Equal(t, float64(4), repo.byID["pt-1"].QuantityReceived)
		assert.Equal(t, model.PulltagStatusPartial, repo.byID["pt-1"].Status)

		require.Len(t, led.postings, 1)
		e := led.postings[0][0]
		assert.Equal(t, model.TxTypeReceipt, e.TransactionType)
		assert.Equal(t, "pulltag", e.ReferenceType)
		assert.Equal(t, "pt-1", e.ReferenceID)
	})

	t.Run("final receipt closes the line", func(t *testing.T) {
		repo := newFakeRepo()
		uc := newUC(repo, &fakeLedger{})
		seedPulltag(repo, 10, 4, model.PulltagStatusPartial)

		_, err := uc.ReceiveLine(context.Background(), &dto.ReceiveLineInput{
			PulltagID: "pt-1", LocationID: "loc-recv", Quantity: 6,
		})
		require.NoError(t, err)
		assert.Equal(t, model.PulltagStatusReceived, repo.byID["pt-1"].Status)
	})

	t.Run("over-receipt rejected", func(t *testing.T) {
		repo := newFakeRepo()
		led := &fakeLedger{}
		uc := newUC(repo, led)
		seedPulltag(repo, 10, 8, model.PulltagStatusPartial)

		_, err := uc.ReceiveLine(context.Background(), &dto.ReceiveLineInput{
			PulltagID: "pt-1", LocationID: "loc-recv", Quantity: 3,
		})
		require.ErrorIs(t, err, receiving.ErrOverReceipt)
		assert.Empty(t, led.postings)
		assert.Equal(t, float64(8), repo.byID["pt-1"].QuantityReceived)
	})

	t.Run("cancelled line rejected", func(t *testing.T) {
		repo := newFakeRepo()
		uc := newUC(repo, &fakeLedger{})
		seedPulltag(repo, 10, 0, model.PulltagStatusCancelled)

		_, err := uc.ReceiveLine(context.Background(), &dto.ReceiveLineInput{
			PulltagID: "pt-1", LocationID: "loc-recv", Quantity: 1,
		})
		assert.ErrorIs(t, err, receiving.ErrPulltagClosed)
	})

	t.Run("unknown pulltag", func(t *testing.T) {
		uc := newUC(newFakeRepo(), &fakeLedger{})
		_, err := uc.ReceiveLine(context.Background(), &dto.ReceiveLineInput{
			PulltagID: "nope", LocationID: "loc-recv", Quantity: 1,
		})
		assert.ErrorIs(t, err, receiving.ErrPulltagNotFound)
	})

	t.Run("receipt into a non-receiving location rejected", func(t *testing.T) {
		repo := newFakeRepo()
		led := &fakeLedger{}
		uc := newUC(repo, led)
		seedPulltag(repo, 10, 0, model.PulltagStatusOpen)

		_, err := uc.ReceiveLine(context.Background(), &dto.ReceiveLineInput{
			PulltagID: "pt-1", LocationID: "loc-rack", Quantity: 4,
		})
		require.ErrorIs(t, err, receiving.ErrNotReceivingLoc)
		assert.Empty(t, led.postings)
	})

	t.Run("unknown location", func(t *testing.T) {
		repo := newFakeRepo()
		uc := newUC(repo, &fakeLedger{})
		seedPulltag(repo, 10, 0, model.PulltagStatusOpen)

		_, err := uc.ReceiveLine(context.Background(), &dto.ReceiveLineInput{
			PulltagID: "pt-1", LocationID: "loc-nope", Quantity: 4,
		})
		assert.ErrorIs(t, err, ledger.ErrLocationNotFound)
	})

	t.Run("pulltag line is locked for the receipt", func(t *testing.T) {
		repo := newFakeRepo()
		locker := &fakeLocker{}
		uc := NewReceivingUseCase(repo, newFakeLocations(), &fakeLedger{}, locker, logger.NewNop())
		seedPulltag(repo, 10, 0, model.PulltagStatusOpen)

		_, err := uc.ReceiveLine(context.Background(), &dto.ReceiveLineInput{
			PulltagID: "pt-1", LocationID: "loc-recv", Quantity: 4,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"lock:pulltag:pt-1"}, locker.acquired)
		assert.Equal(t, []string{"lock:pulltag:pt-1"}, locker.released)
	})

	t.Run("contended pulltag line returns busy", func(t *testing.T) {
		repo := newFakeRepo()
		led := &fakeLedger{}
		locker := &fakeLocker{deny: map[string]bool{"lock:pulltag:pt-1": true}}
		uc := NewReceivingUseCase(repo, newFakeLocations(), led, locker, logger.NewNop())
		seedPulltag(repo, 10, 8, model.PulltagStatusPartial)

		_, err := uc.ReceiveLine(context.Background(), &dto.ReceiveLineInput{
			PulltagID: "pt-1", LocationID: "loc-recv", Quantity: 2,
		})
		require.ErrorIs(t, err, ledger.ErrBusy)
		assert.Empty(t, led.postings)
		assert.Equal(t, float64(8), repo.byID["pt-1"].QuantityReceived)
	})

	t.Run("scan codes split the quantity", func(t *testing.T) {
		repo := newFakeRepo()
		led := &fakeLedger{}
		uc := newUC(repo, led)
		seedPulltag(repo, 10, 0, model.PulltagStatusOpen)

		txs, err := uc.ReceiveLine(context.Background(), &dto.ReceiveLineInput{
			PulltagID: "pt-1", LocationID: "loc-recv", Quantity: 10,
			ScanCodes: []string{"SC-1", "SC-2"},
		})
		require.NoError(t, err)
		require.Len(t, txs, 2)

		entries := led.postings[0]
		require.Len(t, entries, 2)
		for _, e := range entries {
			assert.Equal(t, float64(5), e.QuantityChange)
			require.NotNil(t, e.Scan)
			assert.Equal(t, ledgerdto.ScanOpPlace, e.Scan.Kind)
		}
	})

	t.Run("uneven scan split rejected", func(t *testing.T) {
		repo := newFakeRepo()
		uc := newUC(repo, &fakeLedger{})
		seedPulltag(repo, 10, 0, model.PulltagStatusOpen)

		_, err := uc.ReceiveLine(context.Background(), &dto.ReceiveLineInput{
			PulltagID: "pt-1", LocationID: "loc-recv", Quantity: 10,
			ScanCodes: []string{"SC-1", "SC-2", "SC-3"},
		})
		assert.ErrorIs(t, err, receiving.ErrScanSplit)
	})
}

func TestCreateLines(t *testing.T) {
	repo := newFakeRepo()
	uc := newUC(repo, &fakeLedger{})

	tags, err := uc.CreateLines(context.Background(), &dto.CreatePulltagsInput{
		Warehouse:     "WH1",
		PulltagNumber: "PT-2001",
		JobNumber:     "JOB-7",
		Lines: []dto.PulltagLineInput{
			{LineNo: 1, ItemCode: "WIDGET-1", Quantity: 5},
			{LineNo: 2, ItemCode: "GADGET-2", Quantity: 3},
		},
	})
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, model.PulltagStatusOpen, tags[0].Status)
	require.NotNil(t, tags[0].JobNumber)
	assert.Equal(t, "JOB-7", *tags[0].JobNumber)

	t.Run("duplicate line rejected", func(t *testing.T) {
		_, err := uc.CreateLines(context.Background(), &dto.CreatePulltagsInput{
			Warehouse:     "WH1",
			PulltagNumber: "PT-2001",
			Lines:         []dto.PulltagLineInput{{LineNo: 1, ItemCode: "WIDGET-1", Quantity: 5}},
		})
		assert.ErrorIs(t, err, receiving.ErrDuplicateLine)
	})
}

func TestImportPulltags(t *testing.T) {
	csvBody := strings.Join([]string{
		"pulltag_number,line_no,item_code,quantity,job_number",
		"PT-3001,1,WIDGET-1,10,JOB-1",
		"PT-3001,2,GADGET-2,4,JOB-1",
		",3,GADGET-2,4,JOB-1",    // missing number
		"PT-3001,x,GADGET-2,4,",  // bad line_no
		"PT-3001,4,GADGET-2,-2,", // bad quantity
		"PT-3001,1,WIDGET-1,10,", // duplicate of row 2
	}, "\n")

	repo := newFakeRepo()
	uc := newUC(repo, &fakeLedger{})

	result, err := uc.ImportPulltags(context.Background(), "WH1", strings.NewReader(csvBody))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 4, result.Skipped)
	require.Len(t, result.Errors, 4)
	assert.Equal(t, 4, result.Errors[0].Row)
	assert.Equal(t, "missing pulltag_number", result.Errors[0].Reason)
	assert.Equal(t, "duplicate pulltag line", result.Errors[3].Reason)

	t.Run("bad header rejected", func(t *testing.T) {
		_, err := uc.ImportPulltags(context.Background(), "WH1", strings.NewReader("nope,b,c,d,e\n"))
		assert.Error(t, err)
	})
}
