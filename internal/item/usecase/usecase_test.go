package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waretrack/inventory-service/internal/item"
	"github.com/waretrack/inventory-service/internal/item/dto"
	"github.com/waretrack/inventory-service/internal/model"
	"github.com/waretrack/inventory-service/internal/pkg/logger"
)

type fakeRepo struct {
	byID    map[string]*model.Item
	listed  []model.Item
	findAll int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*model.Item{}}
}

func (r *fakeRepo) Create(_ context.Context, it *model.Item) error {
	r.byID[it.ID] = it
	return nil
}

func (r *fakeRepo) Update(_ context.Context, it *model.Item) error {
	r.byID[it.ID] = it
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*model.Item, error) {
	return r.byID[id], nil
}

func (r *fakeRepo) FindByCode(_ context.Context, code string) (*model.Item, error) {
	for _, it := range r.byID {
		if it.ItemCode == code {
			return it, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) FindAll(context.Context, *dto.ItemFilters) ([]model.Item, int, error) {
	r.findAll++
	return r.listed, len(r.listed), nil
}

func (r *fakeRepo) IsCodeUnique(_ context.Context, code, excludeID string) (bool, error) {
	for _, it := range r.byID {
		if it.ItemCode == code && it.ID != excludeID {
			return false, nil
		}
	}
	return true, nil
}

func TestCreateItem(t *testing.T) {
	repo := newFakeRepo()
	uc := NewItemUseCase(repo, nil, nil, logger.NewNop())

	it, err := uc.CreateItem(context.Background(), &dto.CreateItemInput{
		ItemCode: "WIDGET-1", Description: "widget", UOM: "EA",
	})
	require.NoError(t, err)
	assert.True(t, it.Active)
	assert.NotEmpty(t, it.ID)

	t.Run("duplicate code rejected", func(t *testing.T) {
		_, err := uc.CreateItem(context.Background(), &dto.CreateItemInput{ItemCode: "WIDGET-1"})
		assert.ErrorIs(t, err, item.ErrCodeTaken)
	})
}

func TestUpdateItem(t *testing.T) {
	repo := newFakeRepo()
	uc := NewItemUseCase(repo, nil, nil, logger.NewNop())

	a, err := uc.CreateItem(context.Background(), &dto.CreateItemInput{ItemCode: "WIDGET-1"})
	require.NoError(t, err)
	_, err = uc.CreateItem(context.Background(), &dto.CreateItemInput{ItemCode: "GADGET-2"})
	require.NoError(t, err)

	t.Run("rename onto taken code rejected", func(t *testing.T) {
		_, err := uc.UpdateItem(context.Background(), &dto.UpdateItemInput{
			ID: a.ID, ItemCode: "GADGET-2",
		})
		assert.ErrorIs(t, err, item.ErrCodeTaken)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := uc.UpdateItem(context.Background(), &dto.UpdateItemInput{ID: "nope", ItemCode: "X"})
		assert.ErrorIs(t, err, item.ErrNotFound)
	})

	t.Run("fields updated", func(t *testing.T) {
		got, err := uc.UpdateItem(context.Background(), &dto.UpdateItemInput{
			ID: a.ID, ItemCode: "WIDGET-1", Description: "new desc", UOM: "BX", Kit: true, PackQuantity: 12, Active: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "new desc", got.Description)
		assert.True(t, got.Kit)
		assert.Equal(t, float64(12), got.PackQuantity)
	})
}

func TestListItems_FallsBackToDBWithoutSearch(t *testing.T) {
	repo := newFakeRepo()
	repo.listed = []model.Item{{ItemCode: "WIDGET-1"}}
	uc := NewItemUseCase(repo, nil, nil, logger.NewNop())

	items, total, err := uc.ListItems(context.Background(), &dto.ItemFilters{SearchQuery: "wid", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, repo.findAll, "no ES client configured, DB must serve the search")
}

func TestGetItem(t *testing.T) {
	repo := newFakeRepo()
	uc := NewItemUseCase(repo, nil, nil, logger.NewNop())

	_, err := uc.GetItem(context.Background(), "WIDGET-1")
	assert.ErrorIs(t, err, item.ErrNotFound)

	_, err = uc.CreateItem(context.Background(), &dto.CreateItemInput{ItemCode: "WIDGET-1"})
	require.NoError(t, err)

	got, err := uc.GetItem(context.Background(), "WIDGET-1")
	require.NoError(t, err)
	assert.Equal(t, "WIDGET-1", got.ItemCode)
}
