package item

import (
	"context"

	"github.com/waretrack/inventory-service/internal/item/dto"
	"github.com/waretrack/inventory-service/internal/model"
)

type UseCase interface {
	CreateItem(ctx context.Context, input *dto.CreateItemInput) (*model.Item, error)
	UpdateItem(ctx context.Context, input *dto.UpdateItemInput) (*model.Item, error)
	GetItem(ctx context.Context, itemCode string) (*model.Item, error)
	ListItems(ctx context.Context, filters *dto.ItemFilters) ([]model.Item, int, error)
}
