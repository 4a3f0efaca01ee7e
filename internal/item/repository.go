package item

import (
	"context"

	"github.com/waretrack/inventory-service/internal/item/dto"
	"github.com/waretrack/inventory-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, it *model.Item) error
	Update(ctx context.Context, it *model.Item) error
	FindByID(ctx context.Context, id string) (*model.Item, error)
	FindByCode(ctx context.Context, itemCode string) (*model.Item, error)
	FindAll(ctx context.Context, filters *dto.ItemFilters) ([]model.Item, int, error)
	IsCodeUnique(ctx context.Context, itemCode, excludeID string) (bool, error)
}
