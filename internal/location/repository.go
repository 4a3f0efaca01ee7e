package location

import (
	"context"

	"github.com/waretrack/inventory-service/internal/location/dto"
	"github.com/waretrack/inventory-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, loc *model.Location) error
	FindByID(ctx context.Context, id string) (*model.Location, error)
	FindByCode(ctx context.Context, warehouse, code string) (*model.Location, error)
	FindAll(ctx context.Context, filters *dto.LocationFilters) ([]model.Location, int, error)
	SetActive(ctx context.Context, id string, active bool) error

	// HasStock reports whether current_inventory holds a nonzero quantity at
	// the location.
	HasStock(ctx context.Context, locationID string) (bool, error)
}
