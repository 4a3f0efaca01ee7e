package location

import (
	"context"

	"github.com/waretrack/inventory-service/internal/location/dto"
	"github.com/waretrack/inventory-service/internal/model"
)

type UseCase interface {
	CreateLocation(ctx context.Context, input *dto.CreateLocationInput) (*model.Location, error)
	GetLocation(ctx context.Context, id string) (*model.Location, error)
	ListLocations(ctx context.Context, filters *dto.LocationFilters) ([]model.Location, int, error)
	DeactivateLocation(ctx context.Context, id string) error
}
