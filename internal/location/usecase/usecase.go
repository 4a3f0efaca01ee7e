package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/waretrack/inventory-service/internal/location"
	"github.com/waretrack/inventory-service/internal/location/dto"
	"github.com/waretrack/inventory-service/internal/model"
	"github.com/waretrack/inventory-service/internal/pkg/logger"
)

var validKinds = map[string]bool{
	model.LocationKindRack:      true,
	model.LocationKindStaging:   true,
	model.LocationKindReceiving: true,
	model.LocationKindKitting:   true,
	model.LocationKindShipped:   true,
}

type locationUseCase struct {
	repo   location.Repository
	logger logger.ZapLogger
}

func NewLocationUseCase(repo location.Repository, log logger.ZapLogger) location.UseCase {
	return &locationUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *locationUseCase) CreateLocation(ctx context.Context, input *dto.CreateLocationInput) (*model.Location, error) {
	if !validKinds[input.Kind] {
		return nil, fmt.Errorf("%w: %s", location.ErrInvalidKind, input.Kind)
	}

	existing, err := uc.repo.FindByCode(ctx, input.Warehouse, input.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", location.ErrCodeTaken, input.Code)
	}

	loc := &model.Location{
		ID:        uuid.New().String(),
		Warehouse: input.Warehouse,
		Code:      input.Code,
		Kind:      input.Kind,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

func (uc *locationUseCase) GetLocation(ctx context.Context, id string) (*model.Location, error) {
	loc, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, location.ErrNotFound
	}
	return loc, nil
}

func (uc *locationUseCase) ListLocations(ctx context.Context, filters *dto.LocationFilters) ([]model.Location, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

// DeactivateLocation retires a location. Refused while the location still
// holds quantity, so stock can never be stranded at an invisible spot.
func (uc *locationUseCase) DeactivateLocation(ctx context.Context, id string) error {
	loc, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if loc == nil {
		return location.ErrNotFound
	}

	hasStock, err := uc.repo.HasStock(ctx, id)
	if err != nil {
		return err
	}
	if hasStock {
		return fmt.Errorf("%w: %s", location.ErrHoldingStock, loc.Code)
	}

	return uc.repo.SetActive(ctx, id, false)
}
