package movement

import (
	"context"

	"github.com/waretrack/inventory-service/internal/model"
	"github.com/waretrack/inventory-service/internal/movement/dto"
)

type UseCase interface {
	// MoveUnit moves a scanned unit between locations of one warehouse,
	// updating stock at both ends and the scan placement atomically.
	MoveUnit(ctx context.Context, input *dto.MoveUnitInput) ([]model.Transaction, error)

	// MoveQuantity moves untracked quantity between two locations.
	MoveQuantity(ctx context.Context, input *dto.MoveQuantityInput) ([]model.Transaction, error)
}
