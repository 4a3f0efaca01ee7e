package receiving

import (
	"context"

	"github.com/waretrack/inventory-service/internal/model"
	"github.com/waretrack/inventory-service/internal/receiving/dto"
)

type Repository interface {
	Create(ctx context.Context, p *model.Pulltag) error
	FindByID(ctx context.Context, id string) (*model.Pulltag, error)
	FindByNumberLine(ctx context.Context, warehouse, pulltagNumber string, lineNo int) (*model.Pulltag, error)
	FindAll(ctx context.Context, filters *dto.PulltagFilters) ([]model.Pulltag, int, error)
	UpdateReceipt(ctx context.Context, id string, quantityReceived float64, status string) error
}
