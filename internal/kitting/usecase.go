package kitting

import (
	"context"

	"github.com/waretrack/inventory-service/internal/kitting/dto"
	"github.com/waretrack/inventory-service/internal/model"
)

type UseCase interface {
	// BuildKit consumes component stock (releasing consumed scans) and
	// produces kit stock in one atomic posting.
	BuildKit(ctx context.Context, input *dto.BuildKitInput) ([]model.Transaction, error)

	// AdjustPostKitting posts a signed correction with a mandatory reason,
	// optionally releasing an orphaned scan in the same posting.
	AdjustPostKitting(ctx context.Context, input *dto.AdjustInput) ([]model.Transaction, error)

	// DecomposePallet releases the pallet scan and places its unit scans,
	// converting pallet quantity into unit quantities in one posting.
	DecomposePallet(ctx context.Context, input *dto.DecomposeInput) ([]model.Transaction, error)
}

// ItemReader is the slice of the items master kitting needs.
type ItemReader interface {
	FindByCode(ctx context.Context, itemCode string) (*model.Item, error)
}
