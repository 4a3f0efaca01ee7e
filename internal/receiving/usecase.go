package receiving

import (
	"context"
	"io"

	"github.com/waretrack/inventory-service/internal/model"
	"github.com/waretrack/inventory-service/internal/receiving/dto"
)

type UseCase interface {
	// ReceiveLine posts a receipt against an open pulltag line, optionally
	// placing scan codes for the received units.
	ReceiveLine(ctx context.Context, input *dto.ReceiveLineInput) ([]model.Transaction, error)

	// CreateLines registers new pulltag lines (UI form or upstream event).
	CreateLines(ctx context.Context, input *dto.CreatePulltagsInput) ([]model.Pulltag, error)

	// ImportPulltags bulk-loads pulltag lines from a CSV stream.
	ImportPulltags(ctx context.Context, warehouse string, r io.Reader) (*dto.ImportResult, error)

	ListPulltags(ctx context.Context, filters *dto.PulltagFilters) ([]model.Pulltag, int, error)
}

// LocationReader is the slice of the locations table receiving validates
// against. Satisfied by the location PGRepository.
type LocationReader interface {
	FindByID(ctx context.Context, id string) (*model.Location, error)
}
