package usecase

import (
	"context"
	"fmt"

	"github.com/waretrack/inventory-service/internal/ledger"
	ledgerdto "github.com/waretrack/inventory-service/internal/ledger/dto"
	"github.com/waretrack/inventory-service/internal/model"
	"github.com/waretrack/inventory-service/internal/movement"
	"github.com/waretrack/inventory-service/internal/movement/dto"
	"github.com/waretrack/inventory-service/internal/pkg/logger"
)

type movementUseCase struct {
	ledger ledger.UseCase
	logger logger.ZapLogger
}

func NewMovementUseCase(ledgerUC ledger.UseCase, log logger.ZapLogger) movement.UseCase {
	return &movementUseCase{
		ledger: ledgerUC,
		logger: log,
	}
}

func (uc *movementUseCase) MoveUnit(ctx context.Context, input *dto.MoveUnitInput) ([]model.Transaction, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	return uc.ledger.MoveScan(ctx, &ledgerdto.MoveScanInput{
		Warehouse:      input.Warehouse,
		FromLocationID: input.FromLocationID,
		ToLocationID:   input.ToLocationID,
		ItemCode:       input.ItemCode,
		ScanCode:       input.ScanCode,
		Quantity:       input.Quantity,
		ReferenceType:  "movement",
		Note:           input.Note,
		UserID:         input.UserID,
	})
}

func (uc *movementUseCase) MoveQuantity(ctx context.Context, input *dto.MoveQuantityInput) ([]model.Transaction, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	if input.FromLocationID == input.ToLocationID {
		return nil, fmt.Errorf("source and destination location are the same")
	}

	base := ledgerdto.Entry{
		Warehouse:     input.Warehouse,
		ItemCode:      input.ItemCode,
		ReferenceType: "movement",
		Note:          input.Note,
		UserID:        input.UserID,
	}
	out := base
	out.LocationID = input.FromLocationID
	out.QuantityChange = -input.Quantity
	out.TransactionType = model.TxTypeTransferOut
	in := base
	in.LocationID = input.ToLocationID
	in.QuantityChange = input.Quantity
	in.TransactionType = model.TxTypeTransferIn

	return uc.ledger.Post(ctx, []ledgerdto.Entry{out, in})
}
