package stock

import (
	"context"

	"github.com/stockpilot/inventory-service/internal/model"
	"github.com/stockpilot/inventory-service/internal/stock/dto"
)

type Repository interface {
	// Stock units
	Create(ctx context.Context, unit *model.StockUnit) error
	GetByID(ctx context.Context, tenantID, id string) (*model.StockUnit, error)
	FindAll(ctx context.Context, filters *dto.StockUnitFilters) ([]model.StockUnit, int, error)
	Deactivate(ctx context.Context, tenantID, id string) error

	// TryMutate atomically applies delta to the unit's quantity, but only if
	// the result stays >= 0. It is a single guarded UPDATE at the storage
	// layer, never a read-then-write, so concurrent deductions on one unit
	// serialize on the row and at most the prefix that keeps the quantity
	// non-negative is admitted. Returns the unit state after the mutation;
	// a NotFoundError and an InsufficientStockError are distinguishable.
	TryMutate(ctx context.Context, tenantID, id string, delta int64) (*model.StockUnit, error)

	// Movements / audit ledger (append-only)
	LogMovement(ctx context.Context, movement *model.Movement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.Movement, int, error)
}
