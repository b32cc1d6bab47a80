package stock

import (
	"context"

	"github.com/stockpilot/inventory-service/internal/model"
	"github.com/stockpilot/inventory-service/internal/stock/dto"
)

type UseCase interface {
	CreateStockUnit(ctx context.Context, input *dto.CreateStockUnitInput) (*model.StockUnit, error)
	GetStockUnit(ctx context.Context, tenantID, id string) (*model.StockUnit, error)
	ListStockUnits(ctx context.Context, filters *dto.StockUnitFilters) ([]model.StockUnit, int, error)
	Adjust(ctx context.Context, input *dto.AdjustStockInput) (*model.StockUnit, error)
	Deactivate(ctx context.Context, tenantID, id string) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.Movement, int, error)
}
