package order

import (
	"context"
	"time"

	"github.com/stockpilot/inventory-service/internal/model"
	"github.com/stockpilot/inventory-service/internal/order/dto"
)

type Repository interface {
	// Create inserts the order and its line items. Called inside the same
	// transaction as the stock deductions and sale movements.
	Create(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, tenantID, id string) (*model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	UpdateStatus(ctx context.Context, tenantID, id string, status model.OrderStatus) error
	MarkCancelled(ctx context.Context, tenantID, id, reason string, at time.Time) error
}

// StockLedger is the slice of the stock repository the order coordinator
// needs: the atomic claim primitive and the append-only movement log.
type StockLedger interface {
	TryMutate(ctx context.Context, tenantID, id string, delta int64) (*model.StockUnit, error)
	LogMovement(ctx context.Context, movement *model.Movement) error
}
