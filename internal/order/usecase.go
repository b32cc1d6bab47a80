package order

import (
	"context"

	"github.com/stockpilot/inventory-service/internal/model"
	"github.com/stockpilot/inventory-service/internal/order/dto"
)

type UseCase interface {
	CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, tenantID, id string) (*model.Order, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	UpdateStatus(ctx context.Context, tenantID, id string, status model.OrderStatus) (*model.Order, error)
	Cancel(ctx context.Context, tenantID, id, reason string) (*model.Order, error)
}
