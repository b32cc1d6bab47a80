package purchaseorder

import (
	"context"

	"github.com/stockpilot/inventory-service/internal/model"
	"github.com/stockpilot/inventory-service/internal/purchaseorder/dto"
)

type UseCase interface {
	CreatePurchaseOrder(ctx context.Context, input *dto.CreatePurchaseOrderInput) (*model.PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, tenantID, id string) (*model.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, filters *dto.PurchaseOrderFilters) ([]model.PurchaseOrder, int, error)
	UpdateStatus(ctx context.Context, tenantID, id string, status model.PurchaseOrderStatus) (*model.PurchaseOrder, error)
	Receive(ctx context.Context, input *dto.ReceiveInput) (*model.PurchaseOrder, error)
}
