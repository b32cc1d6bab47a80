package purchaseorder

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/stockpilot/inventory-service/internal/model"
	"github.com/stockpilot/inventory-service/internal/purchaseorder/dto"
)

type Repository interface {
	Create(ctx context.Context, po *model.PurchaseOrder) error
	GetByID(ctx context.Context, tenantID, id string) (*model.PurchaseOrder, error)
	FindAll(ctx context.Context, filters *dto.PurchaseOrderFilters) ([]model.PurchaseOrder, int, error)
	UpdateStatus(ctx context.Context, tenantID, id string, status model.PurchaseOrderStatus) error

	// RecordReceipt increments quantity_received on one PO line and stores
	// the actual unit price when supplied. Called inside the receiving
	// transaction.
	RecordReceipt(ctx context.Context, itemID string, quantity int64, actualUnitPrice *decimal.Decimal) error
}

// StockLedger is the slice of the stock repository the receiving state
// machine needs.
type StockLedger interface {
	TryMutate(ctx context.Context, tenantID, id string, delta int64) (*model.StockUnit, error)
	LogMovement(ctx context.Context, movement *model.Movement) error
}
