package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft             PurchaseOrderStatus = "draft"
	PurchaseOrderStatusSent              PurchaseOrderStatus = "sent"
	PurchaseOrderStatusConfirmed         PurchaseOrderStatus = "confirmed"
	PurchaseOrderStatusPartiallyReceived PurchaseOrderStatus = "partially_received"
	PurchaseOrderStatusReceived          PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled         PurchaseOrderStatus = "cancelled"
)

func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusSent, PurchaseOrderStatusConfirmed,
		PurchaseOrderStatusPartiallyReceived, PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo covers the manual status-update operation only. Receiving
// moves a PO to partially_received/received through the receive operation,
// never through a manual update.
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusSent || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusSent:
		return target == PurchaseOrderStatusConfirmed || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusConfirmed:
		return target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusPartiallyReceived:
		return target == PurchaseOrderStatusCancelled
	}
	return false
}

// CanReceive reports whether deliveries may be recorded in this status.
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusConfirmed || s == PurchaseOrderStatusPartiallyReceived
}

type PurchaseOrder struct {
	BaseModel
	TenantID     string              `db:"tenant_id" json:"tenant_id"`
	Number       string              `db:"number" json:"number"`
	SupplierID   string              `db:"supplier_id" json:"supplier_id"`
	Status       PurchaseOrderStatus `db:"status" json:"status"`
	TotalAmount  decimal.Decimal     `db:"total_amount" json:"total_amount"`
	ExpectedDate *time.Time          `db:"expected_date" json:"expected_date"`
	Notes        string              `db:"notes" json:"notes"`
	CreatedBy    *string             `db:"created_by" json:"created_by"`
	Items        []PurchaseOrderItem `db:"-" json:"items"`
}

type PurchaseOrderItem struct {
	ID               string           `db:"id" json:"id"`
	PurchaseOrderID  string           `db:"purchase_order_id" json:"purchase_order_id"`
	StockUnitID      string           `db:"stock_unit_id" json:"stock_unit_id"`
	QuantityOrdered  int64            `db:"quantity_ordered" json:"quantity_ordered"`
	QuantityReceived int64            `db:"quantity_received" json:"quantity_received"`
	UnitPrice        decimal.Decimal  `db:"unit_price" json:"unit_price"`
	ActualUnitPrice  *decimal.Decimal `db:"actual_unit_price" json:"actual_unit_price"`
}

// RemainingQuantity returns the quantity still to be received for the line.
func (i *PurchaseOrderItem) RemainingQuantity() int64 {
	remaining := i.QuantityOrdered - i.QuantityReceived
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.QuantityReceived >= i.QuantityOrdered
}

// ResolveStatus recomputes the aggregate receiving status from the lines:
// received iff every line is fully received, partially_received otherwise.
// Call only after at least one delivery has been recorded.
func (po *PurchaseOrder) ResolveStatus() PurchaseOrderStatus {
	for i := range po.Items {
		if !po.Items[i].IsFullyReceived() {
			return PurchaseOrderStatusPartiallyReceived
		}
	}
	return PurchaseOrderStatusReceived
}
