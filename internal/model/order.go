package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further status updates are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanCancel reports whether the order may still be cancelled. Shipped and
// delivered orders cannot be cancelled; neither can an already-cancelled one.
func (s OrderStatus) CanCancel() bool {
	switch s {
	case OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return false
	}
	return true
}

// Order is a sales transaction. It is created in the same database
// transaction as the stock deductions and sale movements for its lines.
type Order struct {
	BaseModel
	TenantID      string          `db:"tenant_id" json:"tenant_id"`
	Number        string          `db:"number" json:"number"`
	Status        OrderStatus     `db:"status" json:"status"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	CustomerName  *string         `db:"customer_name" json:"customer_name"`
	CustomerEmail *string         `db:"customer_email" json:"customer_email"`
	Notes         string          `db:"notes" json:"notes"`
	CreatedBy     *string         `db:"created_by" json:"created_by"`
	CancelledAt   *time.Time      `db:"cancelled_at" json:"cancelled_at"`
	CancelReason  *string         `db:"cancel_reason" json:"cancel_reason"`
	Items         []OrderItem     `db:"-" json:"items"`
}

// OrderItem denormalizes product name and SKU at the time of sale so the
// order remains readable after the stock unit changes or is deactivated.
type OrderItem struct {
	ID          string          `db:"id" json:"id"`
	OrderID     string          `db:"order_id" json:"order_id"`
	StockUnitID string          `db:"stock_unit_id" json:"stock_unit_id"`
	ProductID   string          `db:"product_id" json:"product_id"`
	ProductName string          `db:"product_name" json:"product_name"`
	SKU         string          `db:"sku" json:"sku"`
	Quantity    int64           `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	LineTotal   decimal.Decimal `db:"line_total" json:"line_total"`
}
