package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockUnit is one sellable SKU with its own quantity on hand.
// Quantity is only ever changed through the repository's TryMutate primitive;
// nothing else writes the quantity column.
type StockUnit struct {
	BaseModel
	TenantID          string          `db:"tenant_id" json:"tenant_id"`
	ProductID         string          `db:"product_id" json:"product_id"`
	SKU               string          `db:"sku" json:"sku"`
	Name              string          `db:"name" json:"name"`
	UnitPrice         decimal.Decimal `db:"unit_price" json:"unit_price"`
	UnitCost          decimal.Decimal `db:"unit_cost" json:"unit_cost"`
	Quantity          int64           `db:"quantity" json:"quantity"`
	LowStockThreshold int64           `db:"low_stock_threshold" json:"low_stock_threshold"`
	IsActive          bool            `db:"is_active" json:"is_active"`
}

// IsLowStock reports whether the unit is at or below its reorder threshold.
func (u *StockUnit) IsLowStock() bool {
	return u.Quantity <= u.LowStockThreshold
}

// Movement kinds. Every quantity change is recorded with exactly one of these.
const (
	MovementPurchaseReceipt = "purchase_receipt"
	MovementSale            = "sale"
	MovementReturn          = "return"
	MovementAdjustment      = "adjustment"
)

// Movement is an immutable ledger entry for one quantity change.
// quantity_after = quantity_before + quantity_change always holds, and
// quantity_after equals the stock unit's quantity at the instant the row was
// written. Rows are never updated or deleted.
type Movement struct {
	ID             string    `db:"id" json:"id"`
	TenantID       string    `db:"tenant_id" json:"tenant_id"`
	StockUnitID    string    `db:"stock_unit_id" json:"stock_unit_id"`
	ProductID      string    `db:"product_id" json:"product_id"`
	MovementType   string    `db:"movement_type" json:"movement_type"`
	QuantityChange int64     `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int64     `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int64     `db:"quantity_after" json:"quantity_after"`
	Reference      string    `db:"reference" json:"reference"`
	ReferenceID    *string   `db:"reference_id" json:"reference_id"`
	Notes          string    `db:"notes" json:"notes"`
	CreatedBy      *string   `db:"created_by" json:"created_by"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
