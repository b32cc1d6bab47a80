package dto

import "github.com/shopspring/decimal"

// Summary aggregates tenant-wide inventory and fulfillment counters.
// InventoryValue is quantity times unit cost summed over active stock units.
type Summary struct {
	TotalStockUnits    int64           `db:"total_stock_units" json:"total_stock_units"`
	TotalQuantity      int64           `db:"total_quantity" json:"total_quantity"`
	LowStockCount      int64           `db:"low_stock_count" json:"low_stock_count"`
	InventoryValue     decimal.Decimal `db:"inventory_value" json:"inventory_value"`
	OpenOrders         int64           `db:"open_orders" json:"open_orders"`
	OpenPurchaseOrders int64           `db:"open_purchase_orders" json:"open_purchase_orders"`
}
