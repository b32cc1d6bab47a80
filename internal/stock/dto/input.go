package dto

import "github.com/shopspring/decimal"

type CreateStockUnitInput struct {
	TenantID          string
	UserID            string
	ProductID         string
	SKU               string
	Name              string
	UnitPrice         decimal.Decimal
	UnitCost          decimal.Decimal
	InitialQuantity   int64
	LowStockThreshold int64
}

type AdjustStockInput struct {
	TenantID       string
	UserID         string
	StockUnitID    string
	QuantityChange int64
	MovementType   string // 'adjustment' or 'return'
	Notes          string
}
