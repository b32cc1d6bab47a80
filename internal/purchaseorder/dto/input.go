package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type POLineInput struct {
	StockUnitID string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

type CreatePurchaseOrderInput struct {
	TenantID     string
	UserID       string
	Number       string // optional; generated when empty
	SupplierID   string
	ExpectedDate *time.Time
	Notes        string
	Lines        []POLineInput
}

type ReceiveLineInput struct {
	StockUnitID     string
	Quantity        int64
	ActualUnitPrice *decimal.Decimal
}

type ReceiveInput struct {
	TenantID        string
	UserID          string
	PurchaseOrderID string
	Lines           []ReceiveLineInput
}
