package events

import "github.com/stockpilot/inventory-service/internal/model"

// StockUpdatedPayload is the payload for stock:updated.
func StockUpdatedPayload(u *model.StockUnit) map[string]any {
	return map[string]any{
		"stock_unit_id": u.ID,
		"quantity":      u.Quantity,
	}
}

// StockLowPayload is the payload for stock:low.
func StockLowPayload(u *model.StockUnit) map[string]any {
	return map[string]any{
		"stock_unit_id": u.ID,
		"sku":           u.SKU,
		"quantity":      u.Quantity,
		"threshold":     u.LowStockThreshold,
	}
}
