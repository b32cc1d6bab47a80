package dto

type StockUnitFilters struct {
	TenantID   string
	SKU        string
	LowStock   bool // if true, filter by quantity <= low_stock_threshold
	ActiveOnly bool
	Page       int
	PageSize   int
}

type MovementFilters struct {
	TenantID     string
	StockUnitID  string
	MovementType string
	Page         int
	PageSize     int
}
