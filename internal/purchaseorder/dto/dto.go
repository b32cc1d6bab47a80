package dto

type PurchaseOrderFilters struct {
	TenantID string
	Status   string
	Page     int
	PageSize int
}
