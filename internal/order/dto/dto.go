package dto

type OrderFilters struct {
	TenantID string
	Status   string
	Page     int
	PageSize int
}
