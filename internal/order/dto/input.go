package dto

type OrderLineInput struct {
	StockUnitID string
	Quantity    int64
}

type CreateOrderInput struct {
	TenantID      string
	UserID        string
	Number        string // optional; generated when empty
	CustomerName  string
	CustomerEmail string
	Notes         string
	Lines         []OrderLineInput
}
