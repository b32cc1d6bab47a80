package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/stockpilot/inventory-service/internal/dashboard/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Summarize(ctx context.Context, tenantID string) (*dto.Summary, error) {
	var summary dto.Summary

	stockQuery := `
        SELECT
            count(*)                                                        AS total_stock_units,
            COALESCE(SUM(quantity), 0)                                      AS total_quantity,
            count(*) FILTER (WHERE quantity <= low_stock_threshold)         AS low_stock_count,
            COALESCE(SUM(quantity * unit_cost), 0)                          AS inventory_value
        FROM stock_units
        WHERE tenant_id = $1 AND is_active = TRUE
    `
	if err := r.DB.GetContext(ctx, &summary, stockQuery, tenantID); err != nil {
		return nil, fmt.Errorf("summarize stock: %w", err)
	}

	ordersQuery := `
        SELECT count(*) FROM orders
        WHERE tenant_id = $1 AND status NOT IN ('delivered', 'cancelled')
    `
	if err := r.DB.GetContext(ctx, &summary.OpenOrders, ordersQuery, tenantID); err != nil {
		return nil, fmt.Errorf("summarize orders: %w", err)
	}

	posQuery := `
        SELECT count(*) FROM purchase_orders
        WHERE tenant_id = $1 AND status NOT IN ('received', 'cancelled')
    `
	if err := r.DB.GetContext(ctx, &summary.OpenPurchaseOrders, posQuery, tenantID); err != nil {
		return nil, fmt.Errorf("summarize purchase orders: %w", err)
	}

	return &summary, nil
}
