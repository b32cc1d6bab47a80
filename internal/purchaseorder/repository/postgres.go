package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/stockpilot/inventory-service/internal/apperrors"
	"github.com/stockpilot/inventory-service/internal/database"
	"github.com/stockpilot/inventory-service/internal/model"
	"github.com/stockpilot/inventory-service/internal/purchaseorder/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, po *model.PurchaseOrder) error {
	q := database.Querier(ctx, r.DB)

	poQuery := `
        INSERT INTO purchase_orders (
            id, tenant_id, number, supplier_id, status, total_amount,
            expected_date, notes, created_by, created_at, updated_at
        )
        VALUES (
            :id, :tenant_id, :number, :supplier_id, :status, :total_amount,
            :expected_date, :notes, :created_by, :created_at, :updated_at
        )
    `
	if _, err := sqlx.NamedExecContext(ctx, q, poQuery, po); err != nil {
		if database.IsUniqueViolation(err) {
			return &apperrors.ConflictError{Resource: "purchase order", Field: "number", Value: po.Number}
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}

	itemQuery := `
        INSERT INTO purchase_order_items (
            id, purchase_order_id, stock_unit_id,
            quantity_ordered, quantity_received, unit_price, actual_unit_price
        )
        VALUES (
            :id, :purchase_order_id, :stock_unit_id,
            :quantity_ordered, :quantity_received, :unit_price, :actual_unit_price
        )
    `
	for i := range po.Items {
		if _, err := sqlx.NamedExecContext(ctx, q, itemQuery, &po.Items[i]); err != nil {
			return fmt.Errorf("insert purchase order item: %w", err)
		}
	}
	return nil
}

func (r *PGRepository) GetByID(ctx context.Context, tenantID, id string) (*model.PurchaseOrder, error) {
	q := database.Querier(ctx, r.DB)

	var po model.PurchaseOrder
	err := sqlx.GetContext(ctx, q, &po,
		`SELECT * FROM purchase_orders WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("purchase order", id)
	}
	if err != nil {
		return nil, err
	}

	err = sqlx.SelectContext(ctx, q, &po.Items,
		`SELECT * FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("load purchase order items: %w", err)
	}
	return &po, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.PurchaseOrderFilters) ([]model.PurchaseOrder, int, error) {
	conditions := []string{"tenant_id = :tenant_id"}
	args := map[string]interface{}{"tenant_id": f.TenantID}

	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	q := database.Querier(ctx, r.DB)

	var count int
	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM purchase_orders"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := sqlx.GetContext(ctx, q, &count, q.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	listQuery := "SELECT * FROM purchase_orders" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		if offset < 0 {
			offset = 0
		}
		listQuery += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	query, queryArgs, err := sqlx.Named(listQuery, args)
	if err != nil {
		return nil, 0, err
	}

	var pos []model.PurchaseOrder
	if err := sqlx.SelectContext(ctx, q, &pos, q.Rebind(query), queryArgs...); err != nil {
		return nil, 0, err
	}
	return pos, count, nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, tenantID, id string, status model.PurchaseOrderStatus) error {
	res, err := database.Querier(ctx, r.DB).ExecContext(ctx,
		`UPDATE purchase_orders SET status = $1, updated_at = NOW() WHERE id = $2 AND tenant_id = $3`,
		status, id, tenantID)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NewNotFound("purchase order", id)
	}
	return nil
}

func (r *PGRepository) RecordReceipt(ctx context.Context, itemID string, quantity int64, actualUnitPrice *decimal.Decimal) error {
	res, err := database.Querier(ctx, r.DB).ExecContext(ctx,
		`UPDATE purchase_order_items
         SET quantity_received = quantity_received + $1,
             actual_unit_price = COALESCE($2, actual_unit_price)
         WHERE id = $3`,
		quantity, actualUnitPrice, itemID)
	if err != nil {
		return fmt.Errorf("record receipt: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NewNotFound("purchase order line", itemID)
	}
	return nil
}
