package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/stockpilot/inventory-service/internal/apperrors"
	"github.com/stockpilot/inventory-service/internal/database"
	"github.com/stockpilot/inventory-service/internal/model"
	"github.com/stockpilot/inventory-service/internal/order/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order) error {
	q := database.Querier(ctx, r.DB)

	orderQuery := `
        INSERT INTO orders (
            id, tenant_id, number, status, total_amount,
            customer_name, customer_email, notes, created_by,
            created_at, updated_at
        )
        VALUES (
            :id, :tenant_id, :number, :status, :total_amount,
            :customer_name, :customer_email, :notes, :created_by,
            :created_at, :updated_at
        )
    `
	if _, err := sqlx.NamedExecContext(ctx, q, orderQuery, o); err != nil {
		if database.IsUniqueViolation(err) {
			return &apperrors.ConflictError{Resource: "order", Field: "number", Value: o.Number}
		}
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
        INSERT INTO order_items (
            id, order_id, stock_unit_id, product_id, product_name, sku,
            quantity, unit_price, line_total
        )
        VALUES (
            :id, :order_id, :stock_unit_id, :product_id, :product_name, :sku,
            :quantity, :unit_price, :line_total
        )
    `
	for i := range o.Items {
		if _, err := sqlx.NamedExecContext(ctx, q, itemQuery, &o.Items[i]); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (r *PGRepository) GetByID(ctx context.Context, tenantID, id string) (*model.Order, error) {
	q := database.Querier(ctx, r.DB)

	var o model.Order
	err := sqlx.GetContext(ctx, q, &o,
		`SELECT * FROM orders WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("order", id)
	}
	if err != nil {
		return nil, err
	}

	err = sqlx.SelectContext(ctx, q, &o.Items,
		`SELECT * FROM order_items WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	return &o, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	conditions := []string{"tenant_id = :tenant_id"}
	args := map[string]interface{}{"tenant_id": f.TenantID}

	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	q := database.Querier(ctx, r.DB)

	var count int
	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM orders"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := sqlx.GetContext(ctx, q, &count, q.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	listQuery := "SELECT * FROM orders" + whereClause + " ORDER BY created_at DESC"
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

	var orders []model.Order
	if err := sqlx.SelectContext(ctx, q, &orders, q.Rebind(query), queryArgs...); err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, tenantID, id string, status model.OrderStatus) error {
	res, err := database.Querier(ctx, r.DB).ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND tenant_id = $3`,
		status, id, tenantID)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NewNotFound("order", id)
	}
	return nil
}

func (r *PGRepository) MarkCancelled(ctx context.Context, tenantID, id, reason string, at time.Time) error {
	res, err := database.Querier(ctx, r.DB).ExecContext(ctx,
		`UPDATE orders
         SET status = $1, cancelled_at = $2, cancel_reason = $3, updated_at = NOW()
         WHERE id = $4 AND tenant_id = $5`,
		model.OrderStatusCancelled, at, reason, id, tenantID)
	if err != nil {
		return fmt.Errorf("mark order cancelled: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NewNotFound("order", id)
	}
	return nil
}
