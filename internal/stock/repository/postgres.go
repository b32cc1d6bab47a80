package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/stockpilot/inventory-service/internal/apperrors"
	"github.com/stockpilot/inventory-service/internal/database"
	"github.com/stockpilot/inventory-service/internal/model"
	"github.com/stockpilot/inventory-service/internal/stock/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, unit *model.StockUnit) error {
	query := `
        INSERT INTO stock_units (
            id, tenant_id, product_id, sku, name,
            unit_price, unit_cost, quantity, low_stock_threshold, is_active,
            created_at, updated_at
        )
        VALUES (
            :id, :tenant_id, :product_id, :sku, :name,
            :unit_price, :unit_cost, :quantity, :low_stock_threshold, :is_active,
            :created_at, :updated_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, database.Querier(ctx, r.DB), query, unit)
	if database.IsUniqueViolation(err) {
		return &apperrors.ConflictError{Resource: "stock unit", Field: "sku", Value: unit.SKU}
	}
	if err != nil {
		return fmt.Errorf("insert stock unit: %w", err)
	}
	return nil
}

func (r *PGRepository) GetByID(ctx context.Context, tenantID, id string) (*model.StockUnit, error) {
	var unit model.StockUnit
	err := sqlx.GetContext(ctx, database.Querier(ctx, r.DB), &unit,
		`SELECT * FROM stock_units WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("stock unit", id)
	}
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.StockUnitFilters) ([]model.StockUnit, int, error) {
	conditions := []string{"tenant_id = :tenant_id"}
	args := map[string]interface{}{"tenant_id": f.TenantID}

	if f.SKU != "" {
		conditions = append(conditions, "sku = :sku")
		args["sku"] = f.SKU
	}
	if f.LowStock {
		conditions = append(conditions, "quantity <= low_stock_threshold")
	}
	if f.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE")
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	q := database.Querier(ctx, r.DB)

	var count int
	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM stock_units"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := sqlx.GetContext(ctx, q, &count, q.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	listQuery := "SELECT * FROM stock_units" + whereClause + " ORDER BY sku"
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

	var units []model.StockUnit
	if err := sqlx.SelectContext(ctx, q, &units, q.Rebind(query), queryArgs...); err != nil {
		return nil, 0, err
	}
	return units, count, nil
}

func (r *PGRepository) Deactivate(ctx context.Context, tenantID, id string) error {
	res, err := database.Querier(ctx, r.DB).ExecContext(ctx,
		`UPDATE stock_units SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND tenant_id = $2`,
		id, tenantID)
	if err != nil {
		return fmt.Errorf("deactivate stock unit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NewNotFound("stock unit", id)
	}
	return nil
}

// TryMutate is the single mutation path for the quantity column. The guard
// lives inside the UPDATE itself: the row lock taken by the storage engine
// serializes concurrent attempts, and the predicate admits a mutation only
// when the resulting quantity stays non-negative. When the guard misses we
// probe the row once more purely to tell "not found" apart from
// "insufficient stock"; the probe plays no part in the admission decision.
func (r *PGRepository) TryMutate(ctx context.Context, tenantID, id string, delta int64) (*model.StockUnit, error) {
	q := database.Querier(ctx, r.DB)

	var unit model.StockUnit
	err := sqlx.GetContext(ctx, q, &unit, `
        UPDATE stock_units
        SET quantity = quantity + $1, updated_at = NOW()
        WHERE id = $2 AND tenant_id = $3 AND quantity + $1 >= 0
        RETURNING *`,
		delta, id, tenantID)
	if err == nil {
		return &unit, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("mutate stock unit: %w", err)
	}

	var probe struct {
		SKU      string `db:"sku"`
		Quantity int64  `db:"quantity"`
	}
	err = sqlx.GetContext(ctx, q, &probe,
		`SELECT sku, quantity FROM stock_units WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("stock unit", id)
	}
	if err != nil {
		return nil, err
	}
	return nil, &apperrors.InsufficientStockError{
		SKU:       probe.SKU,
		Requested: -delta,
		Available: probe.Quantity,
	}
}

func (r *PGRepository) LogMovement(ctx context.Context, m *model.Movement) error {
	query := `
        INSERT INTO stock_movements (
            id, tenant_id, stock_unit_id, product_id,
            movement_type, quantity_change, quantity_before, quantity_after,
            reference, reference_id, notes, created_by, created_at
        )
        VALUES (
            :id, :tenant_id, :stock_unit_id, :product_id,
            :movement_type, :quantity_change, :quantity_before, :quantity_after,
            :reference, :reference_id, :notes, :created_by, :created_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, database.Querier(ctx, r.DB), query, m)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.Movement, int, error) {
	conditions := []string{"tenant_id = :tenant_id"}
	args := map[string]interface{}{"tenant_id": f.TenantID}

	if f.StockUnitID != "" {
		conditions = append(conditions, "stock_unit_id = :stock_unit_id")
		args["stock_unit_id"] = f.StockUnitID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	q := database.Querier(ctx, r.DB)

	var count int
	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM stock_movements"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := sqlx.GetContext(ctx, q, &count, q.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	listQuery := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC"
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

	var movements []model.Movement
	if err := sqlx.SelectContext(ctx, q, &movements, q.Rebind(query), queryArgs...); err != nil {
		return nil, 0, err
	}
	return movements, count, nil
}
