package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockpilot/inventory-service/internal/apperrors"
	"github.com/stockpilot/inventory-service/internal/database"
	"github.com/stockpilot/inventory-service/internal/events"
	"github.com/stockpilot/inventory-service/internal/model"
	"github.com/stockpilot/inventory-service/internal/stock"
	"github.com/stockpilot/inventory-service/internal/stock/dto"
)

type stockUseCase struct {
	repo    stock.Repository
	tx      database.TxManager
	emitter events.Emitter
	logger  *zap.Logger
}

func NewStockUseCase(repo stock.Repository, tx database.TxManager, emitter events.Emitter, logger *zap.Logger) stock.UseCase {
	return &stockUseCase{
		repo:    repo,
		tx:      tx,
		emitter: emitter,
		logger:  logger,
	}
}

func (uc *stockUseCase) CreateStockUnit(ctx context.Context, input *dto.CreateStockUnitInput) (*model.StockUnit, error) {
	if input.SKU == "" || input.Name == "" || input.ProductID == "" {
		return nil, apperrors.NewValidation("sku, name and product_id are required")
	}
	if input.InitialQuantity < 0 {
		return nil, apperrors.NewValidation("initial quantity cannot be negative")
	}
	if input.LowStockThreshold < 0 {
		return nil, apperrors.NewValidation("low stock threshold cannot be negative")
	}
	if input.UnitPrice.IsNegative() || input.UnitCost.IsNegative() {
		return nil, apperrors.NewValidation("unit price and unit cost cannot be negative")
	}

	now := time.Now().UTC()
	unit := &model.StockUnit{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		TenantID:          input.TenantID,
		ProductID:         input.ProductID,
		SKU:               input.SKU,
		Name:              input.Name,
		UnitPrice:         input.UnitPrice,
		UnitCost:          input.UnitCost,
		Quantity:          input.InitialQuantity,
		LowStockThreshold: input.LowStockThreshold,
		IsActive:          true,
	}

	// Initial quantity is itself a ledger-tracked mutation, so the unit and
	// its opening movement land in one transaction.
	if input.InitialQuantity > 0 {
		err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := uc.repo.Create(ctx, unit); err != nil {
				return err
			}
			return uc.repo.LogMovement(ctx, newMovement(unit, model.MovementAdjustment,
				input.InitialQuantity, 0, "initial stock", nil, "", input.UserID))
		})
		if err != nil {
			return nil, err
		}
	} else {
		if err := uc.repo.Create(ctx, unit); err != nil {
			return nil, err
		}
	}

	uc.emitter.Emit(ctx, input.TenantID, events.StockUpdated, events.StockUpdatedPayload(unit))
	return unit, nil
}

func (uc *stockUseCase) GetStockUnit(ctx context.Context, tenantID, id string) (*model.StockUnit, error) {
	return uc.repo.GetByID(ctx, tenantID, id)
}

func (uc *stockUseCase) ListStockUnits(ctx context.Context, filters *dto.StockUnitFilters) ([]model.StockUnit, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

// Adjust applies a manual signed quantity change. The non-negativity guard
// applies only when the delta is negative, and it is enforced inside
// TryMutate, never by a prior read.
func (uc *stockUseCase) Adjust(ctx context.Context, input *dto.AdjustStockInput) (*model.StockUnit, error) {
	if input.QuantityChange == 0 {
		return nil, apperrors.NewValidation("quantity change cannot be zero")
	}
	if input.MovementType != model.MovementAdjustment && input.MovementType != model.MovementReturn {
		return nil, apperrors.NewValidation("movement type must be %q or %q",
			model.MovementAdjustment, model.MovementReturn)
	}

	var unit *model.StockUnit
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		unit, err = uc.repo.TryMutate(ctx, input.TenantID, input.StockUnitID, input.QuantityChange)
		if err != nil {
			return err
		}
		return uc.repo.LogMovement(ctx, newMovement(unit, input.MovementType,
			input.QuantityChange, unit.Quantity-input.QuantityChange,
			"manual adjustment", nil, input.Notes, input.UserID))
	})
	if err != nil {
		return nil, err
	}

	uc.emitter.Emit(ctx, input.TenantID, events.StockUpdated, events.StockUpdatedPayload(unit))
	if input.QuantityChange < 0 && unit.IsLowStock() {
		uc.emitter.Emit(ctx, input.TenantID, events.StockLow, events.StockLowPayload(unit))
	}

	uc.logger.Info("stock adjusted",
		zap.String("tenant_id", input.TenantID),
		zap.String("stock_unit_id", unit.ID),
		zap.Int64("delta", input.QuantityChange),
		zap.Int64("quantity", unit.Quantity),
	)
	return unit, nil
}

func (uc *stockUseCase) Deactivate(ctx context.Context, tenantID, id string) error {
	return uc.repo.Deactivate(ctx, tenantID, id)
}

func (uc *stockUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.Movement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}

// newMovement builds a ledger entry from the post-mutation unit state.
func newMovement(unit *model.StockUnit, movementType string, delta, before int64, reference string, referenceID *string, notes, userID string) *model.Movement {
	var createdBy *string
	if userID != "" {
		createdBy = &userID
	}
	return &model.Movement{
		ID:             uuid.New().String(),
		TenantID:       unit.TenantID,
		StockUnitID:    unit.ID,
		ProductID:      unit.ProductID,
		MovementType:   movementType,
		QuantityChange: delta,
		QuantityBefore: before,
		QuantityAfter:  before + delta,
		Reference:      reference,
		ReferenceID:    referenceID,
		Notes:          notes,
		CreatedBy:      createdBy,
		CreatedAt:      time.Now().UTC(),
	}
}
