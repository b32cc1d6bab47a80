package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stockpilot/inventory-service/internal/apperrors"
	"github.com/stockpilot/inventory-service/internal/database"
	"github.com/stockpilot/inventory-service/internal/events"
	"github.com/stockpilot/inventory-service/internal/model"
	"github.com/stockpilot/inventory-service/internal/order"
	"github.com/stockpilot/inventory-service/internal/order/dto"
)

type orderUseCase struct {
	repo    order.Repository
	ledger  order.StockLedger
	tx      database.TxManager
	emitter events.Emitter
	logger  *zap.Logger
}

func NewOrderUseCase(repo order.Repository, ledger order.StockLedger, tx database.TxManager, emitter events.Emitter, logger *zap.Logger) order.UseCase {
	return &orderUseCase{
		repo:    repo,
		ledger:  ledger,
		tx:      tx,
		emitter: emitter,
		logger:  logger,
	}
}

// CreateOrder claims stock for every line, writes the sale movements and the
// order record in one transaction. Lines are processed in request order; a
// failure on any line aborts the transaction, so earlier claims are rolled
// back by the storage layer and no partial order is ever visible.
func (uc *orderUseCase) CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error) {
	if len(input.Lines) == 0 {
		return nil, apperrors.NewValidation("order must have at least one line item")
	}
	for i, line := range input.Lines {
		if line.StockUnitID == "" {
			return nil, apperrors.NewValidation("line %d: stock_unit_id is required", i+1)
		}
		if line.Quantity < 1 {
			return nil, apperrors.NewValidation("line %d: quantity must be at least 1", i+1)
		}
	}

	number := input.Number
	if number == "" {
		number = generateNumber("ORD")
	}

	now := time.Now().UTC()
	o := &model.Order{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		TenantID:      input.TenantID,
		Number:        number,
		Status:        model.OrderStatusPending,
		TotalAmount:   decimal.Zero,
		CustomerName:  optional(input.CustomerName),
		CustomerEmail: optional(input.CustomerEmail),
		Notes:         input.Notes,
		CreatedBy:     optional(input.UserID),
	}

	var touched []*model.StockUnit
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, line := range input.Lines {
			unit, err := uc.ledger.TryMutate(ctx, input.TenantID, line.StockUnitID, -line.Quantity)
			if err != nil {
				return err
			}
			if !unit.IsActive {
				return apperrors.NewValidation("SKU %s is inactive and cannot be sold", unit.SKU)
			}

			if err := uc.ledger.LogMovement(ctx, saleMovement(unit, o, -line.Quantity)); err != nil {
				return err
			}

			lineTotal := unit.UnitPrice.Mul(decimal.NewFromInt(line.Quantity))
			o.Items = append(o.Items, model.OrderItem{
				ID:          uuid.New().String(),
				OrderID:     o.ID,
				StockUnitID: unit.ID,
				ProductID:   unit.ProductID,
				ProductName: unit.Name,
				SKU:         unit.SKU,
				Quantity:    line.Quantity,
				UnitPrice:   unit.UnitPrice,
				LineTotal:   lineTotal,
			})
			o.TotalAmount = o.TotalAmount.Add(lineTotal)
			touched = append(touched, unit)
		}

		return uc.repo.Create(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	uc.emitter.Emit(ctx, input.TenantID, events.OrderCreated, map[string]any{
		"order_id":     o.ID,
		"number":       o.Number,
		"total_amount": o.TotalAmount,
	})
	for _, unit := range touched {
		uc.emitter.Emit(ctx, input.TenantID, events.StockUpdated, events.StockUpdatedPayload(unit))
		if unit.IsLowStock() {
			uc.emitter.Emit(ctx, input.TenantID, events.StockLow, events.StockLowPayload(unit))
		}
	}

	uc.logger.Info("order created",
		zap.String("tenant_id", input.TenantID),
		zap.String("order_id", o.ID),
		zap.String("number", o.Number),
		zap.Int("lines", len(o.Items)),
	)
	return o, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, tenantID, id string) (*model.Order, error) {
	return uc.repo.GetByID(ctx, tenantID, id)
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

// UpdateStatus accepts any non-terminal target without skip-level
// validation; only cancelled and delivered orders are frozen. Cancellation
// goes through Cancel because it has stock side effects.
func (uc *orderUseCase) UpdateStatus(ctx context.Context, tenantID, id string, status model.OrderStatus) (*model.Order, error) {
	if !status.IsValid() || status == model.OrderStatusCancelled {
		return nil, apperrors.NewValidation("invalid target status %q", status)
	}

	o, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if o.Status.IsTerminal() {
		return nil, &apperrors.InvalidTransitionError{
			Entity:  "order",
			Current: o.Status.String(),
			Target:  status.String(),
		}
	}

	if err := uc.repo.UpdateStatus(ctx, tenantID, id, status); err != nil {
		return nil, err
	}
	o.Status = status

	uc.emitter.Emit(ctx, tenantID, events.OrderUpdated, map[string]any{
		"order_id": o.ID,
		"number":   o.Number,
		"status":   o.Status,
	})
	return o, nil
}

// Cancel is a forward-only compensating transaction: every line's quantity
// is added back (an unconditional increment, no guard needed) and a return
// movement is appended. The original sale movements are never touched.
func (uc *orderUseCase) Cancel(ctx context.Context, tenantID, id, reason string) (*model.Order, error) {
	o, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanCancel() {
		return nil, &apperrors.InvalidTransitionError{
			Entity:  "order",
			Current: o.Status.String(),
			Target:  model.OrderStatusCancelled.String(),
		}
	}

	now := time.Now().UTC()
	var touched []*model.StockUnit
	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, item := range o.Items {
			unit, err := uc.ledger.TryMutate(ctx, tenantID, item.StockUnitID, item.Quantity)
			if err != nil {
				return err
			}
			if err := uc.ledger.LogMovement(ctx, returnMovement(unit, o, item.Quantity)); err != nil {
				return err
			}
			touched = append(touched, unit)
		}
		return uc.repo.MarkCancelled(ctx, tenantID, id, reason, now)
	})
	if err != nil {
		return nil, err
	}

	o.Status = model.OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = optional(reason)

	uc.emitter.Emit(ctx, tenantID, events.OrderCancelled, map[string]any{
		"order_id": o.ID,
		"number":   o.Number,
		"reason":   reason,
	})
	for _, unit := range touched {
		uc.emitter.Emit(ctx, tenantID, events.StockUpdated, events.StockUpdatedPayload(unit))
	}

	uc.logger.Info("order cancelled",
		zap.String("tenant_id", tenantID),
		zap.String("order_id", o.ID),
		zap.String("reason", reason),
	)
	return o, nil
}

func saleMovement(unit *model.StockUnit, o *model.Order, delta int64) *model.Movement {
	return movement(unit, o, model.MovementSale, delta, "order "+o.Number)
}

func returnMovement(unit *model.StockUnit, o *model.Order, delta int64) *model.Movement {
	return movement(unit, o, model.MovementReturn, delta, "cancelled order "+o.Number)
}

// movement captures the unit state right after TryMutate, so before/after
// line up with the unit's quantity history by construction.
func movement(unit *model.StockUnit, o *model.Order, movementType string, delta int64, reference string) *model.Movement {
	refID := o.ID
	return &model.Movement{
		ID:             uuid.New().String(),
		TenantID:       unit.TenantID,
		StockUnitID:    unit.ID,
		ProductID:      unit.ProductID,
		MovementType:   movementType,
		QuantityChange: delta,
		QuantityBefore: unit.Quantity - delta,
		QuantityAfter:  unit.Quantity,
		Reference:      reference,
		ReferenceID:    &refID,
		CreatedBy:      o.CreatedBy,
		CreatedAt:      time.Now().UTC(),
	}
}

func generateNumber(prefix string) string {
	return fmt.Sprintf("%s-%s-%s", prefix,
		time.Now().UTC().Format("20060102"),
		strings.ToUpper(uuid.New().String()[:8]))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
