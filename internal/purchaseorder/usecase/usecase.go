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
	"github.com/stockpilot/inventory-service/internal/purchaseorder"
	"github.com/stockpilot/inventory-service/internal/purchaseorder/dto"
)

type purchaseOrderUseCase struct {
	repo    purchaseorder.Repository
	ledger  purchaseorder.StockLedger
	tx      database.TxManager
	emitter events.Emitter
	logger  *zap.Logger
}

func NewPurchaseOrderUseCase(repo purchaseorder.Repository, ledger purchaseorder.StockLedger, tx database.TxManager, emitter events.Emitter, logger *zap.Logger) purchaseorder.UseCase {
	return &purchaseOrderUseCase{
		repo:    repo,
		ledger:  ledger,
		tx:      tx,
		emitter: emitter,
		logger:  logger,
	}
}

func (uc *purchaseOrderUseCase) CreatePurchaseOrder(ctx context.Context, input *dto.CreatePurchaseOrderInput) (*model.PurchaseOrder, error) {
	if input.SupplierID == "" {
		return nil, apperrors.NewValidation("supplier_id is required")
	}
	if len(input.Lines) == 0 {
		return nil, apperrors.NewValidation("purchase order must have at least one line item")
	}
	for i, line := range input.Lines {
		if line.StockUnitID == "" {
			return nil, apperrors.NewValidation("line %d: stock_unit_id is required", i+1)
		}
		if line.Quantity < 1 {
			return nil, apperrors.NewValidation("line %d: quantity must be at least 1", i+1)
		}
		if line.UnitPrice.IsNegative() {
			return nil, apperrors.NewValidation("line %d: unit price cannot be negative", i+1)
		}
	}

	number := input.Number
	if number == "" {
		number = generateNumber("PO")
	}

	now := time.Now().UTC()
	po := &model.PurchaseOrder{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		TenantID:     input.TenantID,
		Number:       number,
		SupplierID:   input.SupplierID,
		Status:       model.PurchaseOrderStatusDraft,
		TotalAmount:  decimal.Zero,
		ExpectedDate: input.ExpectedDate,
		Notes:        input.Notes,
		CreatedBy:    optional(input.UserID),
	}
	for _, line := range input.Lines {
		po.Items = append(po.Items, model.PurchaseOrderItem{
			ID:              uuid.New().String(),
			PurchaseOrderID: po.ID,
			StockUnitID:     line.StockUnitID,
			QuantityOrdered: line.Quantity,
			UnitPrice:       line.UnitPrice,
		})
		po.TotalAmount = po.TotalAmount.Add(line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity)))
	}

	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return uc.repo.Create(ctx, po)
	})
	if err != nil {
		return nil, err
	}

	uc.emitter.Emit(ctx, input.TenantID, events.POCreated, map[string]any{
		"purchase_order_id": po.ID,
		"number":            po.Number,
		"total_amount":      po.TotalAmount,
	})
	return po, nil
}

func (uc *purchaseOrderUseCase) GetPurchaseOrder(ctx context.Context, tenantID, id string) (*model.PurchaseOrder, error) {
	return uc.repo.GetByID(ctx, tenantID, id)
}

func (uc *purchaseOrderUseCase) ListPurchaseOrders(ctx context.Context, filters *dto.PurchaseOrderFilters) ([]model.PurchaseOrder, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

// UpdateStatus handles manual transitions only; receiving moves a PO through
// partially_received/received on its own.
func (uc *purchaseOrderUseCase) UpdateStatus(ctx context.Context, tenantID, id string, status model.PurchaseOrderStatus) (*model.PurchaseOrder, error) {
	if !status.IsValid() {
		return nil, apperrors.NewValidation("invalid target status %q", status)
	}

	po, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !po.Status.CanTransitionTo(status) {
		return nil, &apperrors.InvalidTransitionError{
			Entity:  "purchase order",
			Current: po.Status.String(),
			Target:  status.String(),
		}
	}

	if err := uc.repo.UpdateStatus(ctx, tenantID, id, status); err != nil {
		return nil, err
	}
	po.Status = status

	uc.emitter.Emit(ctx, tenantID, events.POUpdated, map[string]any{
		"purchase_order_id": po.ID,
		"number":            po.Number,
		"status":            po.Status,
	})
	return po, nil
}

// Receive validates every requested line against the PO snapshot before any
// mutation, then applies all of them in one transaction: line receipt
// counters, unconditional stock increments, purchase-receipt movements, and
// the recomputed aggregate status.
func (uc *purchaseOrderUseCase) Receive(ctx context.Context, input *dto.ReceiveInput) (*model.PurchaseOrder, error) {
	if len(input.Lines) == 0 {
		return nil, apperrors.NewValidation("at least one received line is required")
	}
	for i, line := range input.Lines {
		if line.Quantity < 1 {
			return nil, apperrors.NewValidation("line %d: received quantity must be at least 1", i+1)
		}
		if line.ActualUnitPrice != nil && line.ActualUnitPrice.IsNegative() {
			return nil, apperrors.NewValidation("line %d: actual unit price cannot be negative", i+1)
		}
	}

	po, err := uc.repo.GetByID(ctx, input.TenantID, input.PurchaseOrderID)
	if err != nil {
		return nil, err
	}
	if !po.Status.CanReceive() {
		return nil, &apperrors.InvalidTransitionError{
			Entity:  "purchase order",
			Current: po.Status.String(),
			Target:  model.PurchaseOrderStatusReceived.String(),
		}
	}

	itemsByUnit := make(map[string]*model.PurchaseOrderItem, len(po.Items))
	for i := range po.Items {
		itemsByUnit[po.Items[i].StockUnitID] = &po.Items[i]
	}

	// Requested quantities accumulate per line so repeating a stock unit in
	// one call cannot sneak past the remaining-to-receive bound.
	requested := make(map[string]int64, len(input.Lines))
	for _, line := range input.Lines {
		item, ok := itemsByUnit[line.StockUnitID]
		if !ok {
			return nil, apperrors.NewValidation(
				"stock unit %s does not belong to purchase order %s", line.StockUnitID, po.Number)
		}
		requested[item.ID] += line.Quantity
		if requested[item.ID] > item.RemainingQuantity() {
			return nil, &apperrors.OverReceiptError{
				StockUnitID: line.StockUnitID,
				Requested:   requested[item.ID],
				Remaining:   item.RemainingQuantity(),
			}
		}
	}

	var touched []*model.StockUnit
	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, line := range input.Lines {
			item := itemsByUnit[line.StockUnitID]

			if err := uc.repo.RecordReceipt(ctx, item.ID, line.Quantity, line.ActualUnitPrice); err != nil {
				return err
			}

			unit, err := uc.ledger.TryMutate(ctx, input.TenantID, line.StockUnitID, line.Quantity)
			if err != nil {
				return err
			}
			if err := uc.ledger.LogMovement(ctx, receiptMovement(unit, po, line.Quantity, input.UserID)); err != nil {
				return err
			}

			item.QuantityReceived += line.Quantity
			if line.ActualUnitPrice != nil {
				item.ActualUnitPrice = line.ActualUnitPrice
			}
			touched = append(touched, unit)
		}

		newStatus := po.ResolveStatus()
		if err := uc.repo.UpdateStatus(ctx, input.TenantID, po.ID, newStatus); err != nil {
			return err
		}
		po.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.emitter.Emit(ctx, input.TenantID, events.POReceived, map[string]any{
		"purchase_order_id": po.ID,
		"number":            po.Number,
		"status":            po.Status,
	})
	for _, unit := range touched {
		uc.emitter.Emit(ctx, input.TenantID, events.StockUpdated, events.StockUpdatedPayload(unit))
	}

	uc.logger.Info("purchase order received",
		zap.String("tenant_id", input.TenantID),
		zap.String("purchase_order_id", po.ID),
		zap.String("status", po.Status.String()),
		zap.Int("lines", len(input.Lines)),
	)
	return po, nil
}

func receiptMovement(unit *model.StockUnit, po *model.PurchaseOrder, delta int64, userID string) *model.Movement {
	refID := po.ID
	return &model.Movement{
		ID:             uuid.New().String(),
		TenantID:       unit.TenantID,
		StockUnitID:    unit.ID,
		ProductID:      unit.ProductID,
		MovementType:   model.MovementPurchaseReceipt,
		QuantityChange: delta,
		QuantityBefore: unit.Quantity - delta,
		QuantityAfter:  unit.Quantity,
		Reference:      "PO " + po.Number,
		ReferenceID:    &refID,
		CreatedBy:      optional(userID),
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
