package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stockpilot/inventory-service/internal/apperrors"
	"github.com/stockpilot/inventory-service/internal/events"
	"github.com/stockpilot/inventory-service/internal/model"
	"github.com/stockpilot/inventory-service/internal/purchaseorder"
	"github.com/stockpilot/inventory-service/internal/purchaseorder/dto"
)

const testTenant = "11111111-1111-1111-1111-111111111111"

type fakeLedger struct {
	mu        sync.Mutex
	units     map[string]*model.StockUnit
	movements []*model.Movement

	saved struct {
		units     map[string]model.StockUnit
		movements int
	}
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{units: map[string]*model.StockUnit{}}
}

func (l *fakeLedger) add(unit *model.StockUnit) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *unit
	l.units[unit.ID] = &cp
}

func (l *fakeLedger) quantity(id string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.units[id].Quantity
}

func (l *fakeLedger) TryMutate(ctx context.Context, tenantID, id string, delta int64) (*model.StockUnit, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	u, ok := l.units[id]
	if !ok || u.TenantID != tenantID {
		return nil, apperrors.NewNotFound("stock unit", id)
	}
	if u.Quantity+delta < 0 {
		return nil, &apperrors.InsufficientStockError{SKU: u.SKU, Requested: -delta, Available: u.Quantity}
	}
	u.Quantity += delta
	cp := *u
	return &cp, nil
}

func (l *fakeLedger) LogMovement(ctx context.Context, m *model.Movement) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.movements = append(l.movements, m)
	return nil
}

func (l *fakeLedger) snapshot() {
	l.saved.units = map[string]model.StockUnit{}
	for id, u := range l.units {
		l.saved.units[id] = *u
	}
	l.saved.movements = len(l.movements)
}

func (l *fakeLedger) restore() {
	for id, u := range l.saved.units {
		cp := u
		l.units[id] = &cp
	}
	l.movements = l.movements[:l.saved.movements]
}

type fakePORepo struct {
	mu    sync.Mutex
	pos   map[string]*model.PurchaseOrder
	saved map[string]model.PurchaseOrder
}

func newFakePORepo() *fakePORepo {
	return &fakePORepo{pos: map[string]*model.PurchaseOrder{}}
}

func clonePO(po *model.PurchaseOrder) *model.PurchaseOrder {
	cp := *po
	cp.Items = append([]model.PurchaseOrderItem(nil), po.Items...)
	return &cp
}

func (r *fakePORepo) Create(ctx context.Context, po *model.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.pos {
		if existing.TenantID == po.TenantID && existing.Number == po.Number {
			return &apperrors.ConflictError{Resource: "purchase order", Field: "number", Value: po.Number}
		}
	}
	r.pos[po.ID] = clonePO(po)
	return nil
}

func (r *fakePORepo) GetByID(ctx context.Context, tenantID, id string) (*model.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	po, ok := r.pos[id]
	if !ok || po.TenantID != tenantID {
		return nil, apperrors.NewNotFound("purchase order", id)
	}
	return clonePO(po), nil
}

func (r *fakePORepo) FindAll(ctx context.Context, filters *dto.PurchaseOrderFilters) ([]model.PurchaseOrder, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.PurchaseOrder
	for _, po := range r.pos {
		if po.TenantID == filters.TenantID {
			out = append(out, *clonePO(po))
		}
	}
	return out, len(out), nil
}

func (r *fakePORepo) UpdateStatus(ctx context.Context, tenantID, id string, status model.PurchaseOrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	po, ok := r.pos[id]
	if !ok || po.TenantID != tenantID {
		return apperrors.NewNotFound("purchase order", id)
	}
	po.Status = status
	return nil
}

func (r *fakePORepo) RecordReceipt(ctx context.Context, itemID string, quantity int64, actualUnitPrice *decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, po := range r.pos {
		for i := range po.Items {
			if po.Items[i].ID == itemID {
				po.Items[i].QuantityReceived += quantity
				if actualUnitPrice != nil {
					po.Items[i].ActualUnitPrice = actualUnitPrice
				}
				return nil
			}
		}
	}
	return apperrors.NewNotFound("purchase order line", itemID)
}

func (r *fakePORepo) snapshot() {
	r.saved = map[string]model.PurchaseOrder{}
	for id, po := range r.pos {
		r.saved[id] = *clonePO(po)
	}
}

func (r *fakePORepo) restore() {
	r.pos = map[string]*model.PurchaseOrder{}
	for id, po := range r.saved {
		cp := po
		r.pos[id] = clonePO(&cp)
	}
}

type fakeTx struct {
	mu     sync.Mutex
	ledger *fakeLedger
	repo   *fakePORepo
}

func (t *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ledger.snapshot()
	t.repo.snapshot()
	if err := fn(ctx); err != nil {
		t.ledger.restore()
		t.repo.restore()
		return err
	}
	return nil
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []string
}

func (e *recordingEmitter) Emit(ctx context.Context, tenantID, event string, payload any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

type fixture struct {
	ledger  *fakeLedger
	repo    *fakePORepo
	emitter *recordingEmitter
	uc      purchaseorder.UseCase
}

func newFixture() *fixture {
	ledger := newFakeLedger()
	repo := newFakePORepo()
	emitter := &recordingEmitter{}
	tx := &fakeTx{ledger: ledger, repo: repo}
	return &fixture{
		ledger:  ledger,
		repo:    repo,
		emitter: emitter,
		uc:      NewPurchaseOrderUseCase(repo, ledger, tx, emitter, zap.NewNop()),
	}
}

func unit(sku string, quantity int64) *model.StockUnit {
	return &model.StockUnit{
		BaseModel: model.BaseModel{ID: uuid.New().String()},
		TenantID:  testTenant,
		ProductID: uuid.New().String(),
		SKU:       sku,
		Name:      "Unit " + sku,
		Quantity:  quantity,
		IsActive:  true,
	}
}

func createConfirmedPO(t *testing.T, f *fixture, lines []dto.POLineInput) *model.PurchaseOrder {
	t.Helper()
	po, err := f.uc.CreatePurchaseOrder(context.Background(), &dto.CreatePurchaseOrderInput{
		TenantID:   testTenant,
		SupplierID: uuid.New().String(),
		Lines:      lines,
	})
	require.NoError(t, err)

	_, err = f.uc.UpdateStatus(context.Background(), testTenant, po.ID, model.PurchaseOrderStatusSent)
	require.NoError(t, err)
	got, err := f.uc.UpdateStatus(context.Background(), testTenant, po.ID, model.PurchaseOrderStatusConfirmed)
	require.NoError(t, err)
	return got
}

func TestCreatePurchaseOrderValidation(t *testing.T) {
	f := newFixture()

	cases := []struct {
		name  string
		input dto.CreatePurchaseOrderInput
	}{
		{"missing supplier", dto.CreatePurchaseOrderInput{TenantID: testTenant, Lines: []dto.POLineInput{{StockUnitID: "x", Quantity: 1}}}},
		{"no lines", dto.CreatePurchaseOrderInput{TenantID: testTenant, SupplierID: "s"}},
		{"zero quantity", dto.CreatePurchaseOrderInput{TenantID: testTenant, SupplierID: "s", Lines: []dto.POLineInput{{StockUnitID: "x", Quantity: 0}}}},
		{"negative price", dto.CreatePurchaseOrderInput{TenantID: testTenant, SupplierID: "s", Lines: []dto.POLineInput{{StockUnitID: "x", Quantity: 1, UnitPrice: decimal.NewFromInt(-2)}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.CreatePurchaseOrder(context.Background(), &tc.input)
			var verr *apperrors.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestCreatePurchaseOrderTotals(t *testing.T) {
	f := newFixture()
	u := unit("PO-SKU", 0)

	po, err := f.uc.CreatePurchaseOrder(context.Background(), &dto.CreatePurchaseOrderInput{
		TenantID:   testTenant,
		SupplierID: uuid.New().String(),
		Lines: []dto.POLineInput{
			{StockUnitID: u.ID, Quantity: 10, UnitPrice: decimal.NewFromInt(3)},
			{StockUnitID: uuid.New().String(), Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, model.PurchaseOrderStatusDraft, po.Status)
	assert.True(t, po.TotalAmount.Equal(decimal.NewFromInt(130)), "got total %s", po.TotalAmount)
	assert.NotEmpty(t, po.Number)
	require.Len(t, po.Items, 2)
	assert.Equal(t, int64(0), po.Items[0].QuantityReceived)
	assert.Contains(t, f.emitter.events, events.POCreated)
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newFixture()
	po, err := f.uc.CreatePurchaseOrder(context.Background(), &dto.CreatePurchaseOrderInput{
		TenantID:   testTenant,
		SupplierID: uuid.New().String(),
		Lines:      []dto.POLineInput{{StockUnitID: uuid.New().String(), Quantity: 1}},
	})
	require.NoError(t, err)

	// draft cannot jump straight to confirmed
	_, err = f.uc.UpdateStatus(context.Background(), testTenant, po.ID, model.PurchaseOrderStatusConfirmed)
	var terr *apperrors.InvalidTransitionError
	require.ErrorAs(t, err, &terr)

	got, err := f.uc.UpdateStatus(context.Background(), testTenant, po.ID, model.PurchaseOrderStatusSent)
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseOrderStatusSent, got.Status)

	// received is never a manual target
	_, err = f.uc.UpdateStatus(context.Background(), testTenant, po.ID, model.PurchaseOrderStatusReceived)
	require.ErrorAs(t, err, &terr)

	_, err = f.uc.UpdateStatus(context.Background(), testTenant, po.ID, model.PurchaseOrderStatus("bogus"))
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestReceiveRequiresConfirmedStatus(t *testing.T) {
	f := newFixture()
	u := unit("RCV-0", 0)
	f.ledger.add(u)

	po, err := f.uc.CreatePurchaseOrder(context.Background(), &dto.CreatePurchaseOrderInput{
		TenantID:   testTenant,
		SupplierID: uuid.New().String(),
		Lines:      []dto.POLineInput{{StockUnitID: u.ID, Quantity: 5}},
	})
	require.NoError(t, err)

	_, err = f.uc.Receive(context.Background(), &dto.ReceiveInput{
		TenantID:        testTenant,
		PurchaseOrderID: po.ID,
		Lines:           []dto.ReceiveLineInput{{StockUnitID: u.ID, Quantity: 5}},
	})
	var terr *apperrors.InvalidTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, int64(0), f.ledger.quantity(u.ID))
}

func TestReceiveUnknownLineRejected(t *testing.T) {
	f := newFixture()
	u := unit("RCV-1", 0)
	f.ledger.add(u)
	stranger := unit("RCV-X", 0)
	f.ledger.add(stranger)

	po := createConfirmedPO(t, f, []dto.POLineInput{{StockUnitID: u.ID, Quantity: 5}})

	_, err := f.uc.Receive(context.Background(), &dto.ReceiveInput{
		TenantID:        testTenant,
		PurchaseOrderID: po.ID,
		Lines:           []dto.ReceiveLineInput{{StockUnitID: stranger.ID, Quantity: 1}},
	})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, int64(0), f.ledger.quantity(u.ID))
}

func TestReceiveOverReceiptRejected(t *testing.T) {
	f := newFixture()
	u := unit("RCV-2", 0)
	f.ledger.add(u)

	po := createConfirmedPO(t, f, []dto.POLineInput{{StockUnitID: u.ID, Quantity: 10}})

	_, err := f.uc.Receive(context.Background(), &dto.ReceiveInput{
		TenantID:        testTenant,
		PurchaseOrderID: po.ID,
		Lines:           []dto.ReceiveLineInput{{StockUnitID: u.ID, Quantity: 7}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), f.ledger.quantity(u.ID))

	// only 3 outstanding, requesting 4 must fail and change nothing
	_, err = f.uc.Receive(context.Background(), &dto.ReceiveInput{
		TenantID:        testTenant,
		PurchaseOrderID: po.ID,
		Lines:           []dto.ReceiveLineInput{{StockUnitID: u.ID, Quantity: 4}},
	})
	var oerr *apperrors.OverReceiptError
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, int64(4), oerr.Requested)
	assert.Equal(t, int64(3), oerr.Remaining)
	assert.Equal(t, int64(7), f.ledger.quantity(u.ID))

	got, err := f.uc.GetPurchaseOrder(context.Background(), testTenant, po.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseOrderStatusPartiallyReceived, got.Status)
	assert.Equal(t, int64(7), got.Items[0].QuantityReceived)
}

func TestReceiveRepeatedLineAccumulates(t *testing.T) {
	f := newFixture()
	u := unit("RCV-3", 0)
	f.ledger.add(u)

	po := createConfirmedPO(t, f, []dto.POLineInput{{StockUnitID: u.ID, Quantity: 10}})

	// 6 + 6 for one line exceeds the ordered 10 even though each part fits
	_, err := f.uc.Receive(context.Background(), &dto.ReceiveInput{
		TenantID:        testTenant,
		PurchaseOrderID: po.ID,
		Lines: []dto.ReceiveLineInput{
			{StockUnitID: u.ID, Quantity: 6},
			{StockUnitID: u.ID, Quantity: 6},
		},
	})
	var oerr *apperrors.OverReceiptError
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, int64(12), oerr.Requested)
	assert.Equal(t, int64(0), f.ledger.quantity(u.ID))
}

func TestReceivePartialThenFull(t *testing.T) {
	f := newFixture()
	u := unit("RCV-4", 5)
	f.ledger.add(u)

	po := createConfirmedPO(t, f, []dto.POLineInput{
		{StockUnitID: u.ID, Quantity: 100, UnitPrice: decimal.NewFromInt(2)},
	})

	actual := decimal.NewFromFloat(1.85)
	got, err := f.uc.Receive(context.Background(), &dto.ReceiveInput{
		TenantID:        testTenant,
		PurchaseOrderID: po.ID,
		Lines:           []dto.ReceiveLineInput{{StockUnitID: u.ID, Quantity: 60, ActualUnitPrice: &actual}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseOrderStatusPartiallyReceived, got.Status)
	assert.Equal(t, int64(65), f.ledger.quantity(u.ID))

	stored, err := f.uc.GetPurchaseOrder(context.Background(), testTenant, po.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Items[0].ActualUnitPrice)
	assert.True(t, stored.Items[0].ActualUnitPrice.Equal(actual))

	got, err = f.uc.Receive(context.Background(), &dto.ReceiveInput{
		TenantID:        testTenant,
		PurchaseOrderID: po.ID,
		Lines:           []dto.ReceiveLineInput{{StockUnitID: u.ID, Quantity: 40}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseOrderStatusReceived, got.Status)
	assert.Equal(t, int64(105), f.ledger.quantity(u.ID))

	// a fully received PO takes no further deliveries
	_, err = f.uc.Receive(context.Background(), &dto.ReceiveInput{
		TenantID:        testTenant,
		PurchaseOrderID: po.ID,
		Lines:           []dto.ReceiveLineInput{{StockUnitID: u.ID, Quantity: 1}},
	})
	var terr *apperrors.InvalidTransitionError
	assert.ErrorAs(t, err, &terr)
}

func TestReceiveLogsPurchaseReceiptMovements(t *testing.T) {
	f := newFixture()
	u := unit("RCV-5", 0)
	f.ledger.add(u)

	po := createConfirmedPO(t, f, []dto.POLineInput{{StockUnitID: u.ID, Quantity: 8}})

	_, err := f.uc.Receive(context.Background(), &dto.ReceiveInput{
		TenantID:        testTenant,
		PurchaseOrderID: po.ID,
		Lines:           []dto.ReceiveLineInput{{StockUnitID: u.ID, Quantity: 8}},
	})
	require.NoError(t, err)

	require.Len(t, f.ledger.movements, 1)
	m := f.ledger.movements[0]
	assert.Equal(t, model.MovementPurchaseReceipt, m.MovementType)
	assert.Equal(t, int64(8), m.QuantityChange)
	assert.Equal(t, int64(0), m.QuantityBefore)
	assert.Equal(t, int64(8), m.QuantityAfter)
	require.NotNil(t, m.ReferenceID)
	assert.Equal(t, po.ID, *m.ReferenceID)

	assert.Contains(t, f.emitter.events, events.POReceived)
	assert.Contains(t, f.emitter.events, events.StockUpdated)
}

func TestReceiveRollsBackWhenStockUnitMissing(t *testing.T) {
	f := newFixture()
	u := unit("RCV-6", 0)
	f.ledger.add(u)
	ghostID := uuid.New().String() // on the PO but absent from the ledger

	po := createConfirmedPO(t, f, []dto.POLineInput{
		{StockUnitID: u.ID, Quantity: 5},
		{StockUnitID: ghostID, Quantity: 5},
	})

	_, err := f.uc.Receive(context.Background(), &dto.ReceiveInput{
		TenantID:        testTenant,
		PurchaseOrderID: po.ID,
		Lines: []dto.ReceiveLineInput{
			{StockUnitID: u.ID, Quantity: 5},
			{StockUnitID: ghostID, Quantity: 5},
		},
	})
	var nf *apperrors.NotFoundError
	require.ErrorAs(t, err, &nf)

	// first line's receipt and stock increment are rolled back
	assert.Equal(t, int64(0), f.ledger.quantity(u.ID))
	assert.Empty(t, f.ledger.movements)
	stored, err := f.uc.GetPurchaseOrder(context.Background(), testTenant, po.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseOrderStatusConfirmed, stored.Status)
	assert.Equal(t, int64(0), stored.Items[0].QuantityReceived)
}
