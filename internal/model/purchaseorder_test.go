package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPurchaseOrderStatusCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    PurchaseOrderStatus
		to      PurchaseOrderStatus
		allowed bool
	}{
		{PurchaseOrderStatusDraft, PurchaseOrderStatusSent, true},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusConfirmed, false},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusReceived, false},
		{PurchaseOrderStatusSent, PurchaseOrderStatusConfirmed, true},
		{PurchaseOrderStatusSent, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusSent, PurchaseOrderStatusDraft, false},
		{PurchaseOrderStatusConfirmed, PurchaseOrderStatusCancelled, true},
		// receiving statuses are never manual targets
		{PurchaseOrderStatusConfirmed, PurchaseOrderStatusPartiallyReceived, false},
		{PurchaseOrderStatusConfirmed, PurchaseOrderStatusReceived, false},
		{PurchaseOrderStatusPartiallyReceived, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusPartiallyReceived, PurchaseOrderStatusReceived, false},
		{PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusSent, false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equal(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestPurchaseOrderStatusCanReceive(t *testing.T) {
	assert.True(t, PurchaseOrderStatusConfirmed.CanReceive())
	assert.True(t, PurchaseOrderStatusPartiallyReceived.CanReceive())

	for _, s := range []PurchaseOrderStatus{
		PurchaseOrderStatusDraft, PurchaseOrderStatusSent,
		PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled,
	} {
		assert.False(t, s.CanReceive(), "expected %s to reject receiving", s)
	}
}

func TestPurchaseOrderItemRemainingQuantity(t *testing.T) {
	item := PurchaseOrderItem{QuantityOrdered: 10, QuantityReceived: 4}
	assert.Equal(t, int64(6), item.RemainingQuantity())
	assert.False(t, item.IsFullyReceived())

	item.QuantityReceived = 10
	assert.Equal(t, int64(0), item.RemainingQuantity())
	assert.True(t, item.IsFullyReceived())

	// over-received lines report zero remaining rather than negative
	item.QuantityReceived = 12
	assert.Equal(t, int64(0), item.RemainingQuantity())
}

func TestPurchaseOrderResolveStatus(t *testing.T) {
	po := PurchaseOrder{Items: []PurchaseOrderItem{
		{QuantityOrdered: 10, QuantityReceived: 10},
		{QuantityOrdered: 5, QuantityReceived: 2},
	}}
	assert.Equal(t, PurchaseOrderStatusPartiallyReceived, po.ResolveStatus())

	po.Items[1].QuantityReceived = 5
	assert.Equal(t, PurchaseOrderStatusReceived, po.ResolveStatus())
}
