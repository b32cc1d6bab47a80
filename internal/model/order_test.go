package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusIsValid(t *testing.T) {
	valid := []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "expected %s to be valid", s)
	}
	assert.False(t, OrderStatus("returned").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestOrderStatusIsTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())

	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped} {
		assert.False(t, s.IsTerminal(), "expected %s to be non-terminal", s)
	}
}

func TestOrderStatusCanCancel(t *testing.T) {
	cancellable := []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing}
	for _, s := range cancellable {
		assert.True(t, s.CanCancel(), "expected %s to be cancellable", s)
	}

	frozen := []OrderStatus{OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled}
	for _, s := range frozen {
		assert.False(t, s.CanCancel(), "expected %s to reject cancellation", s)
	}
}
