package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewNotFound("order", "abc"), http.StatusNotFound},
		{&ConflictError{Resource: "stock unit", Field: "sku", Value: "X"}, http.StatusConflict},
		{&InsufficientStockError{SKU: "X", Requested: 5, Available: 2}, http.StatusUnprocessableEntity},
		{&OverReceiptError{StockUnitID: "u", Requested: 4, Remaining: 3}, http.StatusUnprocessableEntity},
		{&InvalidTransitionError{Entity: "order", Current: "delivered", Target: "pending"}, http.StatusUnprocessableEntity},
		{NewValidation("bad input"), http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), "error: %v", tc.err)
	}
}

func TestHTTPStatusUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("claim stock: %w", &InsufficientStockError{SKU: "X", Requested: 3, Available: 0})
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(wrapped))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "order abc not found", NewNotFound("order", "abc").Error())
	assert.Equal(t,
		"insufficient stock for SKU X: available 2, requested 5",
		(&InsufficientStockError{SKU: "X", Requested: 5, Available: 2}).Error())
	assert.Equal(t,
		"cannot transition order from delivered to pending",
		(&InvalidTransitionError{Entity: "order", Current: "delivered", Target: "pending"}).Error())
	assert.Equal(t,
		"cannot receive 4 for stock unit u: only 3 remaining to receive",
		(&OverReceiptError{StockUnitID: "u", Requested: 4, Remaining: 3}).Error())
}
