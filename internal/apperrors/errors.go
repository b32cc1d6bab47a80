// Package apperrors defines the business error taxonomy returned by the
// usecase layer. Every error carries enough structure for handlers to render
// a precise, actionable message. Infra failures (deadline exceeded, broken
// connections) are deliberately not part of this taxonomy; they propagate
// wrapped and map to 500 so callers know they may retry.
package apperrors

import "fmt"

// NotFoundError means the referenced entity does not exist for the given
// tenant. It is always tenant-scoped so existence never leaks across tenants.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// InsufficientStockError means the atomic guard rejected a negative mutation.
type InsufficientStockError struct {
	SKU       string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for SKU %s: available %d, requested %d",
		e.SKU, e.Available, e.Requested)
}

// InvalidTransitionError means a status-update or receive precondition was
// violated.
type InvalidTransitionError struct {
	Entity  string
	Current string
	Target  string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition %s from %s to %s", e.Entity, e.Current, e.Target)
}

// OverReceiptError means a requested received quantity exceeds what is still
// outstanding on the purchase order line.
type OverReceiptError struct {
	StockUnitID string
	Requested   int64
	Remaining   int64
}

func (e *OverReceiptError) Error() string {
	return fmt.Sprintf("cannot receive %d for stock unit %s: only %d remaining to receive",
		e.Requested, e.StockUnitID, e.Remaining)
}

// ValidationError means malformed input was detected before any mutation was
// attempted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError means a uniqueness constraint was violated (duplicate order
// or PO number, duplicate SKU). The core surfaces these, it does not prevent
// them algorithmically.
type ConflictError struct {
	Resource string
	Field    string
	Value    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Resource, e.Field, e.Value)
}
