// Package events is the outbound notification boundary. The core emits named
// events after a transaction commits; delivery is fire-and-forget with
// at-most-once semantics and nothing in the core depends on confirmation.
package events

import "context"

// Event names emitted by the core.
const (
	OrderCreated   = "order:created"
	OrderUpdated   = "order:updated"
	OrderCancelled = "order:cancelled"
	POCreated      = "po:created"
	POUpdated      = "po:updated"
	POReceived     = "po:received"
	StockUpdated   = "stock:updated"
	StockLow       = "stock:low"
)

type Emitter interface {
	Emit(ctx context.Context, tenantID, event string, payload any)
}

// NoopEmitter discards all events. Used when no broker is configured.
type NoopEmitter struct{}

func (NoopEmitter) Emit(ctx context.Context, tenantID, event string, payload any) {}

var _ Emitter = NoopEmitter{}
