package dashboard

import (
	"context"

	"github.com/stockpilot/inventory-service/internal/dashboard/dto"
)

type UseCase interface {
	GetSummary(ctx context.Context, tenantID string) (*dto.Summary, error)
}
