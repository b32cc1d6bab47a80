package dashboard

import (
	"context"

	"github.com/stockpilot/inventory-service/internal/dashboard/dto"
)

type Repository interface {
	Summarize(ctx context.Context, tenantID string) (*dto.Summary, error)
}
