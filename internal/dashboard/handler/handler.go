package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stockpilot/inventory-service/internal/apperrors"
	"github.com/stockpilot/inventory-service/internal/auth"
	"github.com/stockpilot/inventory-service/internal/dashboard"
)

type DashboardHandler struct {
	uc     dashboard.UseCase
	logger *zap.Logger
}

func NewDashboardHandler(uc dashboard.UseCase, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, logger: logger}
}

func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard/summary", h.Summary)
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()
	summary, err := h.uc.GetSummary(ctx, auth.TenantID(ctx))
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}
