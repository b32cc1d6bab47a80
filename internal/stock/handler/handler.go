package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stockpilot/inventory-service/internal/apperrors"
	"github.com/stockpilot/inventory-service/internal/auth"
	"github.com/stockpilot/inventory-service/internal/model"
	"github.com/stockpilot/inventory-service/internal/stock"
	"github.com/stockpilot/inventory-service/internal/stock/dto"
)

type StockHandler struct {
	uc     stock.UseCase
	logger *zap.Logger
}

func NewStockHandler(uc stock.UseCase, logger *zap.Logger) *StockHandler {
	return &StockHandler{uc: uc, logger: logger}
}

func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/stock-units", h.Create)
	rg.GET("/stock-units", h.List)
	rg.GET("/stock-units/:id", h.Get)
	rg.DELETE("/stock-units/:id", h.Deactivate)
	rg.POST("/stock-units/:id/adjust", h.Adjust)
	rg.GET("/stock-units/:id/movements", h.ListMovements)
}

type createStockUnitRequest struct {
	ProductID         string          `json:"product_id" binding:"required"`
	SKU               string          `json:"sku" binding:"required"`
	Name              string          `json:"name" binding:"required"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	InitialQuantity   int64           `json:"initial_quantity"`
	LowStockThreshold int64           `json:"low_stock_threshold"`
}

func (h *StockHandler) Create(c *gin.Context) {
	var req createStockUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.FromBindError(err))
		return
	}

	ctx := c.Request.Context()
	unit, err := h.uc.CreateStockUnit(ctx, &dto.CreateStockUnitInput{
		TenantID:          auth.TenantID(ctx),
		UserID:            auth.UserID(ctx),
		ProductID:         req.ProductID,
		SKU:               req.SKU,
		Name:              req.Name,
		UnitPrice:         req.UnitPrice,
		UnitCost:          req.UnitCost,
		InitialQuantity:   req.InitialQuantity,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, unit)
}

func (h *StockHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	unit, err := h.uc.GetStockUnit(ctx, auth.TenantID(ctx), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

func (h *StockHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	units, total, err := h.uc.ListStockUnits(ctx, &dto.StockUnitFilters{
		TenantID:   auth.TenantID(ctx),
		SKU:        c.Query("sku"),
		LowStock:   c.Query("low_stock") == "true",
		ActiveOnly: c.Query("include_inactive") != "true",
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 50),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": units, "total": total})
}

func (h *StockHandler) Deactivate(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.uc.Deactivate(ctx, auth.TenantID(ctx), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type adjustStockRequest struct {
	QuantityChange int64  `json:"quantity_change" binding:"required"`
	MovementType   string `json:"movement_type"`
	Notes          string `json:"notes"`
}

func (h *StockHandler) Adjust(c *gin.Context) {
	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.FromBindError(err))
		return
	}
	if req.MovementType == "" {
		req.MovementType = model.MovementAdjustment
	}

	ctx := c.Request.Context()
	unit, err := h.uc.Adjust(ctx, &dto.AdjustStockInput{
		TenantID:       auth.TenantID(ctx),
		UserID:         auth.UserID(ctx),
		StockUnitID:    c.Param("id"),
		QuantityChange: req.QuantityChange,
		MovementType:   req.MovementType,
		Notes:          req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

func (h *StockHandler) ListMovements(c *gin.Context) {
	ctx := c.Request.Context()
	movements, total, err := h.uc.ListMovements(ctx, &dto.MovementFilters{
		TenantID:     auth.TenantID(ctx),
		StockUnitID:  c.Param("id"),
		MovementType: c.Query("movement_type"),
		Page:         queryInt(c, "page", 1),
		PageSize:     queryInt(c, "page_size", 50),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": movements, "total": total})
}

func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}
