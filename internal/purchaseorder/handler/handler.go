package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stockpilot/inventory-service/internal/apperrors"
	"github.com/stockpilot/inventory-service/internal/auth"
	"github.com/stockpilot/inventory-service/internal/model"
	"github.com/stockpilot/inventory-service/internal/purchaseorder"
	"github.com/stockpilot/inventory-service/internal/purchaseorder/dto"
)

type PurchaseOrderHandler struct {
	uc     purchaseorder.UseCase
	logger *zap.Logger
}

func NewPurchaseOrderHandler(uc purchaseorder.UseCase, logger *zap.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc, logger: logger}
}

func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/purchase-orders", h.Create)
	rg.GET("/purchase-orders", h.List)
	rg.GET("/purchase-orders/:id", h.Get)
	rg.PATCH("/purchase-orders/:id/status", h.UpdateStatus)
	rg.POST("/purchase-orders/:id/receive", h.Receive)
}

type poLineRequest struct {
	StockUnitID string          `json:"stock_unit_id" binding:"required"`
	Quantity    int64           `json:"quantity" binding:"required,gte=1"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type createPurchaseOrderRequest struct {
	Number       string          `json:"number"`
	SupplierID   string          `json:"supplier_id" binding:"required"`
	ExpectedDate *time.Time      `json:"expected_date"`
	Notes        string          `json:"notes"`
	Lines        []poLineRequest `json:"lines" binding:"required,min=1,dive"`
}

func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req createPurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.FromBindError(err))
		return
	}

	ctx := c.Request.Context()
	input := &dto.CreatePurchaseOrderInput{
		TenantID:     auth.TenantID(ctx),
		UserID:       auth.UserID(ctx),
		Number:       req.Number,
		SupplierID:   req.SupplierID,
		ExpectedDate: req.ExpectedDate,
		Notes:        req.Notes,
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, dto.POLineInput{
			StockUnitID: line.StockUnitID,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		})
	}

	po, err := h.uc.CreatePurchaseOrder(ctx, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, po)
}

func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	po, err := h.uc.GetPurchaseOrder(ctx, auth.TenantID(ctx), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

func (h *PurchaseOrderHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	pos, total, err := h.uc.ListPurchaseOrders(ctx, &dto.PurchaseOrderFilters{
		TenantID: auth.TenantID(ctx),
		Status:   c.Query("status"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 50),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": pos, "total": total})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *PurchaseOrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.FromBindError(err))
		return
	}

	ctx := c.Request.Context()
	po, err := h.uc.UpdateStatus(ctx, auth.TenantID(ctx), c.Param("id"), model.PurchaseOrderStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

type receiveLineRequest struct {
	StockUnitID     string           `json:"stock_unit_id" binding:"required"`
	Quantity        int64            `json:"quantity" binding:"required,gte=1"`
	ActualUnitPrice *decimal.Decimal `json:"actual_unit_price"`
}

type receiveRequest struct {
	Lines []receiveLineRequest `json:"lines" binding:"required,min=1,dive"`
}

func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	var req receiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.FromBindError(err))
		return
	}

	ctx := c.Request.Context()
	input := &dto.ReceiveInput{
		TenantID:        auth.TenantID(ctx),
		UserID:          auth.UserID(ctx),
		PurchaseOrderID: c.Param("id"),
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, dto.ReceiveLineInput{
			StockUnitID:     line.StockUnitID,
			Quantity:        line.Quantity,
			ActualUnitPrice: line.ActualUnitPrice,
		})
	}

	po, err := h.uc.Receive(ctx, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, po)
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
