package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stockpilot/inventory-service/internal/apperrors"
	"github.com/stockpilot/inventory-service/internal/auth"
	"github.com/stockpilot/inventory-service/internal/model"
	"github.com/stockpilot/inventory-service/internal/order"
	"github.com/stockpilot/inventory-service/internal/order/dto"
)

type OrderHandler struct {
	uc     order.UseCase
	logger *zap.Logger
}

func NewOrderHandler(uc order.UseCase, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: logger}
}

func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/orders", h.Create)
	rg.GET("/orders", h.List)
	rg.GET("/orders/:id", h.Get)
	rg.PATCH("/orders/:id/status", h.UpdateStatus)
	rg.POST("/orders/:id/cancel", h.Cancel)
}

type orderLineRequest struct {
	StockUnitID string `json:"stock_unit_id" binding:"required"`
	Quantity    int64  `json:"quantity" binding:"required,gte=1"`
}

type createOrderRequest struct {
	Number        string             `json:"number"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	Notes         string             `json:"notes"`
	Lines         []orderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.FromBindError(err))
		return
	}

	ctx := c.Request.Context()
	input := &dto.CreateOrderInput{
		TenantID:      auth.TenantID(ctx),
		UserID:        auth.UserID(ctx),
		Number:        req.Number,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Notes:         req.Notes,
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, dto.OrderLineInput{
			StockUnitID: line.StockUnitID,
			Quantity:    line.Quantity,
		})
	}

	o, err := h.uc.CreateOrder(ctx, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *OrderHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	o, err := h.uc.GetOrder(ctx, auth.TenantID(ctx), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	orders, total, err := h.uc.ListOrders(ctx, &dto.OrderFilters{
		TenantID: auth.TenantID(ctx),
		Status:   c.Query("status"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 50),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": orders, "total": total})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.FromBindError(err))
		return
	}

	ctx := c.Request.Context()
	o, err := h.uc.UpdateStatus(ctx, auth.TenantID(ctx), c.Param("id"), model.OrderStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	var req cancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.FromBindError(err))
		return
	}

	ctx := c.Request.Context()
	o, err := h.uc.Cancel(ctx, auth.TenantID(ctx), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
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
