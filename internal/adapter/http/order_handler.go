package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mixit-delights/storefront/internal/adapter/logger"
	"github.com/mixit-delights/storefront/internal/app/order"
	"github.com/mixit-delights/storefront/internal/auth"
	"github.com/mixit-delights/storefront/internal/domain"
	"github.com/mixit-delights/storefront/internal/interfaces"
)

type OrderHandler struct {
	orders interfaces.OrderService
	logger logger.Logger
}

func NewOrderHandler(orders interfaces.OrderService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// Builder endpoints.

func (h *OrderHandler) StartBuild(c *gin.Context) {
	var req struct {
		ItemID string `json:"item_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ItemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_id is required"})
		return
	}

	session, err := h.orders.StartBuild(c.Request.Context(), auth.CallerFrom(c), req.ItemID)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *OrderHandler) AddLine(c *gin.Context) {
	var req struct {
		AddOn string `json:"add_on"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.AddOn == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "add_on is required"})
		return
	}

	session, err := h.orders.AddLine(c.Request.Context(), auth.CallerFrom(c), c.Param("id"), req.AddOn)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *OrderHandler) SetLocation(c *gin.Context) {
	var req struct {
		Location domain.Location `json:"location"`
		Note     string          `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session, err := h.orders.SetLocation(c.Request.Context(), auth.CallerFrom(c), c.Param("id"), req.Location, req.Note)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *OrderHandler) SetQuery(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session, err := h.orders.SetQuery(c.Request.Context(), auth.CallerFrom(c), c.Param("id"), req.Query)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *OrderHandler) AbandonBuild(c *gin.Context) {
	if err := h.orders.AbandonBuild(c.Request.Context(), auth.CallerFrom(c), c.Param("id")); err != nil {
		h.respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "abandoned"})
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	placed, err := h.orders.PlaceOrder(c.Request.Context(), auth.CallerFrom(c), c.Param("id"))
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, placed)
}

// Customer order views.

func (h *OrderHandler) History(c *gin.Context) {
	orders, err := h.orders.History(c.Request.Context(), auth.CallerFrom(c).UserID)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHandler) Active(c *gin.Context) {
	active, err := h.orders.Active(c.Request.Context(), auth.CallerFrom(c).UserID)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	if active == nil {
		c.JSON(http.StatusOK, gin.H{"order": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": active})
}

func (h *OrderHandler) Reward(c *gin.Context) {
	reward, err := h.orders.Reward(c.Request.Context(), auth.CallerFrom(c).UserID)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, reward)
}

// Admin console.

func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHandler) Advance(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	status := domain.Status(req.Status)
	if !domain.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	updated, err := h.orders.Advance(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *OrderHandler) Dispatch(c *gin.Context) {
	var req struct {
		RiderName  string `json:"rider_name"`
		RiderPhone string `json:"rider_phone"`
		ETAMinutes int    `json:"eta_minutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.orders.Dispatch(c.Request.Context(), c.Param("id"), interfaces.DispatchCommand{
		RiderName:  req.RiderName,
		RiderPhone: req.RiderPhone,
		ETAMinutes: req.ETAMinutes,
	})
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *OrderHandler) respondOrderError(c *gin.Context, err error) {
	var gate *order.GateError
	switch {
	case errors.As(err, &gate):
		c.JSON(http.StatusForbidden, gin.H{
			"error":  gate.Error(),
			"gate":   "profile_incomplete",
			"resume": gate.Resume,
		})
	case errors.Is(err, domain.ErrLocationRequired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Please select a delivery location"})
	case errors.Is(err, domain.ErrOutOfStock):
		c.JSON(http.StatusConflict, gin.H{"error": "This item is currently out of stock"})
	case errors.Is(err, domain.ErrDispatchDetailsRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rider name and ETA are required"})
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Invalid status transition"})
	case errors.Is(err, order.ErrUnknownAddOn):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown add-on for this item"})
	case errors.Is(err, order.ErrNotSessionOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your builder session"})
	default:
		h.logger.Error("order_request", "Order request failed", requestID(c), nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request failed"})
	}
}
