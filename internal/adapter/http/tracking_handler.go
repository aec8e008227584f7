package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mixit-delights/storefront/internal/adapter/geocode"
	"github.com/mixit-delights/storefront/internal/adapter/logger"
	"github.com/mixit-delights/storefront/internal/adapter/ws"
	"github.com/mixit-delights/storefront/internal/app/tracking"
	"github.com/mixit-delights/storefront/internal/auth"
)

type TrackingHandler struct {
	tracking *tracking.Service
	hub      *ws.Hub
	searches *geocode.Debouncer
	logger   logger.Logger
}

func NewTrackingHandler(t *tracking.Service, hub *ws.Hub, searches *geocode.Debouncer, logger logger.Logger) *TrackingHandler {
	return &TrackingHandler{tracking: t, hub: hub, searches: searches, logger: logger}
}

// Snapshot answers a one-shot "where is my order" without a websocket.
func (h *TrackingHandler) Snapshot(c *gin.Context) {
	snap, err := h.tracking.Snapshot(c.Request.Context(), auth.CallerFrom(c).UserID)
	if err != nil {
		if errors.Is(err, tracking.ErrNoActiveOrder) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active order"})
			return
		}
		h.logger.Error("tracking_snapshot", "Failed to compute tracking snapshot", requestID(c), nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "tracking unavailable"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Live upgrades to a websocket for push subscriptions. Rider feeds start
// when the personal tracking topic gains its first subscriber, not on
// connect.
func (h *TrackingHandler) Live(c *gin.Context) {
	ws.Serve(h.hub, h.searches, h.logger, auth.CallerFrom(c), c.Writer, c.Request)
}
