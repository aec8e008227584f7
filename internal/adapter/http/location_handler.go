package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mixit-delights/storefront/internal/adapter/geocode"
	"github.com/mixit-delights/storefront/internal/adapter/logger"
	"github.com/mixit-delights/storefront/internal/adapter/metrics"
	"github.com/mixit-delights/storefront/internal/domain"
)

type LocationHandler struct {
	geocoder *geocode.Client
	logger   logger.Logger
}

func NewLocationHandler(geocoder *geocode.Client, logger logger.Logger) *LocationHandler {
	return &LocationHandler{geocoder: geocoder, logger: logger}
}

// Search is the non-debounced lookup used for one-off queries (e.g. the
// user pressed enter). Live keystroke traffic goes over the websocket,
// which debounces.
func (h *LocationHandler) Search(c *gin.Context) {
	query := c.Query("q")
	results, err := h.geocoder.Search(c.Request.Context(), query)
	if err != nil {
		metrics.GeocodeFailures.Inc()
		h.logger.Error("location_search", "Geocoder search failed", requestID(c), map[string]interface{}{
			"query": query,
		}, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "location search failed"})
		return
	}
	if results == nil {
		results = []domain.Location{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Reverse names a pinned or GPS coordinate. It never fails outright: when
// the provider is unavailable the coordinate comes back under a fallback
// name so the selection flow keeps moving.
func (h *LocationHandler) Reverse(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng are required"})
		return
	}

	fallback := domain.FallbackPinnedName
	if c.Query("source") == "gps" {
		fallback = domain.FallbackGPSName
	}

	loc := h.geocoder.ReverseOr(c.Request.Context(), lat, lng, fallback)
	if loc.Name == fallback {
		metrics.GeocodeFailures.Inc()
	}
	c.JSON(http.StatusOK, loc)
}
