package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mixit-delights/storefront/internal/adapter/logger"
	"github.com/mixit-delights/storefront/internal/domain"
	"github.com/mixit-delights/storefront/internal/interfaces"
)

type MenuHandler struct {
	catalog interfaces.CatalogService
	logger  logger.Logger
}

func NewMenuHandler(catalog interfaces.CatalogService, logger logger.Logger) *MenuHandler {
	return &MenuHandler{catalog: catalog, logger: logger}
}

// List serves the catalog. ?category= filters to one tab; unknown
// categories just return an empty list.
func (h *MenuHandler) List(c *gin.Context) {
	category := domain.Category(c.Query("category"))
	items, err := h.catalog.List(c.Request.Context(), category)
	if err != nil {
		h.logger.Error("menu_list", "Failed to list menu", requestID(c), nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load menu"})
		return
	}
	if items == nil {
		items = []*domain.MenuItem{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Save handles both create (no id) and update (id present). Admin only.
func (h *MenuHandler) Save(c *gin.Context) {
	var item domain.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	saved, err := h.catalog.Save(c.Request.Context(), &item)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, saved)
}

// Seed rewrites the default launch menu on demand. Admin only.
func (h *MenuHandler) Seed(c *gin.Context) {
	if err := h.catalog.Seed(c.Request.Context()); err != nil {
		h.logger.Error("menu_seed", "Failed to seed menu", requestID(c), nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to seed menu"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "seeded"})
}

func (h *MenuHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
