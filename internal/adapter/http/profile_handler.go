package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mixit-delights/storefront/internal/adapter/logger"
	"github.com/mixit-delights/storefront/internal/app/profile"
	"github.com/mixit-delights/storefront/internal/auth"
	"github.com/mixit-delights/storefront/internal/interfaces"
)

type ProfileHandler struct {
	profiles interfaces.ProfileService
	logger   logger.Logger
}

func NewProfileHandler(profiles interfaces.ProfileService, logger logger.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.profiles.Get(c.Request.Context(), auth.CallerFrom(c).UserID)
	if err != nil {
		h.logger.Error("profile_get", "Failed to load profile", requestID(c), nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) Save(c *gin.Context) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
		Photo string `json:"photo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.profiles.Save(c.Request.Context(), auth.CallerFrom(c).UserID, interfaces.SaveProfileCommand{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Photo: req.Photo,
	})
	if err != nil {
		if errors.Is(err, profile.ErrNameRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
			return
		}
		h.logger.Error("profile_save", "Failed to save profile", requestID(c), nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save profile"})
		return
	}
	c.JSON(http.StatusOK, p)
}
