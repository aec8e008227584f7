package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mixit-delights/storefront/internal/adapter/logger"
	"github.com/mixit-delights/storefront/internal/auth"
	"github.com/mixit-delights/storefront/internal/domain"
)

type AuthHandler struct {
	auth   *auth.Service
	logger logger.Logger
}

func NewAuthHandler(a *auth.Service, logger logger.Logger) *AuthHandler {
	return &AuthHandler{auth: a, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type sessionResponse struct {
	Token   string          `json:"token"`
	Account *domain.Account `json:"account"`
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	account, token, err := h.auth.SignUpEmail(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{Token: token, Account: account})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	account, token, err := h.auth.SignInEmail(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Token: token, Account: account})
}

func (h *AuthHandler) Anonymous(c *gin.Context) {
	account, token, err := h.auth.SignInAnonymous(c.Request.Context())
	if err != nil {
		h.respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Token: token, Account: account})
}

func (h *AuthHandler) CustomToken(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	account, token, err := h.auth.SignInCustomToken(c.Request.Context(), req.Token)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Token: token, Account: account})
}

func (h *AuthHandler) Federated(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	account, token, err := h.auth.SignInFederated(c.Request.Context(), req.Email, req.Name)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Token: token, Account: account})
}

func (h *AuthHandler) PasswordReset(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.auth.SendPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset email queued"})
}

// ExchangePIN upgrades the current session to admin. Requires an
// authenticated caller.
func (h *AuthHandler) ExchangePIN(c *gin.Context) {
	var req struct {
		PIN string `json:"pin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, err := h.auth.ExchangePIN(c.Request.Context(), auth.CallerFrom(c), req.PIN)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidPIN) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Wrong PIN"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unlock admin"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *AuthHandler) respondAuthError(c *gin.Context, err error) {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		status := http.StatusBadRequest
		switch authErr.Code {
		case auth.CodeWrongPassword, auth.CodeUserNotFound:
			status = http.StatusUnauthorized
		case auth.CodeEmailAlreadyInUse:
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": auth.Translate(authErr.Code), "code": authErr.Code})
		return
	}
	if errors.Is(err, auth.ErrInvalidToken) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	h.logger.Error("auth_request", "Auth request failed", requestID(c), nil, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
}
