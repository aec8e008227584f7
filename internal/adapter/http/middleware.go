package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mixit-delights/storefront/internal/adapter/logger"
	"github.com/mixit-delights/storefront/internal/auth"
	"github.com/mixit-delights/storefront/internal/interfaces"
)

const requestIDKey = "request_id"

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RequestLogger tags each request with an ID and logs its outcome.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(requestIDKey, id)

		start := time.Now()
		c.Next()

		log.Debug("http_request", c.Request.Method+" "+c.FullPath(), id, map[string]interface{}{
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}

// WSAuth authenticates websocket upgrades. Browsers cannot set headers on
// a websocket handshake, so the token also rides in ?token=.
func WSAuth(s *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("token")
		if raw == "" {
			header := c.GetHeader("Authorization")
			if len(header) > 7 && header[:7] == "Bearer " {
				raw = header[7:]
			}
		}

		claims, err := s.ParseToken(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("caller", interfaces.Caller{
			UserID:    claims.UserID,
			Anonymous: claims.Anonymous,
			Admin:     claims.Admin,
		})
		c.Next()
	}
}
