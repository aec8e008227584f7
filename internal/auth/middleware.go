package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mixit-delights/storefront/internal/interfaces"
)

const callerKey = "caller"

// Middleware authenticates the request and stashes the caller in the gin
// context. Requests without a valid bearer token are rejected.
func Middleware(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := s.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(callerKey, interfaces.Caller{
			UserID:    claims.UserID,
			Anonymous: claims.Anonymous,
			Admin:     claims.Admin,
		})
		c.Next()
	}
}

// RequireAdmin guards the admin console routes. It assumes Middleware ran
// first.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CallerFrom(c).Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// CallerFrom returns the authenticated caller, or the zero Caller when the
// request skipped authentication.
func CallerFrom(c *gin.Context) interfaces.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(interfaces.Caller); ok {
			return caller
		}
	}
	return interfaces.Caller{}
}
