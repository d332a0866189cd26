package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// requireToken verifies the bearer token and stores its claims in the gin
// context for the next handlers.
func (s *HTTPServer) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
			return
		}

		claims, err := s.verifier.Verify(token)
		if err != nil {
			s.logger.Warn(c.Request.Context(), "token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": tokenErrorMessage(err)})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	n := len(common.BearerScheme)
	if len(header) <= n || !strings.EqualFold(header[:n], common.BearerScheme) {
		return "", false
	}
	token := strings.TrimSpace(header[n:])
	return token, token != ""
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, common.ErrTokenMalformed):
		return "malformed token"
	default:
		return "invalid token"
	}
}

func claimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// requestLogger logs one line per request. Bodies and headers are never logged.
func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			s.logger.Error(c.Request.Context(), "request", args...)
			return
		}
		s.logger.Info(c.Request.Context(), "request", args...)
	}
}

func (s *HTTPServer) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		s.logger.Error(c.Request.Context(), "panic recovered", "panic", recovered)
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}
