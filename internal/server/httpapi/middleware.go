package httpapi

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
	claimsKey       = "claims"
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info(c.Request.Context(), "request handled",
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func bearerToken(c *gin.Context) string {
	v := strings.TrimSpace(c.GetHeader("Authorization"))
	const prefix = "Bearer "
	if len(v) >= len(prefix) && strings.EqualFold(v[:len(prefix)], prefix) {
		return strings.TrimSpace(v[len(prefix):])
	}
	return v
}

// authorize guards a route with the named policy and stores verified claims
// on the context.
func (s *HTTPServer) authorize(policy string) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, claims := s.guard.Authorize(bearerToken(c), policy)
		if !decision.Allowed {
			s.logger.Info(c.Request.Context(), "access denied",
				"request_id", c.GetString(requestIDKey),
				"path", c.Request.URL.Path,
				"reason", string(decision.Reason),
			)
			s.respondError(c, decision.Err())
			c.Abort()
			return
		}
		if claims != nil {
			c.Set(claimsKey, claims)
		}
		c.Next()
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
