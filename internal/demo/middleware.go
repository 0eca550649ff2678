// Package demo implements a read-only mode for public catalog instances.
package demo

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Middleware blocks write operations in demo mode.
// Read-only operations (GET, HEAD, OPTIONS) are always allowed.
type Middleware struct {
	enabled bool
}

// NewMiddleware creates a demo mode middleware.
func NewMiddleware(enabled bool) *Middleware {
	return &Middleware{enabled: enabled}
}

// IsEnabled returns whether demo mode is active.
func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

// Handler returns a Gin middleware that blocks write operations.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		m.respondBlocked(c)
	}
}

// respondBlocked sends a 403. API clients get JSON, everything else plain
// text.
func (m *Middleware) respondBlocked(c *gin.Context) {
	message := "This action is disabled in demo mode"

	if wantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     message,
			"demo_mode": true,
		})
		return
	}

	c.String(http.StatusForbidden, message)
	c.Abort()
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json") ||
		c.ContentType() == "application/json" ||
		strings.HasPrefix(c.Request.URL.Path, "/api/")
}

// ContextKey for storing demo mode state in request context.
const ContextKeyDemoMode = "demo_mode"

// InjectContext middleware adds demo mode flag to context for template rendering.
func (m *Middleware) InjectContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyDemoMode, m.enabled)
		c.Next()
	}
}
