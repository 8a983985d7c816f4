package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// getClientIP keys the rate limiter. Behind a known proxy the forwarding headers are
// honoured; otherwise gin resolves the address from its trusted proxy settings, which
// main disables so the socket address is used.
func getClientIP(c *gin.Context, trustProxyHeaders bool) string {
	if !trustProxyHeaders {
		return c.ClientIP()
	}

	// X-Forwarded-For may hold a comma-separated chain. The first entry is the client.
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		if first, _, _ := strings.Cut(xff, ","); strings.TrimSpace(first) != "" {
			return strings.TrimSpace(first)
		}
	}

	if xri := strings.TrimSpace(c.GetHeader("X-Real-IP")); xri != "" {
		return xri
	}

	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}
	return c.Request.RemoteAddr
}
