package middleware

import (
	"net"
	"net/http"
	"net/url"

	"github.com/lobbyforge/lobby/internal/config"

	"github.com/gin-gonic/gin"
)

// DevCORS lets a dashboard frontend served from another local port call
// the admin API during development. Outside development, or for any
// non-loopback origin, it adds no headers at all — the dashboard binds
// loopback and has no browser-facing production story.
func DevCORS(cfg config.LobbyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && cfg.AppEnv == "development" && isLoopbackOrigin(origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Vary", "Origin")
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// isLoopbackOrigin reports whether origin parses as an http(s) URL
// whose host resolves literally to loopback: "localhost" or a loopback
// IP, any port.
func isLoopbackOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
