package middleware

import (
	"net/http"
	"strings"

	"github.com/lobbyforge/lobby/internal/config"

	"github.com/gin-gonic/gin"
)

// RequireAdminToken gates the admin observability dashboard: the only
// HTTP surface on this platform. It is a bearer-token check against the
// configured ADMIN_TOKEN, not the per-match JWT (operators don't have
// per-user sessions; they hold one shared operator token).
func RequireAdminToken(cfg config.LobbyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.AdminToken == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin dashboard disabled: ADMIN_TOKEN not set"})
			return
		}
		token := tokenFromRequest(c)
		if token == "" || token != cfg.AdminToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing admin token"})
			return
		}
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	// Authorization: Bearer <token>
	authz := c.GetHeader("Authorization")
	if authz != "" {
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	// ?token=<token> (useful for the dashboard's websocket upgrade, which
	// can't set an Authorization header).
	if t := c.Query("token"); t != "" {
		return t
	}
	return ""
}
