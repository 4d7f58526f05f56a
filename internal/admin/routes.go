// Package admin is the Admin Observability Dashboard's HTTP/websocket
// surface: a read-only, operator-facing window onto live rooms, users,
// games, and matches, backed by gin + gorilla/websocket. It never
// participates in the
// client-facing lobby/developer protocol — no op, room, invite, or
// match behavior changes because of it.
package admin

import (
	"github.com/lobbyforge/lobby/internal/config"
	"github.com/lobbyforge/lobby/internal/dbgateway"
	"github.com/lobbyforge/lobby/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// DialFunc opens a fresh DB Gateway connection for one request. Every
// handler dials its own short-lived Gateway rather than sharing one
// across concurrent HTTP requests, since a Gateway wraps exactly one
// socket and is not safe for concurrent use (see dbgateway package doc).
type DialFunc func() (*dbgateway.Gateway, error)

// NewRouter builds the dashboard's gin engine: an open /healthz, and
// every observability endpoint gated by RequireAdminToken.
func NewRouter(cfg config.LobbyConfig, dial DialFunc, hub *FeedHub) *gin.Engine {
	r := gin.Default()
	r.Use(otelgin.Middleware("lobbyforge-admin"))
	r.Use(middleware.DevCORS(cfg))

	r.GET("/healthz", HealthzHandler(dial))

	protected := r.Group("")
	protected.Use(middleware.RequireAdminToken(cfg))
	protected.GET("/rooms", RoomsHandler(dial))
	protected.GET("/users", UsersHandler(dial))
	protected.GET("/games", GamesHandler(dial))
	protected.GET("/matches", MatchesHandler(dial))
	protected.GET("/admin/ws", FeedHandler(hub))

	return r
}
