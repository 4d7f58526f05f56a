package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		// The dashboard is an operator tool, not a browser-facing client
		// surface; the bearer token already gates entry.
		return origin == ""
	},
}

// FeedHandler upgrades the connection to a websocket and attaches it to
// the feed hub, where the snapshot broadcaster pushes periodic state
// snapshots. The client never sends messages the server acts on;
// readPump only exists to detect disconnects.
func FeedHandler(hub *FeedHub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		client := newFeedClient(conn)
		hub.add(client)
		go client.writePump(hub)
		go client.readPump(hub)
	}
}
