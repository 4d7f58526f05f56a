package admin

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	feedWriteWait  = 10 * time.Second
	feedPongWait   = 60 * time.Second
	feedPingPeriod = (feedPongWait * 9) / 10
)

// feedClient is one dashboard connection: a buffered outbound queue the
// hub fills, and two pumps — one writing the queue out with keepalive
// pings, one reading only to notice the peer going away.
type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

func newFeedClient(conn *websocket.Conn) *feedClient {
	return &feedClient{conn: conn, send: make(chan []byte, 64)}
}

// writePump drains send until the hub closes it or a write fails.
func (c *feedClient) writePump(hub *FeedHub) {
	ticker := time.NewTicker(feedPingPeriod)
	defer func() {
		ticker.Stop()
		hub.remove(c)
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; the feed is push-only, and the read
// loop exists to refresh the pong deadline and notice a hangup.
func (c *feedClient) readPump(hub *FeedHub) {
	defer func() {
		hub.remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
