package admin

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// FeedHub fans feed events out to every connected dashboard socket.
// There is exactly one feed — the dashboard has no notion of rooms or
// topics — so the hub is a mutex-guarded client set in the same style
// as the lobby's session registry, not a goroutine-owned channel
// server.
type FeedHub struct {
	mu      sync.Mutex
	clients map[*feedClient]struct{}
}

func NewFeedHub() *FeedHub {
	return &FeedHub{clients: make(map[*feedClient]struct{})}
}

// Broadcast marshals one feed event and queues it on every connected
// client's writer. A client whose outbound buffer is full is dropped on
// the spot: the feed is lossy by contract, and a stalled dashboard must
// not hold memory for everyone else.
func (h *FeedHub) Broadcast(event string, payload any) {
	data, err := json.Marshal(map[string]any{
		"type":      event,
		"payload":   payload,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		log.Printf("admin: feed marshal event=%s: %v", event, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			delete(h.clients, c)
			close(c.send)
		}
	}
}

func (h *FeedHub) add(c *feedClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

// remove detaches c if still attached. Membership is checked under the
// same lock Broadcast sends under, so send is closed exactly once and
// never concurrently with a send into it.
func (h *FeedHub) remove(c *feedClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}
