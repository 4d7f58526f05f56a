package admin

import (
	"context"
	"log"
	"time"

	"github.com/lobbyforge/lobby/internal/model"
)

// snapshotInterval is how often RunSnapshotBroadcaster polls the DB
// Service and pushes a fresh state snapshot to every connected
// dashboard client. The feed is lossy by contract:
// a client that misses one tick catches up on the next.
const snapshotInterval = 2 * time.Second

// RunSnapshotBroadcaster polls room/user state on a fixed interval and
// broadcasts it to every connected feed client, until ctx is canceled. It never
// touches the client-facing lobby/developer protocol or session
// registry — purely a read side-channel against the same DB Service
// every other service talks to.
func RunSnapshotBroadcaster(ctx context.Context, dial DialFunc, hub *FeedHub) {
	ticker := time.NewTicker(snapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snapshot, err := buildSnapshot(dial)
			if err != nil {
				log.Printf("admin: snapshot build failed: %v", err)
				continue
			}
			hub.Broadcast("snapshot", snapshot)
		}
	}
}

func buildSnapshot(dial DialFunc) (map[string]any, error) {
	db, err := dial()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rooms, err := db.ListAllRooms()
	if err != nil {
		return nil, err
	}
	playing := 0
	for _, r := range rooms {
		if r.Status == model.RoomPlaying {
			playing++
		}
	}
	users, err := db.ListAllUsers()
	if err != nil {
		return nil, err
	}
	online := 0
	for _, u := range users {
		if u.Status == model.StatusOnline {
			online++
		}
	}
	return map[string]any{
		"room_count":     len(rooms),
		"match_count":    playing,
		"online_users":   online,
		"total_users":    len(users),
		"generated_unix": time.Now().Unix(),
	}, nil
}
