package admin

import (
	"net/http"

	"github.com/lobbyforge/lobby/internal/model"

	"github.com/gin-gonic/gin"
)

// MatchesHandler lists rooms currently in the "playing" state — the
// dashboard's view of in-flight matches. It filters the full room list
// client-side rather than adding a narrow single-purpose query, since
// the row count here is always small.
func MatchesHandler(dial DialFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		db, err := dial()
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		defer db.Close()
		rooms, err := db.ListAllRooms()
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		playing := make([]model.Room, 0)
		for _, r := range rooms {
			if r.Status == model.RoomPlaying {
				playing = append(playing, r)
			}
		}
		c.JSON(http.StatusOK, gin.H{"matches": playing})
	}
}
