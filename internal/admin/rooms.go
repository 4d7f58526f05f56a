package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RoomsHandler lists every room on the platform, public and private
// alike — unlike the lobby's list_rooms op, the dashboard is not
// scoped to what a player is allowed to see.
func RoomsHandler(dial DialFunc) gin.HandlerFunc {
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
		c.JSON(http.StatusOK, gin.H{"rooms": rooms})
	}
}
