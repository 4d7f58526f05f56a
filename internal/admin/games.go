package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GamesHandler lists every published game with its full catalogue
// record (owner, latest version, player bounds), unlike the lobby's
// list_games op which returns only id and name for browsing.
func GamesHandler(dial DialFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		db, err := dial()
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		defer db.Close()
		games, err := db.ListAllGamesFull()
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"games": games})
	}
}
