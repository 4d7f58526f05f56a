package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UsersHandler lists every account, online or offline, player or
// developer. Password hashes are never serialized into the response.
func UsersHandler(dial DialFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		db, err := dial()
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		defer db.Close()
		users, err := db.ListAllUsers()
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		out := make([]gin.H, 0, len(users))
		for _, u := range users {
			out = append(out, gin.H{
				"id":     u.ID,
				"name":   u.Name,
				"status": u.Status,
				"role":   u.Role,
			})
		}
		c.JSON(http.StatusOK, gin.H{"users": out})
	}
}
