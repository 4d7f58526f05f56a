package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthzHandler reports process liveness plus a best-effort DB Gateway
// round trip, so an operator can tell "process up" from "process up but
// the DB Service is unreachable" at a glance.
func HealthzHandler(dial DialFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		db, err := dial()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": err.Error()})
			return
		}
		defer db.Close()
		if _, err := db.ExecuteRaw("SELECT 1", nil); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
