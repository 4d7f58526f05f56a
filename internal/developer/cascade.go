package developer

import (
	"log"

	"github.com/lobbyforge/lobby/internal/dbgateway"
	"github.com/lobbyforge/lobby/internal/model"
	"github.com/lobbyforge/lobby/internal/session"
)

// RunUserLifecycleCascade marks a developer account offline when its
// connection goes away, whether by explicit logout or abrupt
// disconnect. Developer accounts don't sit in rooms or hold invites,
// so there is nothing else to tear down here.
func RunUserLifecycleCascade(db *dbgateway.Gateway, sessions *session.Registry, userID int64) {
	if err := db.UpdateUserStatus(userID, model.StatusOffline); err != nil {
		log.Printf("developer: cascade: mark user %d offline: %v", userID, err)
	}
}
