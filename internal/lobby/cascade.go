// Package lobby is the Lobby Core: one handler function per op,
// registered into a dispatch.OpRegistry and wired against a DB Gateway,
// a Session Registry, and a Match Controller.
package lobby

import (
	"log"

	"github.com/lobbyforge/lobby/internal/dbgateway"
	"github.com/lobbyforge/lobby/internal/model"
	"github.com/lobbyforge/lobby/internal/session"
)

// RunUserLifecycleCascade tears down everything a user's presence
// implies: leave their room (deleting it if now empty),
// delete every room they host, drop every invite and join-request that
// names them on either side, and mark them offline. It runs under the
// disconnecting worker's own DB connection, so no other worker can
// observe a partially-cascaded user — every step here is a single
// sequential statement against that one connection.
//
// This is also dispatch.CascadeFunc's implementation: Worker.cleanup
// calls it for every session teardown, whether the client sent logout
// or simply dropped the connection, so there's one cascade path for
// both.
func RunUserLifecycleCascade(db *dbgateway.Gateway, sessions *session.Registry, userID int64) {
	if roomID, ok, err := db.CheckUserInRoom(userID); err != nil {
		log.Printf("lobby: cascade: check room for user %d: %v", userID, err)
	} else if ok {
		leaveRoom(db, sessions, userID, roomID)
	}

	if err := db.DeleteRoomByHostID(userID); err != nil {
		log.Printf("lobby: cascade: delete hosted rooms for user %d: %v", userID, err)
	}
	if err := db.RemoveInviteByToID(userID); err != nil {
		log.Printf("lobby: cascade: remove invites to user %d: %v", userID, err)
	}
	if err := db.RemoveInviteByFromID(userID); err != nil {
		log.Printf("lobby: cascade: remove invites from user %d: %v", userID, err)
	}
	if err := db.RemoveRequestByFromID(userID); err != nil {
		log.Printf("lobby: cascade: remove requests from user %d: %v", userID, err)
	}
	if err := db.RemoveRequestByToID(userID); err != nil {
		log.Printf("lobby: cascade: remove requests to user %d: %v", userID, err)
	}
	if err := db.UpdateUserStatus(userID, model.StatusOffline); err != nil {
		log.Printf("lobby: cascade: mark user %d offline: %v", userID, err)
	}
}

// leaveRoom removes userID's seat in roomID and deletes the room if
// that leaves it empty. The leave_room handler (LeaveRoom) runs the
// same steps with its own code.
func leaveRoom(db *dbgateway.Gateway, sessions *session.Registry, userID, roomID int64) {
	if _, _, err := db.LeaveRoom(userID); err != nil {
		log.Printf("lobby: cascade: leave room %d for user %d: %v", roomID, userID, err)
		return
	}
	members, err := db.ListUsersInRoom(roomID)
	if err != nil {
		log.Printf("lobby: cascade: list members of room %d: %v", roomID, err)
		return
	}
	if len(members) == 0 {
		if err := db.DeleteRoom(roomID); err != nil {
			log.Printf("lobby: cascade: delete empty room %d: %v", roomID, err)
		}
	}
}
