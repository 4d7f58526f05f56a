package lobby

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"strconv"

	"github.com/lobbyforge/lobby/internal/dbgateway"
	"github.com/lobbyforge/lobby/internal/dispatch"
	"github.com/lobbyforge/lobby/internal/match"
	"github.com/lobbyforge/lobby/internal/model"
)

// Start handles `start`: spawns the room's game-server subprocess and
// broadcasts its endpoint to every member.
func Start(ctx *dispatch.Context) (dispatch.Result, error) {
	roomID, in, err := ctx.DB.CheckUserInRoom(ctx.UserID)
	if err != nil {
		return dispatch.Result{}, err
	}
	if !in {
		return dispatch.Result{}, ctx.ReplyError("Not in a room")
	}

	room, err := ctx.DB.GetRoomByID(roomID, nil)
	if err != nil {
		return dispatch.Result{}, err
	}
	if room == nil {
		return dispatch.Result{}, ctx.ReplyError("No such room")
	}
	if room.Status == model.RoomPlaying {
		return dispatch.Result{}, ctx.ReplyError("Match already in progress")
	}

	members, err := ctx.DB.ListUsersInRoom(roomID)
	if err != nil {
		return dispatch.Result{}, err
	}

	game, err := ctx.DB.GetGameByID(room.GameID)
	if err != nil {
		return dispatch.Result{}, err
	}
	if game == nil {
		return dispatch.Result{}, ctx.ReplyError("No such game")
	}
	minPlayers := game.MinPlayers
	if minPlayers <= 0 {
		minPlayers = 2
	}
	if len(members) < minPlayers {
		return dispatch.Result{}, ctx.ReplyError("Not enough players")
	}

	version, err := ctx.DB.GetVersionByGameIDAndVersion(game.ID, game.LatestVersion)
	if err != nil {
		return dispatch.Result{}, err
	}
	if version == nil {
		return dispatch.Result{}, ctx.ReplyError("Game has no playable version")
	}

	serverDir := filepath.Join(ctx.StorageDir, strconv.FormatInt(game.OwnerID, 10), game.Name, game.LatestVersion, "server")

	matchMembers := make([]match.Member, len(members))
	for i, m := range members {
		matchMembers[i] = match.Member{UserID: m.ID, Name: m.Name}
	}

	// Mark the room playing before spawning; roll back to idle if the
	// spawn itself fails so a bad launch doesn't strand the room in
	// "playing" with no live match.
	playing := model.RoomPlaying
	if err := ctx.DB.UpdateRoom(roomID, dbgateway.RoomUpdate{Status: &playing}); err != nil {
		return dispatch.Result{}, err
	}

	if err := ctx.Match.Start(context.Background(), *room, *game, *version, serverDir, matchMembers); err != nil {
		idle := model.RoomIdle
		if rbErr := ctx.DB.UpdateRoom(roomID, dbgateway.RoomUpdate{Status: &idle}); rbErr != nil {
			log.Printf("lobby: start: room %d: rollback to idle after failed spawn: %v", roomID, rbErr)
		}
		if errors.Is(err, match.ErrNotEnoughPlayers) {
			return dispatch.Result{}, ctx.ReplyError("Not enough players")
		}
		return dispatch.Result{}, ctx.ReplyError("Failed to start match: " + err.Error())
	}

	return dispatch.Result{}, ctx.Reply(map[string]any{"message": "Match starting"})
}
