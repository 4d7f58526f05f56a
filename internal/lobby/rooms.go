package lobby

import (
	"github.com/lobbyforge/lobby/internal/dispatch"
	"github.com/lobbyforge/lobby/internal/model"
)

// CreateRoom handles `create_room {name, visibility, gameId}`.
func CreateRoom(ctx *dispatch.Context) (dispatch.Result, error) {
	name, ok1 := ctx.StringField("name")
	visRaw, ok2 := ctx.StringField("visibility")
	gameID, ok3 := ctx.IntField("gameId")
	if !ok1 || !ok2 || !ok3 || name == "" {
		return dispatch.Result{}, ctx.ReplyError("name, visibility and gameId are required")
	}
	visibility := model.RoomVisibility(visRaw)
	if visibility != model.VisibilityPublic && visibility != model.VisibilityPrivate {
		return dispatch.Result{}, ctx.ReplyError("visibility must be \"public\" or \"private\"")
	}

	if _, in, err := ctx.DB.CheckUserInRoom(ctx.UserID); err != nil {
		return dispatch.Result{}, err
	} else if in {
		return dispatch.Result{}, ctx.ReplyError("Already in room")
	}

	game, err := ctx.DB.GetGameByID(gameID)
	if err != nil {
		return dispatch.Result{}, err
	}
	if game == nil {
		return dispatch.Result{}, ctx.ReplyError("No such game")
	}

	roomID, err := ctx.DB.CreateRoom(name, ctx.UserID, visibility, model.RoomIdle, gameID)
	if err != nil {
		return dispatch.Result{}, err
	}
	return dispatch.Result{}, ctx.Reply(map[string]any{"room_id": roomID})
}

// LeaveRoom handles `leave_room`. It repeats the steps of
// RunUserLifecycleCascade's leave-room step; this handler additionally
// replies to the caller and rejects a user who isn't seated anywhere.
func LeaveRoom(ctx *dispatch.Context) (dispatch.Result, error) {
	roomID, in, err := ctx.DB.CheckUserInRoom(ctx.UserID)
	if err != nil {
		return dispatch.Result{}, err
	}
	if !in {
		return dispatch.Result{}, ctx.ReplyError("Not in a room")
	}

	if _, _, err := ctx.DB.LeaveRoom(ctx.UserID); err != nil {
		return dispatch.Result{}, err
	}
	members, err := ctx.DB.ListUsersInRoom(roomID)
	if err != nil {
		return dispatch.Result{}, err
	}
	if len(members) == 0 {
		if err := ctx.DB.DeleteRoom(roomID); err != nil {
			return dispatch.Result{}, err
		}
	}
	return dispatch.Result{}, ctx.Reply(map[string]any{"message": "Left room"})
}
