package lobby

import (
	"github.com/lobbyforge/lobby/internal/dispatch"
	"github.com/lobbyforge/lobby/internal/model"
)

// InviteUser handles `invite_user {invitee_id}`. The caller must be
// seated in a room; the invitee must exist, be online, and not already
// be seated anywhere. Success replies to the caller on its own op and
// pushes a `receive_invite` notification to the invitee.
func InviteUser(ctx *dispatch.Context) (dispatch.Result, error) {
	inviteeID, ok := ctx.IntField("invitee_id")
	if !ok {
		return dispatch.Result{}, ctx.ReplyError("invitee_id is required")
	}

	roomID, in, err := ctx.DB.CheckUserInRoom(ctx.UserID)
	if err != nil {
		return dispatch.Result{}, err
	}
	if !in {
		return dispatch.Result{}, ctx.ReplyError("Not in a room")
	}

	invitee, err := ctx.DB.FindUserByID(inviteeID)
	if err != nil {
		return dispatch.Result{}, err
	}
	if invitee == nil || invitee.Status != model.StatusOnline || invitee.Role != model.RolePlayer {
		return dispatch.Result{}, ctx.ReplyError("No such online user")
	}
	if _, in, err := ctx.DB.CheckUserInRoom(inviteeID); err != nil {
		return dispatch.Result{}, err
	} else if in {
		return dispatch.Result{}, ctx.ReplyError("User already in a room")
	}

	room, err := ctx.DB.GetRoomByID(roomID, nil)
	if err != nil {
		return dispatch.Result{}, err
	}
	if room == nil {
		return dispatch.Result{}, ctx.ReplyError("No such room")
	}
	if full, err := roomAtCapacity(ctx, roomID, room.GameID); err != nil {
		return dispatch.Result{}, err
	} else if full {
		return dispatch.Result{}, ctx.ReplyError("Room is full")
	}

	inviteID, err := ctx.DB.AddInvite(roomID, ctx.UserID, inviteeID)
	if err != nil {
		return dispatch.Result{}, err
	}

	inviter, err := ctx.DB.FindUserByID(ctx.UserID)
	if err != nil {
		return dispatch.Result{}, err
	}
	fromName := ""
	if inviter != nil {
		fromName = inviter.Name
	}

	if err := ctx.Sessions.SendAsync(inviteeID, map[string]any{
		"op":        "receive_invite",
		"roomId":    roomID,
		"from_id":   ctx.UserID,
		"invite_id": inviteID,
		"fromName":  fromName,
	}); err != nil {
		return dispatch.Result{}, err
	}

	return dispatch.Result{}, ctx.Reply(map[string]any{"invite_id": inviteID, "roomId": roomID})
}

// RespondInvite handles `respond_invite {invite_id, response}`.
func RespondInvite(ctx *dispatch.Context) (dispatch.Result, error) {
	inviteID, ok := ctx.IntField("invite_id")
	if !ok {
		return dispatch.Result{}, ctx.ReplyError("invite_id is required")
	}
	response, _ := ctx.StringField("response")
	if response != "accept" && response != "decline" {
		return dispatch.Result{}, ctx.ReplyError("response must be \"accept\" or \"decline\"")
	}

	invite, err := ctx.DB.GetInviteByID(inviteID)
	if err != nil {
		return dispatch.Result{}, err
	}
	if invite == nil || invite.ToID != ctx.UserID {
		return dispatch.Result{}, ctx.ReplyError("No such invite")
	}

	if response == "decline" {
		if err := ctx.DB.RemoveInviteByID(inviteID); err != nil {
			return dispatch.Result{}, err
		}
		if err := ctx.Sessions.SendAsync(invite.FromID, map[string]any{
			"op":      "invite_declined",
			"roomId":  invite.RoomID,
			"from_id": ctx.UserID,
		}); err != nil {
			return dispatch.Result{}, err
		}
		return dispatch.Result{}, ctx.Reply(map[string]any{"message": "Declined"})
	}

	// accept: reject if caller is already seated anywhere (a stale invite
	// outlived a room the accepter since joined through another path).
	if _, in, err := ctx.DB.CheckUserInRoom(ctx.UserID); err != nil {
		return dispatch.Result{}, err
	} else if in {
		return dispatch.Result{}, ctx.ReplyError("Already in room")
	}

	room, err := ctx.DB.GetRoomByID(invite.RoomID, nil)
	if err != nil {
		return dispatch.Result{}, err
	}
	if room == nil {
		return dispatch.Result{}, ctx.ReplyError("Room no longer exists")
	}
	if full, err := roomAtCapacity(ctx, invite.RoomID, room.GameID); err != nil {
		return dispatch.Result{}, err
	} else if full {
		return dispatch.Result{}, ctx.ReplyError("Room is full")
	}

	// Implicit decline of every competing invite to and from the
	// accepter.
	if err := ctx.DB.RemoveInviteByToID(ctx.UserID); err != nil {
		return dispatch.Result{}, err
	}
	if err := ctx.DB.RemoveInviteByFromID(ctx.UserID); err != nil {
		return dispatch.Result{}, err
	}
	if err := ctx.DB.AddUserToRoom(invite.RoomID, ctx.UserID); err != nil {
		return dispatch.Result{}, err
	}

	if err := ctx.Sessions.SendAsync(invite.FromID, map[string]any{
		"op":      "invite_accepted",
		"roomId":  invite.RoomID,
		"from_id": ctx.UserID,
	}); err != nil {
		return dispatch.Result{}, err
	}

	return dispatch.Result{}, ctx.Reply(map[string]any{"room_id": invite.RoomID})
}

// ListInvite handles `list_invite`: invites addressed to the caller.
func ListInvite(ctx *dispatch.Context) (dispatch.Result, error) {
	invites, err := ctx.DB.ListInvites(ctx.UserID)
	if err != nil {
		return dispatch.Result{}, err
	}
	out := make([]map[string]any, 0, len(invites))
	for _, inv := range invites {
		out = append(out, map[string]any{
			"invite_id": inv.ID,
			"roomId":    inv.RoomID,
			"from_id":   inv.FromID,
			"fromName":  inv.FromName,
			"roomName":  inv.RoomName,
			"gameId":    inv.GameID,
			"gameName":  inv.GameName,
		})
	}
	return dispatch.Result{}, ctx.Reply(map[string]any{"invites": out})
}

// roomAtCapacity reports whether adding one more member to roomID would
// exceed its game's max_players.
func roomAtCapacity(ctx *dispatch.Context, roomID, gameID int64) (bool, error) {
	game, err := ctx.DB.GetGameByID(gameID)
	if err != nil {
		return false, err
	}
	if game == nil || game.MaxPlayers <= 0 {
		return false, nil
	}
	members, err := ctx.DB.ListUsersInRoom(roomID)
	if err != nil {
		return false, err
	}
	return len(members) >= game.MaxPlayers, nil
}
