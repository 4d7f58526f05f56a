package lobby

import (
	"github.com/lobbyforge/lobby/internal/dispatch"
	"github.com/lobbyforge/lobby/internal/model"
)

// Request handles `request {room_id}`: a caller asks to join a public
// room. Creates a JoinRequest addressed to the host and notifies them
// with `receive_request`.
func Request(ctx *dispatch.Context) (dispatch.Result, error) {
	roomID, ok := ctx.IntField("room_id")
	if !ok {
		return dispatch.Result{}, ctx.ReplyError("room_id is required")
	}

	if _, in, err := ctx.DB.CheckUserInRoom(ctx.UserID); err != nil {
		return dispatch.Result{}, err
	} else if in {
		return dispatch.Result{}, ctx.ReplyError("Already in room")
	}

	public := model.VisibilityPublic
	room, err := ctx.DB.GetRoomByID(roomID, &public)
	if err != nil {
		return dispatch.Result{}, err
	}
	if room == nil {
		return dispatch.Result{}, ctx.ReplyError("No such public room")
	}
	if full, err := roomAtCapacity(ctx, roomID, room.GameID); err != nil {
		return dispatch.Result{}, err
	} else if full {
		return dispatch.Result{}, ctx.ReplyError("Room is full")
	}

	requestID, err := ctx.DB.InsertRequest(roomID, ctx.UserID, room.HostUserID)
	if err != nil {
		return dispatch.Result{}, err
	}

	requester, err := ctx.DB.FindUserByID(ctx.UserID)
	if err != nil {
		return dispatch.Result{}, err
	}
	fromName := ""
	if requester != nil {
		fromName = requester.Name
	}

	if err := ctx.Sessions.SendAsync(room.HostUserID, map[string]any{
		"op":         "receive_request",
		"roomId":     roomID,
		"from_id":    ctx.UserID,
		"request_id": requestID,
		"fromName":   fromName,
	}); err != nil {
		return dispatch.Result{}, err
	}

	return dispatch.Result{}, ctx.Reply(map[string]any{"request_id": requestID, "roomId": roomID})
}

// RespondRequest handles `respond_request {request_id, response}`. The
// host-only responder constraint is enforced by the lookup filter: the
// request row simply doesn't exist from a non-host's point of view.
func RespondRequest(ctx *dispatch.Context) (dispatch.Result, error) {
	requestID, ok := ctx.IntField("request_id")
	if !ok {
		return dispatch.Result{}, ctx.ReplyError("request_id is required")
	}
	response, _ := ctx.StringField("response")
	if response != "accept" && response != "decline" {
		return dispatch.Result{}, ctx.ReplyError("response must be \"accept\" or \"decline\"")
	}

	hostID := ctx.UserID
	jr, err := ctx.DB.GetRequestByID(requestID, &hostID)
	if err != nil {
		return dispatch.Result{}, err
	}
	if jr == nil {
		return dispatch.Result{}, ctx.ReplyError("No such request")
	}

	if response == "decline" {
		if err := ctx.DB.RemoveRequestByID(requestID); err != nil {
			return dispatch.Result{}, err
		}
		if err := ctx.Sessions.SendAsync(jr.FromID, map[string]any{
			"op":     "request_declined",
			"roomId": jr.RoomID,
		}); err != nil {
			return dispatch.Result{}, err
		}
		return dispatch.Result{}, ctx.Reply(map[string]any{"message": "Declined"})
	}

	if _, in, err := ctx.DB.CheckUserInRoom(jr.FromID); err != nil {
		return dispatch.Result{}, err
	} else if in {
		if err := ctx.DB.RemoveRequestByID(requestID); err != nil {
			return dispatch.Result{}, err
		}
		return dispatch.Result{}, ctx.ReplyError("Requester is already in a room")
	}

	room, err := ctx.DB.GetRoomByID(jr.RoomID, nil)
	if err != nil {
		return dispatch.Result{}, err
	}
	if room == nil {
		return dispatch.Result{}, ctx.ReplyError("Room no longer exists")
	}
	if full, err := roomAtCapacity(ctx, jr.RoomID, room.GameID); err != nil {
		return dispatch.Result{}, err
	} else if full {
		return dispatch.Result{}, ctx.ReplyError("Room is full")
	}

	// Accepting one request from this requester implicitly withdraws
	// every other request they have outstanding, mirroring
	// respond_invite's implicit-decline behavior.
	if err := ctx.DB.RemoveRequestByFromID(jr.FromID); err != nil {
		return dispatch.Result{}, err
	}
	if err := ctx.DB.AddUserToRoom(jr.RoomID, jr.FromID); err != nil {
		return dispatch.Result{}, err
	}

	if err := ctx.Sessions.SendAsync(jr.FromID, map[string]any{
		"op":     "request_accepted",
		"roomId": jr.RoomID,
	}); err != nil {
		return dispatch.Result{}, err
	}

	return dispatch.Result{}, ctx.Reply(map[string]any{"message": "Accepted"})
}

// ListRequest handles `list_request`: pending requests where the
// caller is the host.
func ListRequest(ctx *dispatch.Context) (dispatch.Result, error) {
	requests, err := ctx.DB.ListRequests(ctx.UserID)
	if err != nil {
		return dispatch.Result{}, err
	}
	out := make([]map[string]any, 0, len(requests))
	for _, r := range requests {
		out = append(out, map[string]any{
			"request_id": r.ID,
			"roomId":     r.RoomID,
			"from_id":    r.FromID,
			"fromName":   r.FromName,
		})
	}
	return dispatch.Result{}, ctx.Reply(map[string]any{"requests": out})
}
