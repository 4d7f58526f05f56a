package lobby

import "github.com/lobbyforge/lobby/internal/dispatch"

// RegisterOps declares the Lobby Core's full op table against ops.
// Only register/login/back may run unauthenticated; everything else
// requires an already-bound session.
func RegisterOps(ops *dispatch.OpRegistry) {
	ops.Register("register", false, Register)
	ops.Register("login", false, Login)
	ops.Register("back", false, Back)
	ops.Register("logout", true, Logout)

	ops.Register("list_rooms", true, ListRooms)
	ops.Register("list_online_users", true, ListOnlineUsers)
	ops.Register("list_games", true, ListGames)
	ops.Register("show_game_data", true, ShowGameData)
	ops.Register("show_comment", true, ShowComment)
	ops.Register("add_comment", true, AddComment)

	ops.Register("create_room", true, CreateRoom)
	ops.Register("leave_room", true, LeaveRoom)
	ops.Register("invite_user", true, InviteUser)
	ops.Register("respond_invite", true, RespondInvite)
	ops.Register("list_invite", true, ListInvite)
	ops.Register("request", true, Request)
	ops.Register("respond_request", true, RespondRequest)
	ops.Register("list_request", true, ListRequest)

	ops.Register("download_game", true, DownloadGame)
	ops.Register("start", true, Start)
}
