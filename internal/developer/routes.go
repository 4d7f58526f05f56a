package developer

import "github.com/lobbyforge/lobby/internal/dispatch"

// RegisterOps declares the Developer Core's op table. Every op but
// register/login requires an authenticated (developer) session.
func RegisterOps(ops *dispatch.OpRegistry) {
	ops.Register("register", false, Register)
	ops.Register("login", false, Login)
	ops.Register("logout", true, Logout)

	ops.Register("upload_game", true, UploadGame)
	ops.Register("update_game", true, UpdateGame)
	ops.Register("remove_game", true, RemoveGame)
	ops.Register("list_games", true, ListGames)
	ops.Register("list_versions", true, ListVersions)
}
