package lobby

import (
	"testing"

	"github.com/lobbyforge/lobby/internal/dispatch"
)

func TestRegisterOpsCoversEveryOp(t *testing.T) {
	ops := dispatch.NewOpRegistry()
	RegisterOps(ops)

	want := []string{
		"register", "login", "back", "logout",
		"list_rooms", "list_online_users", "list_games", "show_game_data", "show_comment", "add_comment",
		"create_room", "leave_room", "invite_user", "respond_invite", "list_invite",
		"request", "respond_request", "list_request",
		"download_game", "start",
	}

	got := ops.Ops()
	if len(got) != len(want) {
		t.Fatalf("RegisterOps registered %d ops, want %d", len(got), len(want))
	}
	set := make(map[string]bool, len(got))
	for _, op := range got {
		set[op] = true
	}
	for _, op := range want {
		if !set[op] {
			t.Errorf("missing expected op %q", op)
		}
	}
}
