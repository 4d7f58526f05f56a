package developer

import (
	"testing"

	"github.com/lobbyforge/lobby/internal/dispatch"
)

func TestRegisterOpsCoversEveryOp(t *testing.T) {
	ops := dispatch.NewOpRegistry()
	RegisterOps(ops)

	want := []string{
		"register", "login", "logout",
		"upload_game", "update_game", "remove_game", "list_games", "list_versions",
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
