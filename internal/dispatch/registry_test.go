package dispatch

import "testing"

func noopHandler(ctx *Context) (Result, error) { return Result{}, nil }

func TestOpRegistryLookup(t *testing.T) {
	r := NewOpRegistry()
	r.Register("login", false, noopHandler)
	r.Register("create_room", true, noopHandler)

	reg, ok := r.lookup("login")
	if !ok || reg.authRequired {
		t.Fatalf("lookup(login) = %+v, %v; want authRequired=false, ok=true", reg, ok)
	}

	reg, ok = r.lookup("create_room")
	if !ok || !reg.authRequired {
		t.Fatalf("lookup(create_room) = %+v, %v; want authRequired=true, ok=true", reg, ok)
	}

	if _, ok := r.lookup("unknown_op"); ok {
		t.Fatalf("lookup(unknown_op) found an entry, want none")
	}
}

func TestOpRegistryDuplicatePanics(t *testing.T) {
	r := NewOpRegistry()
	r.Register("login", false, noopHandler)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate op registration")
		}
	}()
	r.Register("login", false, noopHandler)
}

func TestOpRegistryOps(t *testing.T) {
	r := NewOpRegistry()
	r.Register("a", false, noopHandler)
	r.Register("b", true, noopHandler)

	ops := r.Ops()
	if len(ops) != 2 {
		t.Fatalf("Ops() returned %d entries, want 2", len(ops))
	}
}
