package dbgateway

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/lobbyforge/lobby/internal/dbproto"
	"github.com/lobbyforge/lobby/internal/frame"
	"github.com/lobbyforge/lobby/internal/model"
)

// fakeGateway wires a Gateway to an in-process peer that answers every
// request through respond, standing in for the DB Service.
func fakeGateway(t *testing.T, respond func(req dbproto.Request) dbproto.Response) *Gateway {
	t.Helper()
	a, b := net.Pipe()
	g := &Gateway{conn: frame.New(a, "t"), timeout: time.Second}
	srv := frame.New(b, "t")
	t.Cleanup(func() { _ = g.Close(); _ = b.Close() })

	go func() {
		for {
			var req dbproto.Request
			if err := srv.Recv(0, &req); err != nil {
				return
			}
			if err := srv.Send(respond(req)); err != nil {
				return
			}
		}
	}()
	return g
}

func TestFindUserByNameMapsRow(t *testing.T) {
	g := fakeGateway(t, func(req dbproto.Request) dbproto.Response {
		if len(req.Params) != 1 || req.Params[0] != "alice" {
			t.Errorf("params = %v", req.Params)
		}
		return dbproto.Response{
			Status: dbproto.StatusOK,
			Data:   [][]any{{1, "alice", "$2a$hash", "online", "player"}},
		}
	})

	u, err := g.FindUserByName("alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u == nil {
		t.Fatal("user = nil")
	}
	if u.ID != 1 || u.Name != "alice" || u.Status != model.StatusOnline || u.Role != model.RolePlayer {
		t.Fatalf("user = %+v", u)
	}
}

func TestFindUserByNameNoRows(t *testing.T) {
	g := fakeGateway(t, func(req dbproto.Request) dbproto.Response {
		return dbproto.Response{Status: dbproto.StatusOK}
	})
	u, err := g.FindUserByName("nobody")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u != nil {
		t.Fatalf("user = %+v, want nil", u)
	}
}

func TestErrorResponseBecomesDBError(t *testing.T) {
	g := fakeGateway(t, func(req dbproto.Request) dbproto.Response {
		return dbproto.Response{Status: dbproto.StatusError, Error: "UNIQUE constraint failed: User.name"}
	})

	_, err := g.InsertUser("alice", "h", model.RolePlayer)
	var dbErr *DBError
	if !errors.As(err, &dbErr) {
		t.Fatalf("err = %v, want *DBError", err)
	}
	if dbErr.Message != "UNIQUE constraint failed: User.name" {
		t.Fatalf("message = %q", dbErr.Message)
	}
}

func TestInsertUserReturnsID(t *testing.T) {
	g := fakeGateway(t, func(req dbproto.Request) dbproto.Response {
		return dbproto.Response{Status: dbproto.StatusOK, Data: [][]any{{13}}}
	})
	id, err := g.InsertUser("bob", "h", model.RolePlayer)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id != 13 {
		t.Fatalf("id = %d, want 13", id)
	}
}

func TestCheckUserInRoom(t *testing.T) {
	g := fakeGateway(t, func(req dbproto.Request) dbproto.Response {
		if req.Params[0] == float64(5) || req.Params[0] == 5 {
			return dbproto.Response{Status: dbproto.StatusOK, Data: [][]any{{9}}}
		}
		return dbproto.Response{Status: dbproto.StatusOK}
	})

	roomID, in, err := g.CheckUserInRoom(5)
	if err != nil || !in || roomID != 9 {
		t.Fatalf("seated user: roomID=%d in=%v err=%v", roomID, in, err)
	}
	_, in, err = g.CheckUserInRoom(6)
	if err != nil || in {
		t.Fatalf("unseated user: in=%v err=%v", in, err)
	}
}

func TestRecvTimeoutSurfaces(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()
	g := &Gateway{conn: frame.New(a, "t"), timeout: 50 * time.Millisecond}
	defer g.Close()

	// Peer reads the request but never answers.
	go func() {
		srv := frame.New(b, "t")
		var req dbproto.Request
		_ = srv.Recv(0, &req)
	}()

	_, err := g.exec(`SELECT 1`, nil)
	if !errors.Is(err, frame.ErrTimeout) {
		t.Fatalf("err = %v, want frame.ErrTimeout", err)
	}
}
