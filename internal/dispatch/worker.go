package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/lobbyforge/lobby/internal/dbgateway"
	"github.com/lobbyforge/lobby/internal/frame"
	"github.com/lobbyforge/lobby/internal/match"
	"github.com/lobbyforge/lobby/internal/session"
	"github.com/lobbyforge/lobby/internal/tracing"
)

// CascadeFunc runs the user-lifecycle cascade (leave room, delete
// hosted rooms, drop invites/requests, mark offline) for a user whose
// connection is going away, whether by an explicit logout or an
// abrupt disconnect. Both paths fall through to the same Worker.cleanup
// call so there is exactly one place that implements "logs out or
// disconnects".
type CascadeFunc func(db *dbgateway.Gateway, sessions *session.Registry, userID int64)

// Worker runs the receive/dispatch loop for one accepted connection.
type Worker struct {
	conn     *frame.Conn
	ops      *OpRegistry
	sessions *session.Registry
	db       *dbgateway.Gateway
	match    *match.Controller
	cascade  CascadeFunc

	idleTimeout time.Duration
	storageDir  string
	tempDir     string

	userID int64
}

// NewWorker constructs a worker for one freshly accepted connection. db
// is this connection's own Gateway (one per worker, per C2's
// not-reentrant constraint); it is closed when Run returns. mc may be
// nil on the Developer service, which never starts matches. cascade may
// be nil on services with no session-bound lifecycle to tear down.
func NewWorker(conn *frame.Conn, ops *OpRegistry, sessions *session.Registry, db *dbgateway.Gateway, mc *match.Controller, cascade CascadeFunc, idleTimeout time.Duration, storageDir, tempDir string) *Worker {
	return &Worker{
		conn:        conn,
		ops:         ops,
		sessions:    sessions,
		db:          db,
		match:       mc,
		cascade:     cascade,
		idleTimeout: idleTimeout,
		storageDir:  storageDir,
		tempDir:     tempDir,
	}
}

// Run drives the worker until the connection closes, a read fails, or a
// handler tells it to stop. It always unbinds the session (if bound)
// and closes the DB gateway and connection before returning.
func (w *Worker) Run() {
	defer w.cleanup()

	for {
		raw, filePath, err := w.conn.RecvFile(w.idleTimeout, w.tempDir)
		if err != nil {
			if errors.Is(err, frame.ErrConnectionClosed) {
				return
			}
			if errors.Is(err, frame.ErrTimeout) {
				// Idle client: the read timeout bound has elapsed with no
				// request. Stay connected and read again.
				continue
			}
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				// Malformed frame: reply with a protocol error and keep going.
				w.replyProtocolError("unknown", "Malformed request")
				continue
			}
			// Any other read error: the stream is unusable, disconnect.
			return
		}

		op, _ := raw["op"].(string)
		if op == "" {
			w.replyProtocolError("unknown", "Missing 'op' field")
			continue
		}

		reg, ok := w.ops.lookup(op)
		if !ok {
			w.replyProtocolError(op, fmt.Sprintf("Unknown op %q", op))
			if filePath != "" {
				_ = os.Remove(filePath)
			}
			continue
		}
		if reg.authRequired && w.userID == 0 {
			w.replyProtocolError(op, "Login required")
			if filePath != "" {
				_ = os.Remove(filePath)
			}
			continue
		}

		ctx := &Context{
			Op:         op,
			Raw:        raw,
			UserID:     w.userID,
			Conn:       w.conn,
			DB:         w.db,
			Sessions:   w.sessions,
			Match:      w.match,
			StorageDir: w.storageDir,
			TempDir:    w.tempDir,
			FilePath:   filePath,
		}

		result, err := w.invoke(reg.handler, ctx)
		if filePath != "" {
			// Handlers unpack the file (upload_game/update_game) or never
			// touch it; either way it must not linger in tempDir.
			if _, statErr := os.Stat(filePath); statErr == nil {
				_ = os.Remove(filePath)
			}
		}
		if err != nil {
			log.Printf("dispatch: op=%s internal error: %v", op, err)
			_ = ctx.write(map[string]any{
				"status": "error",
				"op":     op,
				"error":  "Internal server error: " + err.Error(),
			})
			continue
		}

		if result.NewUserID != nil {
			w.userID = *result.NewUserID
		}
		if result.Disconnect {
			return
		}
	}
}

// invoke calls the handler under its own span, converting a panic into
// an error so one bad handler can't take down the accept loop or leak
// a half-held lock.
func (w *Worker) invoke(h HandlerFunc, ctx *Context) (result Result, err error) {
	_, span := tracing.StartSpan(context.Background(), "op."+ctx.Op)
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(ctx)
}

func (w *Worker) replyProtocolError(op, message string) {
	payload := map[string]any{"status": "error", "op": op, "error": message}
	var sendErr error
	if w.userID != 0 {
		sendErr = w.sessions.WithSession(w.userID, func(conn *frame.Conn) error {
			return conn.Send(payload)
		})
	} else {
		sendErr = w.conn.Send(payload)
	}
	if sendErr != nil {
		log.Printf("dispatch: reply error: %v", sendErr)
	}
}

func (w *Worker) cleanup() {
	if w.userID != 0 {
		if w.cascade != nil {
			w.cascade(w.db, w.sessions, w.userID)
		}
		w.sessions.Unbind(w.userID)
	}
	if w.db != nil {
		_ = w.db.Close()
	}
	_ = w.conn.Close()
}
