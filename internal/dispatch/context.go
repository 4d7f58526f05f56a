package dispatch

import (
	"github.com/lobbyforge/lobby/internal/dbgateway"
	"github.com/lobbyforge/lobby/internal/frame"
	"github.com/lobbyforge/lobby/internal/match"
	"github.com/lobbyforge/lobby/internal/session"
)

// Context is everything a handler needs: the decoded request, the
// caller's session id (0 if unauthenticated), and the shared collaborators.
type Context struct {
	Op     string
	Raw    map[string]any
	UserID int64

	Conn     *frame.Conn
	DB       *dbgateway.Gateway
	Sessions *session.Registry
	Match    *match.Controller

	// StorageDir is the root of the game-package store:
	// <storage>/<ownerUserId>/<gameName>/<version>/{client,server,config.json,...}.
	StorageDir string
	// TempDir is scratch space for upload extraction / download zipping.
	TempDir string
	// FilePath is the path of a file the request frame carried (e.g.
	// upload_game's zip), already saved under TempDir. Empty when the
	// request carried no file body.
	FilePath string
}

// Reply sends a successful response on the requester's own connection,
// merging status:"ok" and the op name into fields. When the caller is
// authenticated, the write goes through the Session Registry's per-user
// lock so it can never interleave with an async notification some other
// handler enqueues for this same user; unauthenticated callers (not yet
// in the registry) write directly.
func (c *Context) Reply(fields map[string]any) error {
	out := map[string]any{"status": "ok", "op": c.Op}
	for k, v := range fields {
		out[k] = v
	}
	return c.write(out)
}

// ReplyError sends a business-error response on the requester's own
// connection.
func (c *Context) ReplyError(message string) error {
	return c.write(map[string]any{"status": "error", "op": c.Op, "error": message})
}

// ReplyFile streams a file-carrying response frame.
func (c *Context) ReplyFile(filePath string, header map[string]any) error {
	h := map[string]any{"status": "ok", "op": c.Op}
	for k, v := range header {
		h[k] = v
	}
	if c.UserID != 0 {
		return c.Sessions.WithSession(c.UserID, func(conn *frame.Conn) error {
			return conn.SendFile(filePath, h)
		})
	}
	return c.Conn.SendFile(filePath, h)
}

func (c *Context) write(payload map[string]any) error {
	if c.UserID != 0 {
		return c.Sessions.WithSession(c.UserID, func(conn *frame.Conn) error {
			return conn.Send(payload)
		})
	}
	return c.Conn.Send(payload)
}

// StringField reads a required string field, returning ok=false if
// absent or not a string.
func (c *Context) StringField(key string) (string, bool) {
	v, ok := c.Raw[key].(string)
	return v, ok
}

// IntField reads a required numeric field (JSON numbers decode as
// float64), returning ok=false if absent or not numeric.
func (c *Context) IntField(key string) (int64, bool) {
	v, ok := c.Raw[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
