// Package dbgateway is the one-connection-per-worker client for the DB
// Service's SQL-over-TCP protocol. Each Gateway wraps exactly one
// net.Conn and is not safe for concurrent use from multiple goroutines;
// callers own one Gateway per connection worker.
package dbgateway

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/lobbyforge/lobby/internal/dbproto"
	"github.com/lobbyforge/lobby/internal/frame"
	"github.com/lobbyforge/lobby/internal/tracing"
)

// DBError wraps the error string the DB Service sends back on a failed
// statement (typically a SQLite exception message).
type DBError struct {
	Message string
}

func (e *DBError) Error() string { return "dbgateway: " + e.Message }

// Gateway is a single, non-reentrant connection to the DB Service.
type Gateway struct {
	conn    *frame.Conn
	timeout time.Duration
}

// Dial opens one TCP connection to the DB Service at addr. timeout
// bounds every subsequent request/response round trip.
func Dial(addr, token string, timeout time.Duration) (*Gateway, error) {
	nc, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dbgateway: dial %s: %w", addr, err)
	}
	return &Gateway{conn: frame.New(nc, token), timeout: timeout}, nil
}

// Close closes the underlying connection.
func (g *Gateway) Close() error { return g.conn.Close() }

// exec sends one SQL statement and returns its result rows, or a
// *DBError when the DB Service reports a failure.
func (g *Gateway) exec(sql string, params []any) ([][]any, error) {
	_, span := tracing.StartSpan(context.Background(), "db.roundtrip")
	defer span.End()
	if err := g.conn.Send(dbproto.Request{SQL: sql, Params: params}); err != nil {
		return nil, fmt.Errorf("dbgateway: send: %w", err)
	}
	var resp dbproto.Response
	if err := g.conn.Recv(g.timeout, &resp); err != nil {
		return nil, fmt.Errorf("dbgateway: recv: %w", err)
	}
	if resp.Status != dbproto.StatusOK {
		return nil, &DBError{Message: resp.Error}
	}
	return resp.Data, nil
}

// ExecuteRaw runs an arbitrary statement, used by the admin dashboard's
// health check and by callers that don't warrant a dedicated typed
// helper.
func (g *Gateway) ExecuteRaw(sql string, params []any) ([][]any, error) {
	return g.exec(sql, params)
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func firstRowFirstCol(rows [][]any) (int64, bool) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, false
	}
	return toInt64(rows[0][0]), true
}
