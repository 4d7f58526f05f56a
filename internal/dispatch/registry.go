// Package dispatch is the Dispatcher: one worker goroutine per
// accepted connection, routing each inbound frame's "op" field through a
// registry that declares, per op, whether authentication is required
// and which handler serves it.
package dispatch

import "fmt"

// Result is what a handler returns to the worker loop: an optional
// session-id update (e.g. after login/register) and whether the worker
// should close the connection and exit. The zero value keeps the
// connection open, since that is the outcome of every handler but
// logout.
type Result struct {
	NewUserID  *int64
	Disconnect bool
}

// HandlerFunc serves one op. It reads/writes through Context and
// returns an error only for conditions the worker should report as
// "Internal server error"; business errors are reported via
// ctx.ReplyError and return a nil error with a zero Result.
type HandlerFunc func(ctx *Context) (Result, error)

type registration struct {
	authRequired bool
	handler      HandlerFunc
}

// OpRegistry is the declarative `(opCode, authRequired, handler)` table
// the Dispatcher consults for every inbound frame.
type OpRegistry struct {
	entries map[string]registration
}

// NewOpRegistry constructs an empty registry.
func NewOpRegistry() *OpRegistry {
	return &OpRegistry{entries: make(map[string]registration)}
}

// Register adds one op to the table. Registering the same op twice
// panics — that's a programming error caught at startup, not runtime.
func (r *OpRegistry) Register(op string, authRequired bool, h HandlerFunc) {
	if _, exists := r.entries[op]; exists {
		panic(fmt.Sprintf("dispatch: op %q registered twice", op))
	}
	r.entries[op] = registration{authRequired: authRequired, handler: h}
}

func (r *OpRegistry) lookup(op string) (registration, bool) {
	reg, ok := r.entries[op]
	return reg, ok
}

// Ops returns every registered op name, for test enumeration.
func (r *OpRegistry) Ops() []string {
	out := make([]string, 0, len(r.entries))
	for op := range r.entries {
		out = append(out, op)
	}
	return out
}
