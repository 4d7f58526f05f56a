// Package session is the Session Registry: the single authority
// mapping a logged-in user id to the one socket connection currently
// serving them. Request/reply traffic and async push notifications
// share that socket, so every write funnels through a per-user lock
// that also backs Unbind's drain guarantee.
package session

import (
	"errors"
	"sync"

	"github.com/lobbyforge/lobby/internal/frame"
)

// ErrAlreadyBound is returned by Bind when the user id already has a
// live session elsewhere (a second concurrent login, for example).
var ErrAlreadyBound = errors.New("session: user already bound")

// ErrNotBound is returned when an operation targets a user id with no
// live session.
var ErrNotBound = errors.New("session: user not bound")

type entry struct {
	conn    *frame.Conn
	cond    *sync.Cond
	sending bool
	closed  bool
}

// Registry tracks every logged-in user's live connection.
type Registry struct {
	mu       sync.Mutex
	sessions map[int64]*entry
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int64]*entry)}
}

// Bind associates userID with conn. It fails if userID is already
// bound; callers should Unbind an existing session (or reject the new
// login) before retrying.
func (r *Registry) Bind(userID int64, conn *frame.Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[userID]; ok {
		return ErrAlreadyBound
	}
	e := &entry{conn: conn}
	e.cond = sync.NewCond(&r.mu)
	r.sessions[userID] = e
	return nil
}

// Unbind removes userID's session, blocking until any in-flight send on
// that session has finished writing. Safe to call even if no send is
// in flight. A no-op if userID isn't bound.
func (r *Registry) Unbind(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[userID]
	if !ok {
		return
	}
	for e.sending {
		e.cond.Wait()
	}
	e.closed = true
	delete(r.sessions, userID)
}

// IsBound reports whether userID currently has a live session.
func (r *Registry) IsBound(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[userID]
	return ok
}

// WithSession serializes fn against every other write (sync reply or
// async notification) destined for userID's socket, then runs fn with
// that socket. Request handlers use this to write their reply frame on
// the same lock async notifications use, so replies and pushes for one
// user are never interleaved mid-frame.
func (r *Registry) WithSession(userID int64, fn func(conn *frame.Conn) error) error {
	e, err := r.acquire(userID)
	if err != nil {
		return err
	}
	defer r.release(userID, e)
	return fn(e.conn)
}

// SendAsync delivers msg to userID's socket if they are currently
// bound, silently dropping it otherwise (an offline user has no socket
// to notify). It participates in the same per-user serialization as
// WithSession, so notifications never tear a concurrent reply write.
func (r *Registry) SendAsync(userID int64, msg any) error {
	e, err := r.acquire(userID)
	if err != nil {
		if errors.Is(err, ErrNotBound) {
			return nil
		}
		return err
	}
	defer r.release(userID, e)
	return e.conn.Send(msg)
}

func (r *Registry) acquire(userID int64) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[userID]
	if !ok {
		return nil, ErrNotBound
	}
	for e.sending {
		e.cond.Wait()
	}
	if e.closed {
		return nil, ErrNotBound
	}
	e.sending = true
	return e, nil
}

func (r *Registry) release(userID int64, e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.sending = false
	e.cond.Broadcast()
}
