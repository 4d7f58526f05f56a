// Package dbserver is the DB Service: it executes the opaque
// {sql, params} requests the Lobby/Developer services' DB Gateways
// send, over the same length-prefixed Frame Codec, backed by SQLite.
package dbserver

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lobbyforge/lobby/internal/dbproto"
	"github.com/lobbyforge/lobby/internal/frame"
)

// Service owns the database handle and the TCP accept loop. One
// Service instance backs arbitrarily many client connections; each
// connection worker executes statements sequentially against the
// shared *sql.DB, which pools and serializes writes on its own.
type Service struct {
	db    *sql.DB
	token string

	running atomic.Bool
	ln      net.Listener
	wg      sync.WaitGroup
}

// Open opens and migrates the SQLite file at dbPath and returns a
// Service ready to Serve. token is stamped on every outbound frame,
// matching every other service on this platform.
func Open(dbPath, token string) (*Service, error) {
	db, err := openAndMigrate(dbPath)
	if err != nil {
		return nil, err
	}
	s := &Service{db: db, token: token}
	s.running.Store(true)
	return s, nil
}

// Close closes the backing database handle.
func (s *Service) Close() error {
	return s.db.Close()
}

// Serve accepts connections on addr until Stop is called. It uses a
// short accept deadline so the loop can poll the running flag: admin
// `exit` flips running to false and closes the listener. Live workers
// are not stopped and read without a timeout, so each keeps serving
// until its peer closes the connection; Serve returns only after all of
// them have exited.
func (s *Service) Serve(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("dbserver: listen %s: %w", addr, err)
	}
	s.ln = ln
	log.Printf("dbserver: listening on %s", addr)

	for s.running.Load() {
		if tl, ok := ln.(*net.TCPListener); ok {
			_ = tl.SetDeadline(time.Now().Add(time.Second))
		}
		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() {
				break
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			log.Printf("dbserver: accept error: %v", err)
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(nc)
		}()
	}
	s.wg.Wait()
	return nil
}

// Stop flips the running flag and closes the listener, aborting the
// accept loop; it does not forcibly close live connections.
func (s *Service) Stop() {
	s.running.Store(false)
	if s.ln != nil {
		_ = s.ln.Close()
	}
}

func (s *Service) handleConn(nc net.Conn) {
	defer nc.Close()
	conn := frame.New(nc, s.token)

	for {
		var req dbproto.Request
		if err := conn.Recv(0, &req); err != nil {
			if errors.Is(err, frame.ErrConnectionClosed) {
				return
			}
			log.Printf("dbserver: recv: %v", err)
			return
		}

		resp := s.execute(req)
		if err := conn.Send(resp); err != nil {
			log.Printf("dbserver: send: %v", err)
			return
		}
	}
}

// execute runs one SQL statement and shapes the result the way the
// DB Gateway expects: for SELECT/RETURNING statements, data is a list
// of row-tuples ordered as the select list; for everything else, data
// is empty and the reply is a bare "ok".
func (s *Service) execute(req dbproto.Request) dbproto.Response {
	if looksLikeQuery(req.SQL) {
		rows, err := s.db.Query(req.SQL, req.Params...)
		if err != nil {
			return dbproto.Response{Status: dbproto.StatusError, Error: err.Error()}
		}
		defer rows.Close()
		data, err := scanRows(rows)
		if err != nil {
			return dbproto.Response{Status: dbproto.StatusError, Error: err.Error()}
		}
		return dbproto.Response{Status: dbproto.StatusOK, Data: data}
	}

	if _, err := s.db.Exec(req.SQL, req.Params...); err != nil {
		return dbproto.Response{Status: dbproto.StatusError, Error: err.Error()}
	}
	return dbproto.Response{Status: dbproto.StatusOK}
}

// ExecAdmin runs an ad-hoc statement from the admin stdin shell and
// returns a human-readable summary, never a structured Response (the
// shell isn't a wire client).
func (s *Service) ExecAdmin(sqlText string) (string, error) {
	if looksLikeQuery(sqlText) {
		rows, err := s.db.Query(sqlText)
		if err != nil {
			return "", err
		}
		defer rows.Close()
		data, err := scanRows(rows)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d row(s): %v", len(data), data), nil
	}
	res, err := s.db.Exec(sqlText)
	if err != nil {
		return "", err
	}
	n, _ := res.RowsAffected()
	return fmt.Sprintf("ok, %d row(s) affected", n), nil
}
