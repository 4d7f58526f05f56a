// Command lobbyserver runs the Lobby Service: the TCP frame-codec
// listener backing the client-facing lobby protocol, its Match
// Controller, and the embedded Admin Observability Dashboard.
package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lobbyforge/lobby/internal/admin"
	"github.com/lobbyforge/lobby/internal/config"
	"github.com/lobbyforge/lobby/internal/dbgateway"
	"github.com/lobbyforge/lobby/internal/dispatch"
	"github.com/lobbyforge/lobby/internal/frame"
	"github.com/lobbyforge/lobby/internal/lobby"
	"github.com/lobbyforge/lobby/internal/match"
	"github.com/lobbyforge/lobby/internal/session"
	"github.com/lobbyforge/lobby/internal/tracing"
)

func main() {
	cfg, err := config.LoadLobbyConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	shutdownTracer, err := tracing.InitTracer(context.Background(), tracing.Config{
		ServiceName: "lobbyforge-lobby",
		Environment: cfg.AppEnv,
	})
	if err != nil {
		log.Fatalf("tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(ctx)
	}()

	if err := os.MkdirAll(cfg.TempDir, 0o755); err != nil {
		log.Fatalf("temp dir: %v", err)
	}
	if err := os.MkdirAll(cfg.DownloadBaseDir, 0o755); err != nil {
		log.Fatalf("storage dir: %v", err)
	}

	dialDB := func() (*dbgateway.Gateway, error) {
		return dbgateway.Dial(cfg.DBAddr, cfg.Token, cfg.DBRequestTimeout)
	}

	sessions := session.NewRegistry()

	ops := dispatch.NewOpRegistry()
	lobby.RegisterOps(ops)

	mc := match.NewController(lobbyHost(cfg.LobbyAddr), cfg.JWTSecret, cfg.MatchTicketTTL, sessions, dialDB)

	feed := admin.NewFeedHub()

	adminCtx, cancelAdmin := context.WithCancel(context.Background())
	go admin.RunSnapshotBroadcaster(adminCtx, admin.DialFunc(dialDB), feed)

	adminSrv := &http.Server{
		Addr:         cfg.AdminAddr,
		Handler:      admin.NewRouter(cfg, admin.DialFunc(dialDB), feed),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Printf("lobbyserver: admin dashboard listening on %s", cfg.AdminAddr)
		if err := adminSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("lobbyserver: admin server error: %v", err)
		}
	}()

	ln, err := net.Listen("tcp", cfg.LobbyAddr)
	if err != nil {
		log.Fatalf("lobby listen %s: %v", cfg.LobbyAddr, err)
	}
	log.Printf("lobbyserver: listening on %s", cfg.LobbyAddr)

	var running atomic.Bool
	running.Store(true)
	go func() {
		for running.Load() {
			nc, err := ln.Accept()
			if err != nil {
				if !running.Load() {
					return
				}
				log.Printf("lobbyserver: accept error: %v", err)
				continue
			}
			go handleLobbyConn(nc, cfg, ops, sessions, mc)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("lobbyserver: shutdown signal received: %v", sig)

	running.Store(false)
	_ = ln.Close()
	cancelAdmin()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := adminSrv.Shutdown(ctx); err != nil {
		log.Printf("lobbyserver: admin server shutdown error: %v", err)
	}
}

func handleLobbyConn(nc net.Conn, cfg config.LobbyConfig, ops *dispatch.OpRegistry, sessions *session.Registry, mc *match.Controller) {
	db, err := dbgateway.Dial(cfg.DBAddr, cfg.Token, cfg.DBRequestTimeout)
	if err != nil {
		log.Printf("lobbyserver: dial db: %v", err)
		_ = nc.Close()
		return
	}
	conn := frame.New(nc, cfg.Token)
	w := dispatch.NewWorker(conn, ops, sessions, db, mc, lobby.RunUserLifecycleCascade, cfg.IdleTimeout, cfg.DownloadBaseDir, cfg.TempDir)
	w.Run()
}

// lobbyHost extracts the advertised host game-server clients should
// dial, falling back to loopback when the lobby binds every interface.
func lobbyHost(lobbyAddr string) string {
	host, _, ok := strings.Cut(lobbyAddr, ":")
	if !ok || host == "" || host == "0.0.0.0" || host == "::" {
		return "127.0.0.1"
	}
	return host
}
