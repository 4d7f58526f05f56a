// Command devserver runs the Developer Service: the TCP frame-codec
// listener backing the game-publishing protocol. It has no Match
// Controller and no admin dashboard — those are lobby-only concerns.
package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lobbyforge/lobby/internal/config"
	"github.com/lobbyforge/lobby/internal/dbgateway"
	"github.com/lobbyforge/lobby/internal/developer"
	"github.com/lobbyforge/lobby/internal/dispatch"
	"github.com/lobbyforge/lobby/internal/frame"
	"github.com/lobbyforge/lobby/internal/session"
	"github.com/lobbyforge/lobby/internal/tracing"
)

func main() {
	cfg, err := config.LoadDeveloperConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	shutdownTracer, err := tracing.InitTracer(context.Background(), tracing.Config{
		ServiceName: "lobbyforge-developer",
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

	sessions := session.NewRegistry()

	ops := dispatch.NewOpRegistry()
	developer.RegisterOps(ops)

	ln, err := net.Listen("tcp", cfg.DevAddr)
	if err != nil {
		log.Fatalf("developer listen %s: %v", cfg.DevAddr, err)
	}
	log.Printf("devserver: listening on %s", cfg.DevAddr)

	var running atomic.Bool
	running.Store(true)
	go func() {
		for running.Load() {
			nc, err := ln.Accept()
			if err != nil {
				if !running.Load() {
					return
				}
				log.Printf("devserver: accept error: %v", err)
				continue
			}
			go handleDevConn(nc, cfg, ops, sessions)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("devserver: shutdown signal received: %v", sig)

	running.Store(false)
	_ = ln.Close()
}

func handleDevConn(nc net.Conn, cfg config.DeveloperConfig, ops *dispatch.OpRegistry, sessions *session.Registry) {
	db, err := dbgateway.Dial(cfg.DBAddr, cfg.Token, cfg.DBRequestTimeout)
	if err != nil {
		log.Printf("devserver: dial db: %v", err)
		_ = nc.Close()
		return
	}
	conn := frame.New(nc, cfg.Token)
	w := dispatch.NewWorker(conn, ops, sessions, db, nil, developer.RunUserLifecycleCascade, cfg.IdleTimeout, cfg.DownloadBaseDir, cfg.TempDir)
	w.Run()
}
