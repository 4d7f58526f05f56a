// Command dbserver runs the DB Service: the SQL-over-TCP backend every
// other service's DB Gateway talks to, plus an interactive admin shell
// on stdin for ad-hoc operator queries.
package main

import (
	"log"
	"os"

	"github.com/lobbyforge/lobby/internal/config"
	"github.com/lobbyforge/lobby/internal/dbserver"
)

func main() {
	cfg, err := config.LoadDBServiceConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	svc, err := dbserver.Open(cfg.DBPath, os.Getenv("TOKEN"))
	if err != nil {
		log.Fatalf("dbserver: open %s: %v", cfg.DBPath, err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Printf("dbserver: close error: %v", err)
		}
	}()

	go dbserver.RunAdminShell(os.Stdin, svc)

	if err := svc.Serve(cfg.DBAddr); err != nil {
		log.Fatalf("dbserver: serve %s: %v", cfg.DBAddr, err)
	}
}
