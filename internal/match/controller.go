// Package match is the Match Controller: it spawns a game-server
// subprocess for a room, extracts its listening port from the
// contractual first stdout line, broadcasts the endpoint to every
// member, and reaps the process when the match ends.
package match

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/lobbyforge/lobby/internal/auth"
	"github.com/lobbyforge/lobby/internal/dbgateway"
	"github.com/lobbyforge/lobby/internal/model"
	"github.com/lobbyforge/lobby/internal/session"
)

// Member is one seated room participant the controller notifies.
type Member struct {
	UserID int64
	Name   string
}

// Controller owns the process-spawn/monitor lifecycle for matches.
type Controller struct {
	lobbyHost      string
	jwtSecret      string
	matchTicketTTL time.Duration
	sessions       *session.Registry

	// dialMonitorGateway opens a fresh DB Gateway for the monitor
	// goroutine's own post-match writes, since the monitor outlives the
	// request worker (and its Gateway) that called Start.
	dialMonitorGateway func() (*dbgateway.Gateway, error)
}

// NewController builds a Controller. dialMonitorGateway is called once
// per match, when the subprocess exits, to get a short-lived Gateway
// for the idle-status/played-table writes; it should return a freshly
// dialed connection the monitor closes itself.
func NewController(lobbyHost, jwtSecret string, matchTicketTTL time.Duration, sessions *session.Registry, dialMonitorGateway func() (*dbgateway.Gateway, error)) *Controller {
	return &Controller{
		lobbyHost:          lobbyHost,
		jwtSecret:          jwtSecret,
		matchTicketTTL:     matchTicketTTL,
		sessions:           sessions,
		dialMonitorGateway: dialMonitorGateway,
	}
}

// ErrNotEnoughPlayers is returned when Start is attempted with fewer
// than 2 members.
var ErrNotEnoughPlayers = fmt.Errorf("Not enough players")

// Start spawns the game-server for room, wires up the stdin handshake,
// reads the listening port from the first stdout line, and broadcasts a
// `start` notification to every member carrying a per-user match
// ticket. It returns once the handshake completes; the subprocess is
// then monitored in the background until it exits.
func (c *Controller) Start(ctx context.Context, room model.Room, game model.Game, version model.GameVersion, serverDir string, members []Member) error {
	if len(members) < 2 {
		return ErrNotEnoughPlayers
	}

	cmd, err := buildCommand(ctx, version.Command, serverDir)
	if err != nil {
		return fmt.Errorf("match: build command: %w", err)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("match: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("match: stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("match: stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("match: start game-server: %w", err)
	}

	userIDs := make([]int64, len(members))
	for i, m := range members {
		userIDs[i] = m.UserID
	}
	handshake := map[string]any{
		"ip_address": c.lobbyHost,
		"users":      len(members),
		"userIDs":    userIDs,
	}
	if err := writeJSONLine(stdin, handshake); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("match: write handshake: %w", err)
	}
	_ = stdin.Close()

	stdoutReader := bufio.NewReader(stdout)
	firstLine, err := stdoutReader.ReadString('\n')
	if err != nil && firstLine == "" {
		_ = cmd.Process.Kill()
		return fmt.Errorf("match: read port line: %w", err)
	}
	port, err := lastTokenAsPort(firstLine)
	if err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("match: parse port: %w", err)
	}

	for _, m := range members {
		ticket, err := auth.MintMatchTicket(m.UserID, room.ID, c.jwtSecret, c.matchTicketTTL)
		if err != nil {
			log.Printf("match: mint ticket for user %d: %v", m.UserID, err)
			ticket = ""
		}
		payload := map[string]any{
			"op":               "start",
			"game_server_ip":   c.lobbyHost,
			"game_server_port": port,
			"game_name":        game.Name,
		}
		if ticket != "" {
			payload["match_ticket"] = ticket
		}
		if err := c.sessions.SendAsync(m.UserID, payload); err != nil {
			log.Printf("match: notify user %d: %v", m.UserID, err)
		}
	}

	go c.monitor(cmd, stdoutReader, stderr, room, game, members)
	return nil
}

// monitor drains the remaining stdout/stderr concurrently (never
// relying on cmd.Wait alone, which would deadlock if a pipe fills while
// the other goes undrained), waits for exit, and marks the room idle.
func (c *Controller) monitor(cmd *exec.Cmd, stdout io.Reader, stderr io.Reader, room model.Room, game model.Game, members []Member) {
	done := make(chan struct{}, 2)
	go drainLines(stdout, "game-server", room.ID, done)
	go drainLines(stderr, "game-server stderr", room.ID, done)
	<-done
	<-done

	waitErr := cmd.Wait()
	if waitErr != nil {
		log.Printf("match: room %d game-server exited with error: %v", room.ID, waitErr)
	}

	gw, err := c.dialMonitorGateway()
	if err != nil {
		log.Printf("match: room %d: dial monitor gateway: %v", room.ID, err)
		return
	}
	defer gw.Close()

	idle := model.RoomIdle
	if err := gw.UpdateRoom(room.ID, dbgateway.RoomUpdate{Status: &idle}); err != nil {
		log.Printf("match: room %d: mark idle: %v", room.ID, err)
	}
	// A crashed or killed game-server is not a played match.
	if waitErr == nil {
		for _, m := range members {
			if err := gw.RecordPlayed(game.ID, m.UserID); err != nil {
				log.Printf("match: room %d: record played for user %d: %v", room.ID, m.UserID, err)
			}
		}
	}
}

func drainLines(r io.Reader, tag string, roomID int64, done chan<- struct{}) {
	defer func() { done <- struct{}{} }()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		log.Printf("[room %d] %s: %s", roomID, tag, scanner.Text())
	}
}

func writeJSONLine(w io.Writer, v any) error {
	data, err := marshalCompact(v)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func lastTokenAsPort(line string) (int, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty stdout line")
	}
	return strconv.Atoi(fields[len(fields)-1])
}
