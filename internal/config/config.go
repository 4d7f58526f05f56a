// Package config loads per-service configuration from the environment
// variables named in the platform's external interface contract.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LobbyConfig configures the Lobby Service (cmd/lobbyserver).
type LobbyConfig struct {
	LobbyAddr string // host:port the lobby TCP listener binds
	DBAddr    string // host:port of the DB Service

	TempDir         string
	DownloadBaseDir string
	Token           string

	IdleTimeout      time.Duration
	DBRequestTimeout time.Duration

	AdminAddr  string // host:port of the admin HTTP/websocket API
	AdminToken string

	JWTSecret      string
	MatchTicketTTL time.Duration

	AppEnv string
}

// DeveloperConfig configures the Developer Service (cmd/devserver).
type DeveloperConfig struct {
	DevAddr string
	DBAddr  string

	TempDir         string
	DownloadBaseDir string
	Token           string

	IdleTimeout      time.Duration
	DBRequestTimeout time.Duration

	AppEnv string
}

// DBServiceConfig configures the DB Service (cmd/dbserver).
type DBServiceConfig struct {
	DBAddr string
	DBPath string
	AppEnv string
}

func LoadLobbyConfig() (LobbyConfig, error) {
	var missing []string

	lobbyAddr := addrFromHostPort("LOBBY_IP", "LOBBY_PORT", "0.0.0.0", "20012")
	dbAddr := addrFromHostPort("DB_IP", "DB_PORT", "", "")
	if dbAddr == ":" {
		missing = append(missing, "DB_IP/DB_PORT")
	}

	cfg := LobbyConfig{
		LobbyAddr:        lobbyAddr,
		DBAddr:           dbAddr,
		TempDir:          getenvDefault("TEMP_DIR", os.TempDir()),
		DownloadBaseDir:  getenvDefault("DOWNLOAD_BASE_DIR", "./storage"),
		Token:            os.Getenv("TOKEN"),
		IdleTimeout:      durationSecondsDefault("IDLE_TIMEOUT_SECONDS", 20*time.Second),
		DBRequestTimeout: durationMillisDefault("DB_REQUEST_TIMEOUT_MS", time.Second),
		AdminAddr:        addrFromHostPort("ADMIN_BIND", "ADMIN_PORT", "127.0.0.1", "20080"),
		AdminToken:       os.Getenv("ADMIN_TOKEN"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		MatchTicketTTL:   durationSecondsDefault("MATCH_TICKET_TTL_SECONDS", 2*time.Minute),
		AppEnv:           appEnv(),
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return LobbyConfig{}, fmt.Errorf("missing/invalid env: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func LoadDeveloperConfig() (DeveloperConfig, error) {
	var missing []string

	devAddr := addrFromHostPort("SERVER_IP", "DEVELOPER_SERVER_PORT", "0.0.0.0", "20013")
	dbAddr := addrFromHostPort("DB_IP", "DB_PORT", "", "")
	if dbAddr == ":" {
		missing = append(missing, "DB_IP/DB_PORT")
	}

	cfg := DeveloperConfig{
		DevAddr:          devAddr,
		DBAddr:           dbAddr,
		TempDir:          getenvDefault("TEMP_DIR", os.TempDir()),
		DownloadBaseDir:  getenvDefault("DOWNLOAD_BASE_DIR", "./storage"),
		Token:            os.Getenv("TOKEN"),
		IdleTimeout:      durationSecondsDefault("IDLE_TIMEOUT_SECONDS", 20*time.Second),
		DBRequestTimeout: durationMillisDefault("DB_REQUEST_TIMEOUT_MS", time.Second),
		AppEnv:           appEnv(),
	}
	if len(missing) > 0 {
		return DeveloperConfig{}, fmt.Errorf("missing/invalid env: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func LoadDBServiceConfig() (DBServiceConfig, error) {
	var missing []string

	dbAddr := addrFromHostPort("DB_IP", "DB_PORT", "0.0.0.0", "20014")
	dbPath := getenvDefault("DB_PATH", "./data/database.db")

	cfg := DBServiceConfig{
		DBAddr: dbAddr,
		DBPath: dbPath,
		AppEnv: appEnv(),
	}
	if len(missing) > 0 {
		return DBServiceConfig{}, fmt.Errorf("missing/invalid env: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func appEnv() string {
	v := strings.TrimSpace(os.Getenv("APP_ENV"))
	if v == "" {
		return "development"
	}
	return v
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// addrFromHostPort builds a "host:port" dial/listen address from two env
// vars, falling back to the given defaults. An empty ipDefault/portDefault
// with no env value set yields ":" so callers can detect "unset".
func addrFromHostPort(ipVar, portVar, ipDefault, portDefault string) string {
	host := getenvDefault(ipVar, ipDefault)
	port := getenvDefault(portVar, portDefault)
	return host + ":" + port
}

func durationSecondsDefault(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		fmt.Fprintf(os.Stderr, "WARNING: invalid %s=%q, using default %s\n", key, v, def)
		return def
	}
	return time.Duration(n) * time.Second
}

func durationMillisDefault(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		fmt.Fprintf(os.Stderr, "WARNING: invalid %s=%q, using default %s\n", key, v, def)
		return def
	}
	return time.Duration(n) * time.Millisecond
}
