// internal/config/config.go
//
// Environment-driven configuration for the round server.
// main loads `.env` (godotenv) first; Load only reads the process environment.
//
// Environment variables:
//   PORT=5175                     HTTP listen port
//   LOG_LEVEL=info                zerolog level
//   SCORE_BACKEND=sqlite          sqlite | gdata | memory
//   DB_PATH=./data/whack.db       SQLite file (sqlite backend)
//   GDATA_APP=whack               gdata application name (gdata backend)
//   SCORE_KEY=global              key the best score is stored under
//   PROFILES_FILE=                YAML difficulty catalog; empty = embedded
//   GRID_SIZE=3                   board side length (2–8)
//   JWT_SECRET=dev_secret_change_me
//   SESSION_COOKIE=whack_session
//   SESSION_DAYS=7
//   SESSION_IDLE_MINUTES=60       evict sessions unseen this long (capped at SESSION_DAYS)
//   CLIENT_ORIGIN=http://localhost:5173
//   APP_ENV=development           "production" marks cookies Secure

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	minGridSize = 2
	maxGridSize = 8
)

// Config holds every runtime setting.
type Config struct {
	Port          string
	LogLevel      string
	ScoreBackend  string
	DBPath        string
	GdataApp      string
	ScoreKey      string
	ProfilesFile  string
	GridSize      int
	JWTSecret     string
	SessionCookie string
	SessionTTL    time.Duration
	SessionIdle   time.Duration
	ClientOrigin  string
	Production    bool
}

// Load reads the configuration from the environment, applying defaults.
func Load() Config {
	c := Config{
		Port:          getEnv("PORT", "5175"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		ScoreBackend:  strings.ToLower(getEnv("SCORE_BACKEND", "sqlite")),
		DBPath:        getEnv("DB_PATH", "./data/whack.db"),
		GdataApp:      getEnv("GDATA_APP", "whack"),
		ScoreKey:      getEnv("SCORE_KEY", "global"),
		ProfilesFile:  os.Getenv("PROFILES_FILE"),
		GridSize:      envInt("GRID_SIZE", 3),
		JWTSecret:     getEnv("JWT_SECRET", "dev_secret_change_me"),
		SessionCookie: getEnv("SESSION_COOKIE", "whack_session"),
		SessionTTL:    time.Duration(envInt("SESSION_DAYS", 7)) * 24 * time.Hour,
		SessionIdle:   time.Duration(envInt("SESSION_IDLE_MINUTES", 60)) * time.Minute,
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:    os.Getenv("APP_ENV") == "production",
	}
	if c.GridSize < minGridSize || c.GridSize > maxGridSize {
		c.GridSize = 3
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 7 * 24 * time.Hour
	}
	if c.SessionIdle <= 0 || c.SessionIdle > c.SessionTTL {
		c.SessionIdle = min(time.Hour, c.SessionTTL)
	}
	switch c.ScoreBackend {
	case "sqlite", "gdata", "memory":
	default:
		c.ScoreBackend = "sqlite"
	}
	return c
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt parses k as an int, falling back to def when unset or malformed.
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}
