package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration. Values come from flags first, then
// environment variables (a .env file is loaded if present), then defaults.
type Config struct {
	Addr          string
	DBPath        string
	AdminPassword string
	SessionSecret string
	BaseURL       string
	LogLevel      string
}

const (
	defaultPort     = 8081
	defaultDBPath   = "juryvote.db"
	defaultLogLevel = "info"
)

// Load parses the given command-line arguments and the environment into a
// Config. AdminPassword and SessionSecret may be empty; callers generate
// random values in that case.
func Load(args []string) (*Config, error) {
	// Missing .env is fine; explicit env vars still apply
	godotenv.Load()

	fs := flag.NewFlagSet("juryvote", flag.ContinueOnError)
	port := fs.Int("port", envInt("JURYVOTE_PORT", defaultPort), "HTTP server port")
	dbPath := fs.String("db", envString("JURYVOTE_DB", defaultDBPath), "SQLite database path")
	adminPw := fs.String("adminpw", os.Getenv("JURYVOTE_ADMIN_PASSWORD"), "Admin password (auto-generated if not set)")
	secret := fs.String("secret", os.Getenv("JURYVOTE_SESSION_SECRET"), "Session signing secret (auto-generated if not set)")
	baseURL := fs.String("baseurl", os.Getenv("JURYVOTE_BASE_URL"), "Public base URL used in jury access links")
	logLevel := fs.String("loglevel", envString("JURYVOTE_LOG_LEVEL", defaultLogLevel), "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		Addr:          fmt.Sprintf(":%d", *port),
		DBPath:        *dbPath,
		AdminPassword: *adminPw,
		SessionSecret: *secret,
		BaseURL:       *baseURL,
		LogLevel:      *logLevel,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%d", *port)
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return fallback
	}
	return n
}
