// Package config provides centralized configuration for the notes service.
// It loads configuration from environment variables with CLI flag overrides,
// validates required fields, and provides sensible defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"notesvc/internal/ratelimit"
)

const (
	// DefaultListenAddr matches the service's historical default port.
	DefaultListenAddr = ":3001"

	// DefaultDatabasePath is where the notes database lives when unset.
	DefaultDatabasePath = "./data/notes.db"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	ListenAddr      string
	ShutdownTimeout time.Duration

	// Database
	DatabasePath string
	DatabaseKey  string // optional 64 hex characters; enables at-rest encryption

	// CORS: origins allowed to call the API from a browser
	CORSAllowedOrigins []string

	// Rate limiting
	RateLimitConfig ratelimit.Config
}

// ValidationError represents a configuration validation error with multiple issues.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// ParseFlags parses CLI flags. Call before Load.
func ParseFlags() (addr, dbPath string) {
	flag.StringVar(&addr, "addr", "", "Listen address (default :3001, overrides PORT env var)")
	flag.StringVar(&dbPath, "db", "", "Path to the notes database file (overrides DATABASE_PATH)")
	flag.Parse()
	return addr, dbPath
}

// Load loads configuration from environment variables and CLI flag values.
// Non-empty flag values override the corresponding env vars.
func Load(addr, dbPath string) (*Config, error) {
	cfg := &Config{}

	cfg.ListenAddr = getEnvOrDefault("LISTEN_ADDR", "")
	if cfg.ListenAddr == "" {
		if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
			cfg.ListenAddr = ":" + strings.TrimPrefix(port, ":")
		} else {
			cfg.ListenAddr = DefaultListenAddr
		}
	}
	if addr != "" {
		cfg.ListenAddr = addr
	}
	cfg.ShutdownTimeout = parseDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second)

	cfg.DatabasePath = getEnvOrDefault("DATABASE_PATH", DefaultDatabasePath)
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	cfg.DatabaseKey = strings.TrimSpace(os.Getenv("NOTES_DB_KEY"))

	cfg.CORSAllowedOrigins = splitOrigins(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"))

	cfg.RateLimitConfig = ratelimit.Config{
		RPS:             parseFloat64OrDefault("RATE_LIMIT_RPS", 50),
		Burst:           parseIntOrDefault("RATE_LIMIT_BURST", 100),
		CleanupInterval: parseDurationOrDefault("RATE_LIMIT_CLEANUP_INTERVAL", time.Hour),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all configuration is present and well formed.
func (c *Config) Validate() error {
	var errs []string

	if c.ListenAddr == "" {
		errs = append(errs, "listen address must not be empty")
	}
	if c.DatabasePath == "" {
		errs = append(errs, "database path must not be empty")
	}
	if c.DatabaseKey != "" && len(c.DatabaseKey) != 64 {
		errs = append(errs, "NOTES_DB_KEY must be 64 hex characters (generate with: openssl rand -hex 32)")
	}
	if len(c.CORSAllowedOrigins) == 0 {
		errs = append(errs, "CORS_ALLOWED_ORIGINS must name at least one origin")
	}
	if c.RateLimitConfig.RPS <= 0 {
		errs = append(errs, "RATE_LIMIT_RPS must be positive")
	}
	if c.RateLimitConfig.Burst <= 0 {
		errs = append(errs, "RATE_LIMIT_BURST must be positive")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// PrintStartupSummary prints a human-readable summary of the configuration to stderr.
func (c *Config) PrintStartupSummary() {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "notesvc server starting...")
	fmt.Fprintf(os.Stderr, "  Listen:   %s\n", c.ListenAddr)
	fmt.Fprintf(os.Stderr, "  Database: %s\n", c.DatabasePath)
	if c.DatabaseKey != "" {
		fmt.Fprintln(os.Stderr, "  At rest:  encrypted (NOTES_DB_KEY)")
	} else {
		fmt.Fprintln(os.Stderr, "  At rest:  plaintext")
	}
	fmt.Fprintf(os.Stderr, "  CORS:     %s\n", strings.Join(c.CORSAllowedOrigins, ", "))
	fmt.Fprintln(os.Stderr, "")
}

func splitOrigins(s string) []string {
	var origins []string
	for _, origin := range strings.Split(s, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// Helper functions for parsing environment variables

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// MustLoad loads configuration and panics if validation fails.
// Use this in main() when the application should fail fast on bad config.
func MustLoad(addr, dbPath string) *Config {
	cfg, err := Load(addr, dbPath)
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			panic(fmt.Sprintf("Configuration validation failed:\n  - %s", strings.Join(validationErr.Errors, "\n  - ")))
		}
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}
	return cfg
}
