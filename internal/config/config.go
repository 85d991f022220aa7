// Package config loads configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// DefaultSmallFileThreshold is the size below which files are grouped into
// one block per directory.
const DefaultSmallFileThreshold uint64 = 10_000_000

// ErrInvalidThreshold is returned for a zero small-file threshold.
var ErrInvalidThreshold = errors.New("small file threshold must be a positive integer")

// Config holds all server and scanner configuration.
type Config struct {
	// Server
	ListenAddr     string
	AllowedOrigins []string
	AllowedIPs     []string

	// Logging
	LogLevel  string
	LogFormat string

	// Auth
	JWTSecret    string
	TokenExpiry  time.Duration
	AuthRequired bool

	// Scanner
	SmallFileThreshold uint64
	IgnoredPaths       []string
	Workers            int
	TickInterval       time.Duration
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:         envOr("LISTEN_ADDR", "localhost:8080"),
		AllowedOrigins:     envList("ALLOWED_ORIGINS", ","),
		AllowedIPs:         envList("ALLOWED_IPS", ","),
		LogLevel:           envOr("LOG_LEVEL", "info"),
		LogFormat:          envOr("LOG_FORMAT", "console"),
		JWTSecret:          envOr("JWT_SECRET", ""),
		TokenExpiry:        envDuration("TOKEN_EXPIRY", 90*24*time.Hour),
		AuthRequired:       envBool("AUTH_REQUIRED", true),
		SmallFileThreshold: envUint64("SMALL_FILE_THRESHOLD", DefaultSmallFileThreshold),
		IgnoredPaths:       envList("IGNORED_PATHS", string(os.PathListSeparator)),
		Workers:            envInt("SCAN_WORKERS", runtime.NumCPU()*4),
		TickInterval:       envDuration("TICK_INTERVAL", 60*time.Millisecond),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the scanner settings and normalises ignored paths.
func (c *Config) Validate() error {
	if c.SmallFileThreshold == 0 {
		return ErrInvalidThreshold
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	for i, p := range c.IgnoredPaths {
		if !filepath.IsAbs(p) {
			return fmt.Errorf("ignored path %q is not absolute", p)
		}
		c.IgnoredPaths[i] = filepath.Clean(p)
	}
	return nil
}

func envOr(key, fallback string) string {
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
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envUint64(key string, fallback uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fallback
	}
	return i
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envList(key, sep string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
