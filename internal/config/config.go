// Package config loads runtime settings from the environment, after an
// optional .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DBPath    string
	LogLevel  string
	LogFormat string

	// Timezone is the IANA name all wall-clock math runs in.
	Timezone string
	Location *time.Location

	TickInterval     time.Duration
	ArchiveAfterDays int
	SessionTTL       time.Duration
}

// Load reads .env (when present) and the CHOREQUEST_* variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Port:             getEnv("CHOREQUEST_PORT", "8080"),
		DBPath:           getEnv("CHOREQUEST_DB_PATH", "chorequest.db"),
		LogLevel:         getEnv("CHOREQUEST_LOG_LEVEL", "info"),
		LogFormat:        getEnv("CHOREQUEST_LOG_FORMAT", "text"),
		Timezone:         getEnv("CHOREQUEST_TIMEZONE", "Local"),
		TickInterval:     getEnvDuration("CHOREQUEST_TICK_INTERVAL", 60*time.Second),
		ArchiveAfterDays: getEnvInt("CHOREQUEST_ARCHIVE_AFTER_DAYS", 30),
		SessionTTL:       getEnvDuration("CHOREQUEST_SESSION_TTL", 12*time.Hour),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and resolves Timezone into Location.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("CHOREQUEST_PORT must be numeric, got %q", c.Port)
	}
	if c.DBPath == "" {
		return errors.New("CHOREQUEST_DB_PATH must not be empty")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("CHOREQUEST_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.TickInterval < time.Second {
		return fmt.Errorf("CHOREQUEST_TICK_INTERVAL must be at least 1s, got %v", c.TickInterval)
	}
	if c.ArchiveAfterDays < 1 {
		return fmt.Errorf("CHOREQUEST_ARCHIVE_AFTER_DAYS must be positive, got %d", c.ArchiveAfterDays)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("CHOREQUEST_SESSION_TTL must be positive, got %v", c.SessionTTL)
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("CHOREQUEST_TIMEZONE: %w", err)
	}
	c.Location = loc
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
