// Package config loads client configuration from the environment, after
// reading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all client configuration
type Config struct {
	APIURL         string
	DBPath         string
	RequestTimeout time.Duration
	LogLevel       string

	// invalid holds values that could not be parsed at load time.
	invalid []string
}

// Load reads configuration from environment variables with sensible
// defaults. Variables already set in the environment win over .env files.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		APIURL:   getEnv("API_URL", "http://localhost:8080"),
		DBPath:   getEnv("DB_PATH", "eventbook.db"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
	var err error
	if cfg.RequestTimeout, err = getDurationEnv("REQUEST_TIMEOUT", 15*time.Second); err != nil {
		cfg.invalid = append(cfg.invalid, err.Error())
	}
	return cfg, nil
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	errs := append([]string(nil), c.invalid...)

	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Sprintf("API_URL must be an absolute http(s) URL, got %q", c.APIURL))
	}
	if c.DBPath == "" {
		errs = append(errs, "DB_PATH is required")
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, "REQUEST_TIMEOUT must be positive")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return errors.New("config validation failed: " + strings.Join(errs, "; "))
	}
	return nil
}

// ParseLevel maps LOG_LEVEL onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", s)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv returns the default when key is unset. A value that does
// not parse is reported and the default is returned alongside the error.
func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be a duration such as 15s, got %q", key, value)
	}
	return d, nil
}
