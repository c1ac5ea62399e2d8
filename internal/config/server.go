package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig configures the mock backend.
type ServerConfig struct {
	Port          string
	JWTSecret     string
	TokenTTL      time.Duration
	AdminName     string
	AdminEmail    string
	AdminPassword string
	LogLevel      string

	invalid []string
}

// LoadServer reads the mock backend configuration the same way Load does.
func LoadServer(envFiles ...string) (*ServerConfig, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &ServerConfig{
		Port:          getEnv("PORT", "8080"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		AdminName:     getEnv("ADMIN_NAME", "Admin"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
	var err error
	if cfg.TokenTTL, err = getDurationEnv("TOKEN_TTL", 24*time.Hour); err != nil {
		cfg.invalid = append(cfg.invalid, err.Error())
	}
	return cfg, nil
}

// Validate checks that all configuration values are usable.
func (c *ServerConfig) Validate() error {
	errs := append([]string(nil), c.invalid...)

	if c.Port == "" {
		errs = append(errs, "PORT is required")
	}
	if len(c.JWTSecret) < 16 {
		errs = append(errs, "JWT_SECRET must be at least 16 bytes")
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, "TOKEN_TTL must be positive")
	}
	if c.AdminPassword != "" && c.AdminEmail == "" {
		errs = append(errs, "ADMIN_EMAIL is required when ADMIN_PASSWORD is set")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return errors.New("config validation failed: " + strings.Join(errs, "; "))
	}
	return nil
}
