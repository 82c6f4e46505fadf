// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds the vault's runtime configuration.
type Config struct {
	DBPath          string // path to the SQLite vault file (default "docvault.sqlite")
	LogLevel        string // log level: debug, info, warn, error (default "info")
	LogFormat       string // "text" (default) or "json"
	Env             string // environment: "development" (default) or "production"
	DefaultPolicy   string // default member permission for new workspaces: READ or WRITE
	ReadPoolSize    int    // connections in the read pool (default 4)
	ConflictRetries int    // internal retries on transient write conflicts (default 3)

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// NewLogger builds the process logger from LogLevel and LogFormat.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	var handler slog.Handler
	if strings.EqualFold(c.LogFormat, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		DBPath:        os.Getenv("DOCVAULT_DB_PATH"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		LogFormat:     os.Getenv("LOG_FORMAT"),
		Env:           os.Getenv("ENV"),
		DefaultPolicy: os.Getenv("DOCVAULT_DEFAULT_POLICY"),
	}

	if v := os.Getenv("DOCVAULT_READ_POOL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ReadPoolSize = n
		} else {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("DOCVAULT_READ_POOL_SIZE %q ignored", v))
		}
	}
	if v := os.Getenv("DOCVAULT_CONFLICT_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.ConflictRetries = n
		} else {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("DOCVAULT_CONFLICT_RETRIES %q ignored", v))
		}
	}

	// Defaults
	if cfg.DBPath == "" {
		cfg.DBPath = "docvault.sqlite"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.DefaultPolicy == "" {
		cfg.DefaultPolicy = "READ"
	}
	if cfg.ReadPoolSize == 0 {
		cfg.ReadPoolSize = 4
	}
	if cfg.ConflictRetries == 0 {
		cfg.ConflictRetries = 3
	}

	switch strings.ToUpper(cfg.DefaultPolicy) {
	case "READ", "WRITE":
		cfg.DefaultPolicy = strings.ToUpper(cfg.DefaultPolicy)
	case "FORBIDDEN":
		// Legal but surprising: new workspaces start unreadable even for
		// their own members.
		cfg.DefaultPolicy = "FORBIDDEN"
		cfg.Warnings = append(cfg.Warnings, "DOCVAULT_DEFAULT_POLICY=FORBIDDEN locks members out of new workspaces by default")
	default:
		return nil, fmt.Errorf("invalid DOCVAULT_DEFAULT_POLICY %q (want FORBIDDEN, READ, or WRITE)", cfg.DefaultPolicy)
	}

	if cfg.IsProduction() && strings.EqualFold(cfg.LogLevel, "debug") {
		cfg.Warnings = append(cfg.Warnings, "LOG_LEVEL=debug in production logs artifact numbers and principals verbosely")
	}

	return cfg, nil
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = stripQuotes(value)
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
