package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds process-wide settings for the ledger binary.
type Config struct {
	DBPath          string
	Actor           string
	LogLevel        string
	LogFormat       string
	OperationSource string
}

// DefaultConfig returns the settings used when nothing is overridden.
// DBPath is left empty and resolved against the home directory by Load.
func DefaultConfig() Config {
	return Config{
		Actor:           "system",
		LogLevel:        "info",
		LogFormat:       "json",
		OperationSource: "API",
	}
}

// Load reads an optional .env file from the working directory, then
// environment variables, falling back to defaults for unset values.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the environment only.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("GHOST_DB"); v != "" {
		cfg.DBPath = v
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".ghostledger", "ledger.db")
	}
	if v := os.Getenv("GHOST_ACTOR"); v != "" {
		cfg.Actor = v
	}
	if v := os.Getenv("GHOST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("GHOST_LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v := os.Getenv("GHOST_OPERATION_SOURCE"); v != "" {
		cfg.OperationSource = v
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		return Config{}, fmt.Errorf("GHOST_LOG_FORMAT: unsupported format %q (json or text)", cfg.LogFormat)
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("GHOST_LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

// NewLogger builds the process logger. Logs go to stderr so command output
// on stdout stays clean.
func NewLogger(cfg Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	if cfg.LogFormat == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
