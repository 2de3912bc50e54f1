// Package config reads session settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment-level settings. Command-line flags override
// them in cmd/dicelab.
type Config struct {
	SaveDir  string `env:"DICELAB_SAVE_DIR" envDefault:"~/.dicelab/saves"`
	RawLevel string `env:"DICELAB_LOG_LEVEL" envDefault:"warn"`
	MaxRows  int    `env:"DICELAB_MAX_ROWS" envDefault:"20"`
	RawSeed  string `env:"DICELAB_SEED"`

	// Derived from the raw fields by Load.
	LogLevel slog.Level
	Seed     *int64 // nil when DICELAB_SEED is unset
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	level, err := parseLogLevel(c.RawLevel)
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = level

	if c.MaxRows < 1 {
		return Config{}, fmt.Errorf("invalid DICELAB_MAX_ROWS %d: must be at least 1", c.MaxRows)
	}

	if c.RawSeed != "" {
		seed, err := strconv.ParseInt(strings.TrimSpace(c.RawSeed), 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DICELAB_SEED %q: %w", c.RawSeed, err)
		}
		c.Seed = &seed
	}

	dir, err := expandHome(c.SaveDir)
	if err != nil {
		return Config{}, err
	}
	c.SaveDir = dir

	return c, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid DICELAB_LOG_LEVEL %q", s)
	}
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving save directory %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
