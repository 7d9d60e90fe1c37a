package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the tunables ghwatch reads from its optional config file.
// Every field has a default; a missing file is not an error.
type Config struct {
	PollInterval time.Duration // delay between a refresh completing and the next one
	RunLimit     int           // how many runs to request per refresh
	Theme        string        // catppuccin flavor name
	LogPath      string        // file the zap logger writes to
	LogLevel     string        // debug, info, warn, error
}

const (
	defaultConfigPath   = "~/.config/ghwatch/config.toml"
	defaultLogPath      = "~/.local/state/ghwatch/ghwatch.log"
	defaultPollSeconds  = 10
	defaultRunLimit     = 30
	defaultTheme        = "mocha"
	defaultLogLevel     = "info"
	maxRunLimitPerFetch = 100 // GitHub's per_page ceiling
)

// Load locates and parses the config file, falling back to defaults when it
// is missing. An unreadable or malformed file is an error: silently running
// with defaults would hide the typo from the user.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		PollSeconds int    `toml:"poll_seconds"`
		RunLimit    int    `toml:"run_limit"`
		Theme       string `toml:"theme"`
		LogPath     string `toml:"log_path"`
		LogLevel    string `toml:"log_level"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	if raw.RunLimit > 0 {
		cfg.RunLimit = raw.RunLimit
		if cfg.RunLimit > maxRunLimitPerFetch {
			cfg.RunLimit = maxRunLimitPerFetch
		}
	}
	if theme := strings.TrimSpace(raw.Theme); theme != "" {
		cfg.Theme = theme
	}
	if logPath := strings.TrimSpace(raw.LogPath); logPath != "" {
		cfg.LogPath = mustExpand(logPath)
	}
	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		cfg.LogLevel = level
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		PollInterval: defaultPollSeconds * time.Second,
		RunLimit:     defaultRunLimit,
		Theme:        defaultTheme,
		LogPath:      mustExpand(defaultLogPath),
		LogLevel:     defaultLogLevel,
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
