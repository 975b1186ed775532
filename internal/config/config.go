package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	// Playback engine settings
	Playback PlaybackConfig `koanf:"playback"`

	// Remote player host (enables the websocket adapter when configured)
	Bridge BridgeConfig `koanf:"bridge"`

	LogLevel string `koanf:"log_level"` // "debug", "info", "warn", "error"
}

// PlaybackConfig holds the playback engine tuning knobs.
type PlaybackConfig struct {
	PollIntervalMs int `koanf:"poll_interval_ms"` // position poll cadence (default: 1000)
	MaxRetries     int `koanf:"max_retries"`      // transient-error retry attempts (default: 3)
	HTTPTimeoutSec int `koanf:"http_timeout_sec"` // per-track fetch timeout (default: 30)
}

// BridgeConfig holds the remote player host configuration.
type BridgeConfig struct {
	URL string `koanf:"url"` // e.g. "ws://localhost:8974/player"
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Normalize bridge URL (remove trailing slash)
	cfg.Bridge.URL = strings.TrimSuffix(cfg.Bridge.URL, "/")

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/tapedeck/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tapedeck", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

// HasBridgeConfig returns true if a remote player host is configured.
func (c *Config) HasBridgeConfig() bool {
	return c.Bridge.URL != ""
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	cfg := c.Playback

	if cfg.PollIntervalMs <= 0 {
		cfg.PollIntervalMs = 1000
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.HTTPTimeoutSec <= 0 {
		cfg.HTTPTimeoutSec = 30
	}

	return cfg
}

// PollInterval returns the poll cadence as a duration.
func (c PlaybackConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// HTTPTimeout returns the fetch timeout as a duration.
func (c PlaybackConfig) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}
