package config

import (
	"testing"
	"time"
)

func TestGetPlaybackConfig_Defaults(t *testing.T) {
	cfg := &Config{}
	pb := cfg.GetPlaybackConfig()

	if pb.PollIntervalMs != 1000 {
		t.Errorf("PollIntervalMs = %d, want 1000", pb.PollIntervalMs)
	}
	if pb.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", pb.MaxRetries)
	}
	if pb.HTTPTimeoutSec != 30 {
		t.Errorf("HTTPTimeoutSec = %d, want 30", pb.HTTPTimeoutSec)
	}
	if pb.PollInterval() != time.Second {
		t.Errorf("PollInterval() = %v, want 1s", pb.PollInterval())
	}
}

func TestGetPlaybackConfig_Explicit(t *testing.T) {
	cfg := &Config{Playback: PlaybackConfig{
		PollIntervalMs: 250,
		MaxRetries:     5,
		HTTPTimeoutSec: 10,
	}}
	pb := cfg.GetPlaybackConfig()

	if pb.PollInterval() != 250*time.Millisecond {
		t.Errorf("PollInterval() = %v, want 250ms", pb.PollInterval())
	}
	if pb.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", pb.MaxRetries)
	}
	if pb.HTTPTimeout() != 10*time.Second {
		t.Errorf("HTTPTimeout() = %v, want 10s", pb.HTTPTimeout())
	}
}

func TestHasBridgeConfig(t *testing.T) {
	cfg := &Config{}
	if cfg.HasBridgeConfig() {
		t.Error("empty bridge config reported as configured")
	}
	cfg.Bridge.URL = "ws://localhost:8974/player"
	if !cfg.HasBridgeConfig() {
		t.Error("bridge config not detected")
	}
}
