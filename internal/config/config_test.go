package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Practice.Pattern != nil || cfg.Log.File != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[practice]
pattern = 3
min-distance = 12.5
focus-weak = true
rotated = true

[timing]
success-delay-ms = 1000

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Practice.Pattern == nil || *cfg.Practice.Pattern != 3 {
		t.Fatalf("pattern = %v", cfg.Practice.Pattern)
	}
	if cfg.Practice.MinDistance == nil || *cfg.Practice.MinDistance != 12.5 {
		t.Fatalf("min-distance = %v", cfg.Practice.MinDistance)
	}
	if cfg.Practice.FocusWeak == nil || !*cfg.Practice.FocusWeak {
		t.Fatalf("focus-weak = %v", cfg.Practice.FocusWeak)
	}
	if cfg.Practice.Rotated == nil || !*cfg.Practice.Rotated {
		t.Fatalf("rotated = %v", cfg.Practice.Rotated)
	}
	if cfg.Practice.Catalog != nil {
		t.Fatalf("catalog should be unset")
	}
	if got := Millis(cfg.Timing.SuccessDelayMs, time.Second); got != time.Second {
		t.Fatalf("success delay = %v", got)
	}
	if got := Millis(cfg.Timing.FailureDelayMs, 1500*time.Millisecond); got != 1500*time.Millisecond {
		t.Fatalf("failure delay fallback = %v", got)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("log level = %v", cfg.Log.Level)
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nlang = \"en\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "practice.lang") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadConfigRejectsNonPositiveDelay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[timing]\nfailure-delay-ms = 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for zero delay")
	}
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_STATE_HOME", "/state")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "tuistrum", "config.toml") {
		t.Fatalf("config path = %s", got)
	}
	if got := DefaultCatalogPath(); got != filepath.Join("/cfg", "tuistrum", "patterns.yaml") {
		t.Fatalf("catalog path = %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/state", "tuistrum", "tuistrum.log") {
		t.Fatalf("log path = %s", got)
	}
}
