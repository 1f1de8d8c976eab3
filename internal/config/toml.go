// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Timing   TimingConfig   `toml:"timing"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Pattern     *int     `toml:"pattern"`
	Catalog     *string  `toml:"catalog"`
	MinDistance *float64 `toml:"min-distance"`
	RowScale    *float64 `toml:"row-scale"`
	Rotated     *bool    `toml:"rotated"`
	FocusWeak   *bool    `toml:"focus-weak"`
	WeakFactor  *float64 `toml:"weak-factor"`
}

// TimingConfig maps feedback delays, in milliseconds.
type TimingConfig struct {
	SuccessDelayMs *int `toml:"success-delay-ms"`
	FailureDelayMs *int `toml:"failure-delay-ms"`
	TimeoutDelayMs *int `toml:"timeout-delay-ms"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	File  *string `toml:"file"`
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Timing.validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

// Millis converts an optional millisecond setting, returning fallback when unset.
func Millis(v *int, fallback time.Duration) time.Duration {
	if v == nil {
		return fallback
	}
	return time.Duration(*v) * time.Millisecond
}

func (t TimingConfig) validate() error {
	for name, v := range map[string]*int{
		"success-delay-ms": t.SuccessDelayMs,
		"failure-delay-ms": t.FailureDelayMs,
		"timeout-delay-ms": t.TimeoutDelayMs,
	} {
		if v != nil && *v <= 0 {
			return fmt.Errorf("timing.%s must be > 0", name)
		}
	}
	return nil
}
