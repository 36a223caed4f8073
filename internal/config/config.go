// Package config reads runtime settings from APPSCOPE_* environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const minInterval = 100 * time.Millisecond

// Config holds every tunable. All fields have workable defaults so a bare
// invocation needs no environment at all.
type Config struct {
	// Interval is the refresh period of the application list.
	Interval time.Duration `default:"1s"`

	// Debug enables debug-level diagnostics.
	Debug bool `default:"false"`

	// DebugStride logs one refresh summary every N ticks when Debug is on.
	DebugStride int `split_words:"true" default:"10"`

	// LogFile receives diagnostics. Empty discards them, which keeps the
	// terminal clean while the interface is on screen.
	LogFile string `split_words:"true"`
}

// Load reads the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("appscope", &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	if cfg.Interval < minInterval {
		return Config{}, fmt.Errorf("interval %s below minimum %s", cfg.Interval, minInterval)
	}
	if cfg.DebugStride < 1 {
		return Config{}, fmt.Errorf("debug stride must be positive, got %d", cfg.DebugStride)
	}
	return cfg, nil
}
