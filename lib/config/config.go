// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for Stagedoor
// components.
//
// Configuration is loaded from a single file specified by:
//   - STAGEDOOR_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. This ensures
// deterministic, auditable configuration with no hidden overrides.
// Per-run inputs (transcripts, scenarios, output paths) are command
// arguments, not configuration; the file holds runtime knobs only.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration for Stagedoor tools.
type Config struct {
	// Logging configures the slog handler.
	Logging LoggingConfig `yaml:"logging"`

	// Ledger configures the in-memory event ledger.
	Ledger LedgerConfig `yaml:"ledger"`

	// Replay configures transcript playback.
	Replay ReplayConfig `yaml:"replay"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	// Level is the minimum level to emit: debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`
}

// LedgerConfig configures the in-memory event ledger.
type LedgerConfig struct {
	// Capacity is the number of entries the ledger retains before
	// overwriting the oldest. Default: 512
	Capacity int `yaml:"capacity"`
}

// ReplayConfig configures transcript playback.
type ReplayConfig struct {
	// Pace is the delay between transcript lines, as a Go duration
	// string. "0s" replays as fast as possible. Default: 0s
	Pace string `yaml:"pace"`
}

// levelNames maps the accepted logging.level values to slog levels.
var levelNames = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Default returns the default configuration. These defaults are a
// complete working configuration; the config file is optional for
// Stagedoor tools and overrides them when present.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Ledger:  LedgerConfig{Capacity: 512},
		Replay:  ReplayConfig{Pace: "0s"},
	}
}

// Load loads configuration from the STAGEDOOR_CONFIG environment
// variable. Fails if the variable is not set; use LoadFile with an
// explicit path (the --config flag) otherwise.
func Load() (*Config, error) {
	configPath := os.Getenv("STAGEDOOR_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("STAGEDOOR_CONFIG environment variable not set; " +
			"set it to the path of your stagedoor.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables
// do not override config values - this ensures deterministic,
// auditable configuration.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if _, ok := levelNames[c.Logging.Level]; !ok {
		errs = append(errs, fmt.Errorf("logging.level %q must be one of: debug, info, warn, error", c.Logging.Level))
	}

	if c.Ledger.Capacity < 1 {
		errs = append(errs, fmt.Errorf("ledger.capacity must be at least 1, got %d", c.Ledger.Capacity))
	}

	if pace, err := time.ParseDuration(c.Replay.Pace); err != nil {
		errs = append(errs, fmt.Errorf("replay.pace: %w", err))
	} else if pace < 0 {
		errs = append(errs, fmt.Errorf("replay.pace must not be negative, got %s", pace))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Level returns the configured slog level. Call Validate first;
// unknown level names fall back to info.
func (c *Config) Level() slog.Level {
	if level, ok := levelNames[c.Logging.Level]; ok {
		return level
	}
	return slog.LevelInfo
}

// Pace returns the configured playback delay. Call Validate first;
// unparseable values fall back to zero.
func (c *Config) Pace() time.Duration {
	pace, err := time.ParseDuration(c.Replay.Pace)
	if err != nil {
		return 0
	}
	return pace
}
