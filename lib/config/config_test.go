// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging.level=info, got %s", cfg.Logging.Level)
	}

	if cfg.Ledger.Capacity != 512 {
		t.Errorf("expected ledger.capacity=512, got %d", cfg.Ledger.Capacity)
	}

	if cfg.Replay.Pace != "0s" {
		t.Errorf("expected replay.pace=0s, got %s", cfg.Replay.Pace)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoad_RequiresStagedoorConfig(t *testing.T) {
	// Save and restore STAGEDOOR_CONFIG.
	origConfig := os.Getenv("STAGEDOOR_CONFIG")
	defer os.Setenv("STAGEDOOR_CONFIG", origConfig)

	// Unset STAGEDOOR_CONFIG - Load() should fail.
	os.Unsetenv("STAGEDOOR_CONFIG")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when STAGEDOOR_CONFIG not set, got nil")
	}

	expectedMsg := "STAGEDOOR_CONFIG environment variable not set"
	if !strings.HasPrefix(err.Error(), expectedMsg) {
		t.Errorf("expected error message to start with %q, got %q", expectedMsg, err.Error())
	}
}

func TestLoad_WithStagedoorConfig(t *testing.T) {
	// Save and restore STAGEDOOR_CONFIG.
	origConfig := os.Getenv("STAGEDOOR_CONFIG")
	defer os.Setenv("STAGEDOOR_CONFIG", origConfig)

	// Create temp config file.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "stagedoor.yaml")

	configContent := `
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	// Set STAGEDOOR_CONFIG and load.
	os.Setenv("STAGEDOOR_CONFIG", configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected logging.level=debug, got %s", cfg.Logging.Level)
	}
}

func TestLoadFile(t *testing.T) {
	// Create temp config file.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "stagedoor.yaml")

	configContent := `
logging:
  level: warn

ledger:
  capacity: 64

replay:
  pace: 25ms
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("expected logging.level=warn, got %s", cfg.Logging.Level)
	}

	if cfg.Ledger.Capacity != 64 {
		t.Errorf("expected ledger.capacity=64, got %d", cfg.Ledger.Capacity)
	}

	if got := cfg.Pace(); got != 25*time.Millisecond {
		t.Errorf("expected pace=25ms, got %s", got)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config does not validate: %v", err)
	}
}

func TestLoadFile_PartialOverridesKeepDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "stagedoor.yaml")

	// Only the ledger section is present; everything else stays at
	// defaults.
	configContent := `
ledger:
  capacity: 8
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Ledger.Capacity != 8 {
		t.Errorf("expected ledger.capacity=8, got %d", cfg.Ledger.Capacity)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default logging.level=info, got %s", cfg.Logging.Level)
	}
	if cfg.Replay.Pace != "0s" {
		t.Errorf("expected default replay.pace=0s, got %s", cfg.Replay.Pace)
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "logging.level",
		},
		{
			name:    "zero capacity",
			mutate:  func(c *Config) { c.Ledger.Capacity = 0 },
			wantErr: "ledger.capacity",
		},
		{
			name:    "unparseable pace",
			mutate:  func(c *Config) { c.Replay.Pace = "fast" },
			wantErr: "replay.pace",
		},
		{
			name:    "negative pace",
			mutate:  func(c *Config) { c.Replay.Pace = "-5ms" },
			wantErr: "replay.pace",
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("Validate() = %q, want mention of %q", err, test.wantErr)
			}
		})
	}
}

func TestValidateJoinsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "loud"
	cfg.Ledger.Capacity = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	message := err.Error()
	if !strings.Contains(message, "logging.level") || !strings.Contains(message, "ledger.capacity") {
		t.Errorf("Validate() = %q, want both failures reported", message)
	}
}

func TestLevel(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "error"
	if got := cfg.Level(); got != slog.LevelError {
		t.Errorf("Level() = %v, want error", got)
	}

	// Unknown names fall back to info rather than crashing a tool
	// that skipped Validate.
	cfg.Logging.Level = "loud"
	if got := cfg.Level(); got != slog.LevelInfo {
		t.Errorf("Level() fallback = %v, want info", got)
	}
}
