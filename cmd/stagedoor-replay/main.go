// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

// stagedoor-replay drives a captured or scripted payload stream
// through a fresh state registry and shows what the engine makes of
// it: the notifications as they fire, the last few ledger entries, and
// optionally a deterministic CBOR snapshot of the final state with its
// digest.
//
// Two input formats:
//
// Transcripts (--transcript): captured server traffic, one JSON
// payload per line, zstd-compressed when the path ends in .zst.
//
// Scenarios (--scenario): hand-written JSONC scripts of update, tags,
// and reset steps, for reproducing a specific sequence in a bug report
// or exercising an edge the captures never hit.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/stagedoor-live/stagedoor/dispatch"
	"github.com/stagedoor-live/stagedoor/lib/clock"
	"github.com/stagedoor-live/stagedoor/lib/codec"
	"github.com/stagedoor-live/stagedoor/lib/config"
	"github.com/stagedoor-live/stagedoor/lib/digest"
	"github.com/stagedoor-live/stagedoor/lib/version"
	"github.com/stagedoor-live/stagedoor/state"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

// usageError is a command-line mistake. It exits with code 2 so
// scripts can tell misuse from a replay that failed.
type usageError string

func (e usageError) Error() string { return string(e) }
func (e usageError) ExitCode() int { return 2 }

func run() error {
	var (
		transcriptPath string
		scenarioPath   string
		configPath     string
		snapshotPath   string
		printDigest    bool
		tailCount      int
		pace           time.Duration
		logLevel       string
		quiet          bool
	)

	flagSet := pflag.NewFlagSet("stagedoor-replay", pflag.ContinueOnError)
	flagSet.StringVar(&transcriptPath, "transcript", "", "replay a captured payload stream (JSONL, .zst ok)")
	flagSet.StringVar(&scenarioPath, "scenario", "", "replay a JSONC scenario script")
	flagSet.StringVar(&configPath, "config", "", "config file (default: $STAGEDOOR_CONFIG if set)")
	flagSet.StringVar(&snapshotPath, "snapshot", "", "write the final registry state as CBOR to this file")
	flagSet.BoolVar(&printDigest, "digest", false, "print the BLAKE3 digest of the final state snapshot")
	flagSet.IntVar(&tailCount, "tail", 0, "print the last N ledger entries after the replay")
	flagSet.DurationVar(&pace, "pace", 0, "sleep this long between inputs (overrides config)")
	flagSet.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	flagSet.BoolVar(&quiet, "quiet", false, "suppress live notification output")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing to match other Stagedoor
	// binaries.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("stagedoor-replay")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return usageError(err.Error())
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return usageError(fmt.Sprintf("unexpected argument: %s", args[0]))
	}
	if (transcriptPath == "") == (scenarioPath == "") {
		return usageError("exactly one of --transcript or --scenario is required")
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if flagSet.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if !flagSet.Changed("pace") {
		pace = cfg.Pace()
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))

	registry := state.NewRegistry()
	dispatcher := dispatch.NewDispatcher(registry, logger)

	ledger := dispatch.NewLedger(cfg.Ledger.Capacity, clock.Real())
	if err := ledger.Attach(registry); err != nil {
		return err
	}
	if !quiet {
		if err := subscribePrinters(registry, os.Stdout); err != nil {
			return err
		}
	}

	if transcriptPath != "" {
		err = replayTranscript(dispatcher, transcriptPath, pace, clock.Real(), logger)
	} else {
		err = replayScenario(dispatcher, scenarioPath, pace, clock.Real(), logger)
	}
	if err != nil {
		return err
	}

	if snapshotPath != "" || printDigest {
		encoded, err := codec.Marshal(registry.Export())
		if err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}
		if snapshotPath != "" {
			if err := os.WriteFile(snapshotPath, encoded, 0o644); err != nil {
				return fmt.Errorf("writing snapshot: %w", err)
			}
			logger.Info("snapshot written", "path", snapshotPath, "bytes", len(encoded))
		}
		if printDigest {
			fmt.Println(digest.Format(digest.Snapshot(encoded)))
		}
	}

	if tailCount > 0 {
		printTail(os.Stdout, ledger.Tail(tailCount))
	}
	return nil
}

// loadConfig resolves the config file: the --config flag wins, then
// STAGEDOOR_CONFIG, then built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	if os.Getenv("STAGEDOOR_CONFIG") != "" {
		return config.Load()
	}
	return config.Default(), nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Stagedoor replay — drive captured or scripted payloads through the
state engine and inspect the result.

Exactly one input is required: --transcript for a captured JSONL
payload stream (zstd-compressed when the path ends in .zst), or
--scenario for a hand-written JSONC script of update/tags/reset steps.

Notifications print to stdout as the engine emits them; --quiet
suppresses that. After the replay, --snapshot writes the final
registry state as deterministic CBOR, --digest prints its BLAKE3
digest (two replays of the same input print the same digest), and
--tail N prints the last N ledger entries.

Usage:
  stagedoor-replay [flags]

Examples:
  # Replay a capture and watch the notifications
  stagedoor-replay --transcript capture.jsonl.zst

  # Check a scenario leaves the registry in a known state
  stagedoor-replay --scenario opening-night.jsonc --quiet --digest

  # Slow a replay down to watch it unfold
  stagedoor-replay --transcript capture.jsonl --pace 250ms --tail 20

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
