// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/stagedoor-live/stagedoor/dispatch"
	"github.com/stagedoor-live/stagedoor/lib/clock"
)

// replayTranscript feeds every payload in the transcript to the
// dispatcher in order, sleeping pace between payloads when pace is
// positive.
func replayTranscript(dispatcher *dispatch.Dispatcher, path string, pace time.Duration, clk clock.Clock, logger *slog.Logger) error {
	reader, err := dispatch.OpenTranscript(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	count := 0
	for {
		payload, err := reader.Next()
		if errors.Is(err, io.EOF) {
			logger.Info("transcript replayed", "path", path, "payloads", count)
			return nil
		}
		if err != nil {
			return err
		}
		if err := dispatcher.HandleUpdate(payload); err != nil {
			return fmt.Errorf("transcript line %d: %w", reader.Line(), err)
		}
		count++
		if pace > 0 {
			clk.Sleep(pace)
		}
	}
}

// replayScenario applies every step of the scenario in order, sleeping
// pace between steps when pace is positive.
func replayScenario(dispatcher *dispatch.Dispatcher, path string, pace time.Duration, clk clock.Clock, logger *slog.Logger) error {
	scenario, err := dispatch.ReadScenarioFile(path)
	if err != nil {
		return err
	}
	for i, step := range scenario.Steps {
		if err := dispatcher.ApplyStep(step); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if pace > 0 {
			clk.Sleep(pace)
		}
	}
	logger.Info("scenario replayed", "name", scenario.Name, "steps", len(scenario.Steps))
	return nil
}
