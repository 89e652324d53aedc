// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/stagedoor-live/stagedoor/state"
	"github.com/stagedoor-live/stagedoor/wire"
)

// Scenario is an ordered script of steps to drive through a
// dispatcher. Scenarios are authored as JSONC files (JSON extended
// with // line comments, /* block comments */, and trailing commas),
// which keeps hand-maintained replay fixtures annotatable.
type Scenario struct {
	// Name identifies the scenario in logs. Optional.
	Name string `json:"name,omitempty"`

	Steps []Step `json:"steps"`
}

// Step is one scenario action. Exactly one of Update, Tags, or Reset
// must be set.
type Step struct {
	// Update is a raw payload to merge, exactly as the server would
	// send it. It must carry a performer id.
	Update wire.Payload `json:"update,omitempty"`

	// Tags merges tags into a performer.
	Tags *TagStep `json:"tags,omitempty"`

	// Reset drives a performer's sessions offline. The aggregate id
	// resets every performer.
	Reset *ResetStep `json:"reset,omitempty"`
}

// TagStep names a performer and the tags to merge into it.
type TagStep struct {
	Performer state.PerformerID `json:"performer"`
	Tags      []string          `json:"tags"`
}

// ResetStep names the performer to reset.
type ResetStep struct {
	Performer state.PerformerID `json:"performer"`
}

// validate checks that the step carries exactly one action with the
// fields that action needs.
func (s Step) validate() error {
	actions := 0
	if len(s.Update) > 0 {
		actions++
	}
	if s.Tags != nil {
		actions++
	}
	if s.Reset != nil {
		actions++
	}
	switch {
	case actions == 0:
		return errors.New("must set exactly one of update, tags, or reset")
	case actions > 1:
		return errors.New("update, tags, and reset are mutually exclusive (set exactly one)")
	}
	if s.Tags != nil && len(s.Tags.Tags) == 0 {
		return errors.New("tags step has no tags")
	}
	return nil
}

// ParseScenario strips JSONC comments and trailing commas from data,
// unmarshals the result, and validates every step. Update payloads go
// through [wire.Payload]'s decoder, so their values arrive in
// canonical form.
func ParseScenario(data []byte) (*Scenario, error) {
	stripped := jsonc.ToJSON(data)

	var scenario Scenario
	if err := json.Unmarshal(stripped, &scenario); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if len(scenario.Steps) == 0 {
		return nil, errors.New("parsing scenario: no steps (at least one step is required)")
	}
	for i, step := range scenario.Steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("parsing scenario: step %d: %w", i, err)
		}
	}
	return &scenario, nil
}

// ReadScenarioFile reads a JSONC scenario file from disk and parses
// it.
func ReadScenarioFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scenario, nil
}
