// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"fmt"
	"log/slog"

	"github.com/stagedoor-live/stagedoor/state"
	"github.com/stagedoor-live/stagedoor/wire"
)

// Dispatcher routes decoded payloads into a state registry. The state
// engine treats malformed input as a programmer error and panics; the
// Dispatcher enforces those preconditions on data instead, returning
// errors or dropping with a log line as appropriate.
type Dispatcher struct {
	registry *state.Registry
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher for the given registry. Panics if
// registry is nil. If logger is nil, slog.Default() is used.
func NewDispatcher(registry *state.Registry, logger *slog.Logger) *Dispatcher {
	if registry == nil {
		panic("dispatch: registry is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{registry: registry, logger: logger}
}

// Registry returns the registry the dispatcher routes into.
func (d *Dispatcher) Registry() *state.Registry { return d.registry }

// HandleUpdate merges one payload into the performer it addresses,
// creating the performer on first sight. A payload without a performer
// id, or one addressed to the aggregate id, cannot be routed and is an
// error. A payload that declares a producer level other than performer
// describes some other account that happens to share the stream (a
// guest or member event); those are dropped with a debug log rather
// than merged, as is a payload whose declared level is not a number at
// all.
func (d *Dispatcher) HandleUpdate(payload wire.Payload) error {
	performerID, ok := payload.PerformerID()
	if !ok {
		return fmt.Errorf("update payload has no %q field: %v", wire.FieldPerformerID, payload)
	}
	if state.PerformerID(performerID) == state.AggregateID {
		return fmt.Errorf("update payload addresses the aggregate id %d: %v", performerID, payload)
	}
	if declared, present := payload[wire.FieldLevel]; present {
		level, valid := wire.AsInt64(declared)
		if !valid {
			d.logger.Debug("dropping update with malformed level",
				"performer", performerID,
				"level", declared)
			return nil
		}
		if wire.Level(level) != wire.LevelPerformer {
			d.logger.Debug("dropping non-performer update",
				"performer", performerID,
				"level", wire.Level(level).String())
			return nil
		}
	}
	d.registry.GetOrCreate(state.PerformerID(performerID)).Merge(payload)
	return nil
}

// HandleTags merges tags into the performer, creating it on first
// sight. Tagging the aggregate id tags the aggregate performer itself.
func (d *Dispatcher) HandleTags(id state.PerformerID, tags []string) {
	d.registry.GetOrCreate(id).MergeTags(tags)
}

// Reset drives the performer's live sessions offline. Resetting
// [state.AggregateID] resets every performer in the registry. A reset
// for an id the registry has never seen creates the performer and
// resets it, which emits the usual catch-all notification.
func (d *Dispatcher) Reset(id state.PerformerID) {
	d.registry.GetOrCreate(id).Reset()
}

// ApplyStep performs one scenario step. The step must carry exactly
// one action.
func (d *Dispatcher) ApplyStep(step Step) error {
	if err := step.validate(); err != nil {
		return err
	}
	switch {
	case len(step.Update) > 0:
		return d.HandleUpdate(step.Update)
	case step.Tags != nil:
		d.HandleTags(step.Tags.Performer, step.Tags.Tags)
	case step.Reset != nil:
		d.Reset(step.Reset.Performer)
	}
	return nil
}

// RunScenario applies the scenario's steps in order, stopping at the
// first failure.
func (d *Dispatcher) RunScenario(scenario *Scenario) error {
	for i, step := range scenario.Steps {
		if err := d.ApplyStep(step); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}
