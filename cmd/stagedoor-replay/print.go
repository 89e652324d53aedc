// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"

	eventbus "github.com/jilio/ebu"

	"github.com/stagedoor-live/stagedoor/dispatch"
	"github.com/stagedoor-live/stagedoor/state"
	"github.com/stagedoor-live/stagedoor/wire"
)

// subscribePrinters prints every notification from the aggregate bus
// to the writer, one line per event, in emission order.
func subscribePrinters(registry *state.Registry, writer io.Writer) error {
	bus := registry.Aggregate().Events()
	if err := eventbus.Subscribe(bus, func(event state.PropertyChanged) {
		fmt.Fprintf(writer, "%s %s: %s -> %s\n",
			subject(event.Performer.ID), event.Name,
			formatValue(event.Name, event.Before),
			formatValue(event.Name, event.After))
	}); err != nil {
		return fmt.Errorf("subscribing property printer: %w", err)
	}
	if err := eventbus.Subscribe(bus, func(event state.Update) {
		fmt.Fprintf(writer, "%s update: %s\n",
			subject(event.Performer.ID), describe(event.Performer))
	}); err != nil {
		return fmt.Errorf("subscribing update printer: %w", err)
	}
	if err := eventbus.Subscribe(bus, func(event state.TagsChanged) {
		fmt.Fprintf(writer, "%s tags: %v -> %v\n",
			subject(event.Performer.ID), event.Before, event.After)
	}); err != nil {
		return fmt.Errorf("subscribing tag printer: %w", err)
	}
	return nil
}

// printTail writes the given ledger entries, one line each.
func printTail(writer io.Writer, entries []dispatch.Entry) {
	for _, entry := range entries {
		timestamp := entry.Time.Format("15:04:05.000")
		switch entry.Kind {
		case dispatch.EntryProperty:
			fmt.Fprintf(writer, "seq %d %s %s %s: %s -> %s\n",
				entry.Seq, timestamp, subject(entry.Performer), entry.Property,
				formatValue(entry.Property, entry.Before),
				formatValue(entry.Property, entry.After))
		case dispatch.EntryUpdate:
			fmt.Fprintf(writer, "seq %d %s %s update (%d fields)\n",
				entry.Seq, timestamp, subject(entry.Performer), len(entry.Payload))
		case dispatch.EntryTags:
			fmt.Fprintf(writer, "seq %d %s %s tags: %v -> %v\n",
				entry.Seq, timestamp, subject(entry.Performer), entry.Before, entry.After)
		}
	}
}

// subject renders a performer id for output.
func subject(id state.PerformerID) string {
	if id == state.AggregateID {
		return "aggregate"
	}
	return fmt.Sprintf("performer %d", id)
}

// describe summarizes a snapshot for the update line.
func describe(snapshot state.Snapshot) string {
	description := fmt.Sprintf("%s best=%d", snapshot.VideoState, snapshot.BestSessionID)
	if snapshot.DisplayName != "" {
		description = fmt.Sprintf("%q %s", snapshot.DisplayName, description)
	}
	return description
}

// formatValue renders a property value. Video states print as their
// names rather than raw numbers; absent values print as <absent>.
func formatValue(property string, value any) string {
	if value == nil {
		return "<absent>"
	}
	if property == wire.FieldVideoState {
		if number, ok := wire.AsInt64(value); ok {
			return wire.VideoState(number).String()
		}
	}
	return fmt.Sprint(value)
}
