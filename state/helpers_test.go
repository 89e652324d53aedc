// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"fmt"
	"strings"
	"testing"

	eventbus "github.com/jilio/ebu"

	"github.com/stagedoor-live/stagedoor/lib/testutil"
	"github.com/stagedoor-live/stagedoor/wire"
)

// collect subscribes a recorder for one event type on the bus.
func collect[T any](t *testing.T, bus *eventbus.EventBus) *testutil.Collector[T] {
	t.Helper()
	collector := &testutil.Collector[T]{}
	if err := eventbus.Subscribe(bus, collector.Add); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	return collector
}

// onlinePayload builds the minimal payload that puts a performer's
// session into free chat.
func onlinePayload(performer PerformerID, session SessionID) wire.Payload {
	return wire.Payload{
		wire.FieldSessionID:   int64(session),
		wire.FieldPerformerID: int64(performer),
		wire.FieldVideoState:  wire.VideoFreeChat,
	}
}

// changedNames extracts the property names from a change event list in
// emission order.
func changedNames(events []PropertyChanged) []string {
	names := make([]string, len(events))
	for i, event := range events {
		names[i] = event.Name
	}
	return names
}

// findChange returns the first change event for the named property.
func findChange(t *testing.T, events []PropertyChanged, name string) PropertyChanged {
	t.Helper()
	for _, event := range events {
		if event.Name == name {
			return event
		}
	}
	t.Fatalf("no PropertyChanged for %q in %v", name, changedNames(events))
	return PropertyChanged{}
}

func mustPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		recovered := recover()
		if recovered == nil {
			t.Fatalf("expected panic containing %q, got none", want)
		}
		message := fmt.Sprint(recovered)
		if !strings.Contains(message, want) {
			t.Fatalf("panic %q does not contain %q", message, want)
		}
	}()
	fn()
}
