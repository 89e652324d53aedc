// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"testing"

	"github.com/stagedoor-live/stagedoor/wire"
)

func TestResetDrivesBestSessionOffline(t *testing.T) {
	registry := NewRegistry()
	performer := registry.GetOrCreate(100)
	payload := onlinePayload(100, 7)
	payload[wire.FieldRank] = int64(10)
	performer.Merge(payload)

	changes := collect[PropertyChanged](t, performer.Events())
	updates := collect[Update](t, performer.Events())

	performer.Reset()

	events := changes.All()
	if got := changedNames(events); len(got) != 1 || got[0] != wire.FieldVideoState {
		t.Fatalf("reset change events = %v, want just [vs]", got)
	}
	vs := events[0]
	if before, _ := wire.AsInt64(vs.Before); wire.VideoState(before) != wire.VideoFreeChat {
		t.Errorf("vs before = %v, want free_chat", vs.Before)
	}
	if after, _ := wire.AsInt64(vs.After); wire.VideoState(after) != wire.VideoOffline {
		t.Errorf("vs after = %v, want offline", vs.After)
	}

	if updates.Count() != 1 {
		t.Errorf("reset Update events = %d, want 1", updates.Count())
	}
	synthetic := updates.All()[0].Payload
	if state, ok := synthetic.VideoState(); !ok || state != wire.VideoOffline {
		t.Errorf("synthetic payload vs = %v, want offline", synthetic[wire.FieldVideoState])
	}
	if sid, ok := synthetic.SessionID(); !ok || sid != 7 {
		t.Errorf("synthetic payload sid = %v, want 7", synthetic[wire.FieldSessionID])
	}

	if got := performer.VideoState(); got != wire.VideoOffline {
		t.Errorf("VideoState after reset = %s, want offline", got)
	}
	if got := performer.BestSessionID(); got != 0 {
		t.Errorf("BestSessionID after reset = %d, want 0", got)
	}
	performer.mu.Lock()
	remaining := len(performer.sessions)
	performer.mu.Unlock()
	if remaining != 0 {
		t.Errorf("sessions after reset = %d, want 0 (purged)", remaining)
	}

	offline := registry.Find(func(p *Performer) bool {
		return !p.IsAggregate() && p.VideoState() == wire.VideoOffline
	})
	if len(offline) != 1 || offline[0] != performer {
		t.Errorf("Find(offline) = %v, want just performer 100", offline)
	}
}

func TestResetForcesNonBestSessionsOfflineSilently(t *testing.T) {
	registry := NewRegistry()
	performer := registry.GetOrCreate(100)
	low := onlinePayload(100, 5)
	low[wire.FieldRank] = int64(2)
	performer.Merge(low)
	performer.Merge(onlinePayload(100, 9))

	changes := collect[PropertyChanged](t, performer.Events())
	updates := collect[Update](t, performer.Events())

	performer.Reset()

	// Only the best session's offline transition is observable; the
	// lower session dies without a sound.
	if got := changedNames(changes.All()); len(got) != 1 || got[0] != wire.FieldVideoState {
		t.Fatalf("reset change events = %v, want just [vs]", got)
	}
	if updates.Count() != 1 {
		t.Errorf("reset Update events = %d, want 1", updates.Count())
	}
	if sid, _ := updates.All()[0].Payload.SessionID(); sid != 9 {
		t.Errorf("synthetic payload targeted sid %d, want best session 9", sid)
	}

	performer.mu.Lock()
	remaining := len(performer.sessions)
	performer.mu.Unlock()
	if remaining != 0 {
		t.Errorf("sessions after reset = %d, want 0", remaining)
	}
}

func TestResetWithoutSessionsEmitsOnlyCatchAll(t *testing.T) {
	registry := NewRegistry()
	performer := registry.GetOrCreate(100)

	changes := collect[PropertyChanged](t, performer.Events())
	updates := collect[Update](t, performer.Events())

	performer.Reset()

	if changes.Count() != 0 {
		t.Errorf("change events = %v, want none", changedNames(changes.All()))
	}
	if updates.Count() != 1 {
		t.Errorf("Update events = %d, want 1", updates.Count())
	}

	performer.mu.Lock()
	remaining := len(performer.sessions)
	performer.mu.Unlock()
	if remaining != 0 {
		t.Errorf("sessions after reset = %d, want 0", remaining)
	}
}

func TestResetPreservesNameAndTags(t *testing.T) {
	registry := NewRegistry()
	performer := registry.GetOrCreate(100)
	payload := onlinePayload(100, 7)
	payload[wire.FieldDisplayName] = "Nova"
	performer.Merge(payload)
	performer.MergeTags([]string{"jazz"})

	performer.Reset()

	if got := performer.DisplayName(); got != "Nova" {
		t.Errorf("DisplayName after reset = %q, want Nova", got)
	}
	if !performer.HasTag("jazz") {
		t.Error("tags lost across reset")
	}
	if got := performer.VideoState(); got != wire.VideoOffline {
		t.Errorf("VideoState after reset = %s, want offline", got)
	}
}

func TestResetRunsWatchers(t *testing.T) {
	registry := NewRegistry()
	performer := registry.GetOrCreate(100)

	var wentOnline, wentOffline int
	performer.When(
		func(s Snapshot) bool { return s.Online() },
		func(Snapshot, Trigger) { wentOnline++ },
		func(Snapshot, Trigger) { wentOffline++ },
	)

	performer.Merge(onlinePayload(100, 7))
	if wentOnline != 1 {
		t.Fatalf("onMatch fired %d times after merge, want 1", wentOnline)
	}

	performer.Reset()
	if wentOffline != 1 {
		t.Errorf("onUnmatch fired %d times after reset, want 1", wentOffline)
	}
	if wentOnline != 1 {
		t.Errorf("onMatch fired %d times total, want 1", wentOnline)
	}
}

func TestAggregateResetBroadcasts(t *testing.T) {
	registry := NewRegistry()
	aggregate := registry.Aggregate()
	registry.GetOrCreate(20).Merge(onlinePayload(20, 3))
	registry.GetOrCreate(10).Merge(onlinePayload(10, 4))
	aggregate.MergeTags([]string{"festival"})

	updates := collect[Update](t, aggregate.Events())

	aggregate.Reset()

	events := updates.All()
	if len(events) != 2 {
		t.Fatalf("aggregate saw %d Update events, want 2", len(events))
	}
	// Broadcast walks performers in id order.
	for i, want := range []PerformerID{10, 20} {
		if got := events[i].Performer.ID; got != want {
			t.Errorf("update %d from performer %d, want %d", i, got, want)
		}
	}

	for _, id := range []PerformerID{10, 20} {
		performer, _ := registry.Get(id)
		if got := performer.VideoState(); got != wire.VideoOffline {
			t.Errorf("performer %d VideoState = %s, want offline", id, got)
		}
	}

	// The aggregate holds no sessions; its own accumulated state
	// survives the broadcast.
	if !aggregate.HasTag("festival") {
		t.Error("aggregate tags lost across broadcast reset")
	}
}
