// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

// Package integration exercises the full replay path: scenario and
// transcript bytes through the dispatcher into the state engine, with
// the ledger and notification buses observing, and the final state
// exported, encoded, and digested.
package integration

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	eventbus "github.com/jilio/ebu"
	"github.com/klauspost/compress/zstd"

	"github.com/stagedoor-live/stagedoor/dispatch"
	"github.com/stagedoor-live/stagedoor/lib/clock"
	"github.com/stagedoor-live/stagedoor/lib/codec"
	"github.com/stagedoor-live/stagedoor/lib/digest"
	"github.com/stagedoor-live/stagedoor/lib/testutil"
	"github.com/stagedoor-live/stagedoor/state"
	"github.com/stagedoor-live/stagedoor/wire"
)

// lastCall is the scenario used throughout: two performers go live,
// one gets named and tagged, then the whole registry resets.
const lastCall = `{
	"name": "last-call",
	"steps": [
		{"update": {"pid": 100, "sid": 7, "vs": 0, "lv": 4, "m": {"name": "Nova"}}},
		{"update": {"pid": 200, "sid": 9, "vs": 0}},
		{"tags": {"performer": 100, "tags": ["jazz"]}},
		{"reset": {"performer": -1}}, // aggregate: resets everyone
	],
}`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// replayLastCall runs the scenario through a fresh registry with a
// ledger attached and returns both.
func replayLastCall(t *testing.T) (*state.Registry, *dispatch.Ledger) {
	t.Helper()
	registry := state.NewRegistry()
	dispatcher := dispatch.NewDispatcher(registry, testLogger())
	ledger := dispatch.NewLedger(dispatch.DefaultLedgerCapacity, clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	if err := ledger.Attach(registry); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	scenario, err := dispatch.ParseScenario([]byte(lastCall))
	if err != nil {
		t.Fatalf("ParseScenario: %v", err)
	}
	if err := dispatcher.RunScenario(scenario); err != nil {
		t.Fatalf("RunScenario: %v", err)
	}
	return registry, ledger
}

func TestScenarioReplayEndToEnd(t *testing.T) {
	registry := state.NewRegistry()
	dispatcher := dispatch.NewDispatcher(registry, testLogger())

	updates := &testutil.Collector[state.Update]{}
	if err := eventbus.Subscribe(registry.Aggregate().Events(), updates.Add); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	scenario, err := dispatch.ParseScenario([]byte(lastCall))
	if err != nil {
		t.Fatalf("ParseScenario: %v", err)
	}
	if err := dispatcher.RunScenario(scenario); err != nil {
		t.Fatalf("RunScenario: %v", err)
	}

	// Two online merges plus one reset merge per performer.
	if got := updates.Count(); got != 4 {
		t.Errorf("update notifications = %d, want 4", got)
	}

	nova, ok := registry.Get(100)
	if !ok {
		t.Fatal("performer 100 not created")
	}
	if got, want := nova.VideoState(), wire.VideoOffline; got != want {
		t.Errorf("performer 100 video state = %v, want %v", got, want)
	}
	// The reset drops sessions but not identity: name and tags stay.
	if got := nova.DisplayName(); got != "Nova" {
		t.Errorf("display name = %q, want Nova", got)
	}
	if !nova.HasTag("jazz") {
		t.Errorf("tags = %v, want jazz", nova.Tags())
	}

	other, ok := registry.Get(200)
	if !ok {
		t.Fatal("performer 200 not created")
	}
	if got, want := other.VideoState(), wire.VideoOffline; got != want {
		t.Errorf("performer 200 video state = %v, want %v", got, want)
	}
}

func TestLedgerObservesWholeReplay(t *testing.T) {
	_, ledger := replayLastCall(t)

	// Step by step: the first merge changes lv, name, sid, and vs
	// (4 properties + update); the second changes sid and vs (2 +
	// update); the tag merge adds one entry; the broadcast reset adds
	// a vs change and an update per performer.
	if got, want := ledger.Total(), uint64(13); got != want {
		t.Errorf("ledger total = %d, want %d", got, want)
	}

	entries := ledger.ReadFrom(0)
	if entries[0].Seq != 0 {
		t.Errorf("first seq = %d, want 0", entries[0].Seq)
	}

	// The aggregate reset walks performers in id order, so the last
	// four entries alternate between performer 100 and 200.
	tail := ledger.Tail(4)
	wantKinds := []dispatch.EntryKind{
		dispatch.EntryProperty, dispatch.EntryUpdate,
		dispatch.EntryProperty, dispatch.EntryUpdate,
	}
	wantPerformers := []state.PerformerID{100, 100, 200, 200}
	for i, entry := range tail {
		if entry.Kind != wantKinds[i] {
			t.Errorf("tail[%d] kind = %s, want %s", i, entry.Kind, wantKinds[i])
		}
		if entry.Performer != wantPerformers[i] {
			t.Errorf("tail[%d] performer = %d, want %d", i, entry.Performer, wantPerformers[i])
		}
	}
}

func TestSnapshotDigestIsDeterministic(t *testing.T) {
	first, _ := replayLastCall(t)
	second, _ := replayLastCall(t)

	firstBytes, err := codec.Marshal(first.Export())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	secondBytes, err := codec.Marshal(second.Export())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(firstBytes, secondBytes) {
		t.Fatal("two replays of the same scenario encoded differently")
	}
	if digest.Snapshot(firstBytes) != digest.Snapshot(secondBytes) {
		t.Error("equal snapshot bytes produced different digests")
	}
}

func TestSnapshotAndTranscriptDomainsAreSeparate(t *testing.T) {
	registry, _ := replayLastCall(t)
	encoded, err := codec.Marshal(registry.Export())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if digest.Snapshot(encoded) == digest.Transcript(encoded) {
		t.Error("snapshot and transcript digests agree on identical input")
	}
}

func TestCompressedTranscriptReplay(t *testing.T) {
	transcript := `{"pid": 100, "sid": 7, "vs": 0, "lv": 4}
{"pid": 100, "sid": 7, "rank": 12}
{"pid": 200, "sid": 9, "vs": 0}
`
	var compressed bytes.Buffer
	writer, err := zstd.NewWriter(&compressed)
	if err != nil {
		t.Fatalf("zstd.NewWriter: %v", err)
	}
	if _, err := writer.Write([]byte(transcript)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	path := testutil.WriteFile(t, t.TempDir(), "capture.jsonl.zst", compressed.Bytes())

	registry := state.NewRegistry()
	dispatcher := dispatch.NewDispatcher(registry, testLogger())

	// Replay on a separate goroutine; the loop is synchronous and
	// CPU-bound, so the channel closing is the whole handshake.
	done := make(chan struct{})
	var replayErr error
	go func() {
		defer close(done)
		reader, err := dispatch.OpenTranscript(path)
		if err != nil {
			replayErr = err
			return
		}
		defer reader.Close()
		for {
			payload, err := reader.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				replayErr = err
				return
			}
			if err := dispatcher.HandleUpdate(payload); err != nil {
				replayErr = err
				return
			}
		}
	}()
	testutil.RequireClosed(t, done, time.Second, "transcript replay did not finish")
	if replayErr != nil {
		t.Fatalf("replay: %v", replayErr)
	}

	nova, ok := registry.Get(100)
	if !ok {
		t.Fatal("performer 100 not created")
	}
	if got := nova.BestSession().Rank(); got != 12 {
		t.Errorf("rank = %d, want 12", got)
	}
	if _, ok := registry.Get(200); !ok {
		t.Error("performer 200 not created")
	}
}
