// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"fmt"
	"sync"
	"time"

	eventbus "github.com/jilio/ebu"

	"github.com/stagedoor-live/stagedoor/lib/clock"
	"github.com/stagedoor-live/stagedoor/state"
	"github.com/stagedoor-live/stagedoor/wire"
)

// DefaultLedgerCapacity is the default ledger capacity in entries.
// A busy registry emits a handful of entries per merge, so 512 holds
// the last few dozen merges — enough for the replay tool's --tail and
// for a reconnecting consumer to notice a gap.
const DefaultLedgerCapacity = 512

// EntryKind discriminates what a ledger entry records.
type EntryKind string

const (
	// EntryProperty records one PropertyChanged event.
	EntryProperty EntryKind = "property"

	// EntryUpdate records the catch-all Update event of a merge.
	EntryUpdate EntryKind = "update"

	// EntryTags records a TagsChanged event.
	EntryTags EntryKind = "tags"
)

// Entry is one recorded notification. Seq is assigned by the ledger
// and increases by one per entry with no gaps; Time is the ledger
// clock's time at recording.
//
// Property, Before, and After are set for EntryProperty entries.
// Before and After hold the sorted tag lists for EntryTags entries.
// Payload is set for EntryUpdate entries.
type Entry struct {
	Seq       uint64
	Time      time.Time
	Performer state.PerformerID
	Kind      EntryKind
	Property  string
	Before    any
	After     any
	Payload   wire.Payload
}

// Ledger is a fixed-capacity ring of recent notifications. New entries
// overwrite the oldest when the ring is full. The ledger tracks a
// monotonically increasing sequence number so consumers can request
// "everything since sequence N" and detect when they missed entries.
//
// All methods are safe for concurrent use.
type Ledger struct {
	clk clock.Clock

	mu sync.Mutex
	// entries is the ring storage; entry with sequence s lives at
	// index s % len(entries).
	entries []Entry
	// total is the number of entries ever recorded. The ring holds
	// sequences (total - stored) through total-1, where stored =
	// min(total, capacity).
	total uint64
}

// NewLedger creates a ledger holding up to capacity entries. Use
// DefaultLedgerCapacity for the standard size. Panics if capacity is
// not positive. If clk is nil, the real clock is used.
func NewLedger(capacity int, clk clock.Clock) *Ledger {
	if capacity < 1 {
		panic(fmt.Sprintf("dispatch: ledger capacity %d, want at least 1", capacity))
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &Ledger{
		clk:     clk,
		entries: make([]Entry, capacity),
	}
}

// Attach subscribes the ledger to the registry's aggregate bus, so it
// records notifications from every performer. Events the aggregate
// mirrors about itself arrive twice and are recorded twice; the ledger
// records what the bus delivers.
func (l *Ledger) Attach(registry *state.Registry) error {
	bus := registry.Aggregate().Events()
	if err := eventbus.Subscribe(bus, func(event state.PropertyChanged) {
		l.record(Entry{
			Performer: event.Performer.ID,
			Kind:      EntryProperty,
			Property:  event.Name,
			Before:    event.Before,
			After:     event.After,
		})
	}); err != nil {
		return fmt.Errorf("subscribing property events: %w", err)
	}
	if err := eventbus.Subscribe(bus, func(event state.Update) {
		l.record(Entry{
			Performer: event.Performer.ID,
			Kind:      EntryUpdate,
			Payload:   event.Payload,
		})
	}); err != nil {
		return fmt.Errorf("subscribing update events: %w", err)
	}
	if err := eventbus.Subscribe(bus, func(event state.TagsChanged) {
		l.record(Entry{
			Performer: event.Performer.ID,
			Kind:      EntryTags,
			Before:    event.Before,
			After:     event.After,
		})
	}); err != nil {
		return fmt.Errorf("subscribing tag events: %w", err)
	}
	return nil
}

// record assigns the next sequence number and timestamp and stores the
// entry, overwriting the oldest if the ring is full.
func (l *Ledger) record(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.Seq = l.total
	entry.Time = l.clk.Now()
	l.entries[l.total%uint64(len(l.entries))] = entry
	l.total++
}

// ReadFrom returns all entries recorded since the given sequence
// number. If seq is older than the oldest retained entry, returns
// everything currently retained; the caller can tell it missed entries
// because the first returned Seq is greater than seq. Returns nil if
// seq is at or beyond the next sequence number.
func (l *Ledger) ReadFrom(seq uint64) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readFromLocked(seq)
}

func (l *Ledger) readFromLocked(seq uint64) []Entry {
	if seq >= l.total {
		return nil
	}
	oldest := l.oldestLocked()
	if seq < oldest {
		seq = oldest
	}
	result := make([]Entry, 0, l.total-seq)
	for s := seq; s < l.total; s++ {
		result = append(result, l.entries[s%uint64(len(l.entries))])
	}
	return result
}

// Tail returns the most recent limit entries, fewer if the ledger
// retains fewer. Returns nil if limit is not positive.
func (l *Ledger) Tail(limit int) []Entry {
	if limit <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	start := l.oldestLocked()
	if retained := l.total - start; uint64(limit) < retained {
		start = l.total - uint64(limit)
	}
	return l.readFromLocked(start)
}

// Total returns the number of entries ever recorded, which is also the
// sequence number the next entry will get.
func (l *Ledger) Total() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

// oldestLocked returns the sequence number of the oldest retained
// entry. Caller holds l.mu.
func (l *Ledger) oldestLocked() uint64 {
	stored := l.total
	if capacity := uint64(len(l.entries)); stored > capacity {
		stored = capacity
	}
	return l.total - stored
}
