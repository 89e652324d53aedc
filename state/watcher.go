// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"github.com/google/uuid"

	"github.com/stagedoor-live/stagedoor/wire"
)

// WatcherHandle identifies a registered watcher. Handles are opaque
// and unique per registration; pass one to [Performer.Unwatch] to
// remove the watcher.
type WatcherHandle struct {
	id uuid.UUID
}

// IsZero reports whether the handle is the zero value (never returned
// by When).
func (h WatcherHandle) IsZero() bool { return h.id == uuid.UUID{} }

// String returns the handle's unique id for logs.
func (h WatcherHandle) String() string { return h.id.String() }

// Predicate decides whether a performer currently matches a watcher's
// condition. It runs in-lock and must not call back into the engine.
type Predicate func(Snapshot) bool

// Callback runs on a watcher edge. The Trigger describes what caused
// the re-evaluation. Callbacks run in-lock and must not call back into
// the engine.
type Callback func(Snapshot, Trigger)

// Trigger carries the cause of a watcher evaluation: the merged
// payload, the newly merged tags, or neither (the immediate pass at
// registration time).
type Trigger struct {
	Payload wire.Payload
	Tags    []string
}

// watcher is one registered predicate with its edge state. matched
// remembers which performer ids currently satisfy the predicate; for
// a watcher on a concrete performer it holds at most that performer's
// id, while a watcher on the aggregate accumulates one entry per
// matching performer.
type watcher struct {
	predicate Predicate
	onMatch   Callback
	onUnmatch Callback
	matched   map[PerformerID]struct{}
}

// When registers an edge-triggered watcher. onMatch fires when the
// predicate transitions from false to true for a performer, onUnmatch
// when it transitions back; either callback may be nil to ignore that
// edge. Registration on a concrete performer immediately evaluates
// the performer's watchers (so a predicate that is already true fires
// onMatch right away); registration on the aggregate performer does
// not evaluate anything until the next merge fires.
//
// Returns a handle for [Performer.Unwatch]. Panics if predicate is
// nil.
func (p *Performer) When(predicate Predicate, onMatch, onUnmatch Callback) WatcherHandle {
	if predicate == nil {
		panic("state: nil watcher predicate")
	}
	handle := WatcherHandle{id: uuid.New()}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.watchers[handle] = &watcher{
		predicate: predicate,
		onMatch:   onMatch,
		onUnmatch: onUnmatch,
		matched:   make(map[PerformerID]struct{}),
	}
	if p.id != AggregateID {
		p.evaluateWatchersLocked(p.snapshotLocked(), Trigger{})
	}
	return handle
}

// Unwatch removes a watcher registered on this performer. Reports
// whether the handle was found. Removing a matched watcher fires no
// final onUnmatch.
func (p *Performer) Unwatch(handle WatcherHandle) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.watchers[handle]; !ok {
		return false
	}
	delete(p.watchers, handle)
	return true
}

// evaluateWatchersLocked runs every watcher on this performer, then
// every watcher on the aggregate performer, against the given
// snapshot. A no-op when called on the aggregate itself — aggregate
// watchers only ever observe concrete performers. Caller holds p.mu;
// the aggregate's lock is taken for the second pass, preserving the
// performer-before-aggregate lock order.
func (p *Performer) evaluateWatchersLocked(snapshot Snapshot, trigger Trigger) {
	if p.id == AggregateID {
		return
	}
	for _, w := range p.watchers {
		w.evaluate(snapshot, trigger)
	}

	aggregate := p.registry.aggregate
	aggregate.mu.Lock()
	defer aggregate.mu.Unlock()
	for _, w := range aggregate.watchers {
		w.evaluate(snapshot, trigger)
	}
}

// evaluate applies the edge detection for one performer against one
// watcher. Only transitions fire callbacks; a predicate that stays
// true (or stays false) across evaluations is silent.
func (w *watcher) evaluate(snapshot Snapshot, trigger Trigger) {
	if w.predicate(snapshot) {
		if _, ok := w.matched[snapshot.ID]; ok {
			return
		}
		w.matched[snapshot.ID] = struct{}{}
		if w.onMatch != nil {
			w.onMatch(snapshot, trigger)
		}
		return
	}
	if _, ok := w.matched[snapshot.ID]; !ok {
		return
	}
	delete(w.matched, snapshot.ID)
	if w.onUnmatch != nil {
		w.onUnmatch(snapshot, trigger)
	}
}
