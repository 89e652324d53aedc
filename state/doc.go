// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

// Package state tracks performer state reconciled from an unordered
// stream of server updates. It is the client-side source of truth for
// "what is this performer doing right now" when the server reports the
// same performer through multiple concurrent sessions.
//
// # Model
//
// A [Registry] owns every known [Performer]. A Performer holds one
// [Session] per session id the server has mentioned; each session is a
// dynamic property bag. At any moment exactly one session is the best
// session — the one whose properties represent the performer's current
// state. Selection prefers sessions established by the platform's
// official broadcast software, then the highest session id, and
// ignores offline sessions entirely ([Performer.BestSessionID]).
//
// [Performer.Merge] folds a payload into the addressed session,
// flattens group sub-objects, decodes known flag bits into derived
// fields, and — when the merge is visible through the best session —
// emits one [PropertyChanged] event per changed property plus a single
// [Update] event carrying the raw payload. Every event also mirrors to
// the aggregate performer ([Registry.Aggregate]), a reserved sink
// whose subscribers hear about every performer without subscribing to
// each one.
//
// # Events and watchers
//
// Events publish synchronously on the merging goroutine through the
// performer's event bus ([Performer.Events]) while the performer's
// lock is held. Handlers receive an immutable [Snapshot] and must not
// call back into the engine; a handler that needs to mutate state
// records the Snapshot's ID and acts after returning.
//
// [Performer.When] registers edge-triggered watchers: a predicate over
// a Snapshot, a callback for the edge into matching, and a callback
// for the edge out of it. Watchers on the aggregate performer observe
// every performer. Watcher callbacks run under the same in-lock
// contract as event handlers.
//
// # Locking
//
// All operations are safe for concurrent use. Three lock levels exist
// and are always acquired top-down: the Registry's lock, then a
// performer's lock, then the aggregate performer's lock. Merging never
// takes the Registry's lock, so lookups stay cheap on the receive
// path. Predicates passed to [Registry.Find] run under the Registry's
// lock and must not call GetOrCreate, Find, or Reset on the aggregate.
package state
