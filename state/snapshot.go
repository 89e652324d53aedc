// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package state

import "github.com/stagedoor-live/stagedoor/wire"

// Snapshot is an immutable view of one performer at one instant. Event
// handlers, watcher predicates, and watcher callbacks receive
// Snapshots instead of live performers so they can read state freely
// while the engine holds the performer's lock.
type Snapshot struct {
	// ID is the performer's id. Use it with Registry.GetOrCreate to
	// reach the live performer after the handler returns.
	ID PerformerID

	// DisplayName is the cached display name, empty if none seen.
	DisplayName string

	// Tags is the sorted tag set.
	Tags []string

	// BestSessionID is the id of the best session, 0 when offline.
	BestSessionID SessionID

	// BestSession is a copy of the best session's property bag.
	BestSession Session

	// VideoState is the best session's broadcast state.
	VideoState wire.VideoState

	// InTruePrivate is set when the performer is in a true private.
	InTruePrivate bool
}

// Online reports whether the performer has any live session.
func (s Snapshot) Online() bool {
	return s.VideoState != wire.VideoOffline
}

// snapshotLocked builds a Snapshot of the current state. Caller holds
// p.mu.
func (p *Performer) snapshotLocked() Snapshot {
	bestID := p.bestSessionIDLocked()
	best, ok := p.sessions[bestID]
	if !ok {
		best = newSession(p.id, bestID)
	} else {
		best = best.clone()
	}
	return Snapshot{
		ID:            p.id,
		DisplayName:   p.name,
		Tags:          p.tagsLocked(),
		BestSessionID: bestID,
		BestSession:   best,
		VideoState:    best.VideoState(),
		InTruePrivate: best.VideoState() == wire.VideoPrivate && best.TruePrivate(),
	}
}
