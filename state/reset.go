// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package state

import "github.com/stagedoor-live/stagedoor/wire"

// Reset drops every session and marks the performer offline, running
// the transition through the normal merge pipeline so observers see
// the same diffs, notifications, and watcher edges a real offline
// update would produce. Non-best sessions are forced offline silently
// first; the best session then goes offline via a synthetic payload.
//
// On the aggregate performer, Reset instead resets every concrete
// performer in id order. The aggregate holds no session state of its
// own; its tags and watchers survive.
func (p *Performer) Reset() {
	if p.id == AggregateID {
		registry := p.registry
		registry.mu.Lock()
		defer registry.mu.Unlock()
		for _, performer := range registry.concreteLocked() {
			performer.Reset()
		}
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	bestID := p.bestSessionIDLocked()
	for id, session := range p.sessions {
		if id == bestID {
			continue
		}
		if session.VideoState() != wire.VideoOffline {
			session[wire.FieldVideoState] = int64(wire.VideoOffline)
		}
	}
	p.mergeLocked(wire.Payload{
		wire.FieldSessionID:   int64(bestID),
		wire.FieldPerformerID: int64(p.id),
		wire.FieldVideoState:  wire.VideoOffline,
	})
}
