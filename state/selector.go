// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package state

import "github.com/stagedoor-live/stagedoor/wire"

// bestSessionIDLocked picks the session whose properties represent the
// performer's current state. Offline sessions never qualify. Among
// live sessions, any session established by official broadcast
// software outranks every unofficial one, and within a class the
// highest session id wins — higher ids are newer. Returns 0 when no
// live session exists. Caller holds p.mu.
func (p *Performer) bestSessionIDLocked() SessionID {
	best := SessionID(0)
	foundOfficial := false
	for id, session := range p.sessions {
		if session.VideoState() == wire.VideoOffline {
			continue
		}
		useThis := false
		if session.OfficialSoftware() {
			if foundOfficial {
				useThis = id > best
			} else {
				foundOfficial = true
				useThis = true
			}
		} else if !foundOfficial && id > best {
			useThis = true
		}
		if useThis {
			best = id
		}
	}
	return best
}

// bestSessionLocked returns the live best session, or a detached
// default session when the performer has none. Callers that hand the
// result outside the engine must clone it. Caller holds p.mu.
func (p *Performer) bestSessionLocked() Session {
	if session, ok := p.sessions[p.bestSessionIDLocked()]; ok {
		return session
	}
	return newSession(p.id, 0)
}
