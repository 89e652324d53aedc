// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"github.com/stagedoor-live/stagedoor/wire"
)

// SessionID identifies one server session of a performer. Session id 0
// is the default session: the engine's stand-in when a payload names
// no session or a performer has no live session at all.
type SessionID int64

// Session is one session's property bag. Keys are wire field names;
// values are in canonical form (see wire.Canonical). A Session
// returned by the engine is a private copy — mutating it does not
// affect tracked state.
type Session map[string]any

// Derived session fields. The merge engine computes these from the
// flags bitmask; they never appear in payloads and never produce
// property change events of their own.
const (
	fieldTruePrivate      = "true_private"
	fieldOfficialSoftware = "official_software"
	fieldGuestsMuted      = "guests_muted"
	fieldBasicsMuted      = "basics_muted"
)

func isDerivedField(name string) bool {
	switch name {
	case fieldTruePrivate, fieldOfficialSoftware, fieldGuestsMuted, fieldBasicsMuted:
		return true
	}
	return false
}

// newSession returns the default property bag for a session: offline,
// rank 0, owned by the given performer.
func newSession(owner PerformerID, id SessionID) Session {
	return Session{
		wire.FieldSessionID:   int64(id),
		wire.FieldPerformerID: int64(owner),
		wire.FieldVideoState:  int64(wire.VideoOffline),
		wire.FieldRank:        int64(0),
	}
}

// ID returns the session's id field, or 0 when missing.
func (s Session) ID() SessionID {
	value, _ := wire.AsInt64(s[wire.FieldSessionID])
	return SessionID(value)
}

// PerformerID returns the owning performer's id, or 0 when missing.
func (s Session) PerformerID() PerformerID {
	value, _ := wire.AsInt64(s[wire.FieldPerformerID])
	return PerformerID(value)
}

// VideoState returns the session's broadcast state. Sessions with a
// missing or malformed state count as offline.
func (s Session) VideoState() wire.VideoState {
	value, ok := wire.AsInt64(s[wire.FieldVideoState])
	if !ok {
		return wire.VideoOffline
	}
	return wire.VideoState(value)
}

// Rank returns the session's popularity rank, or 0 when missing.
func (s Session) Rank() int64 {
	value, _ := wire.AsInt64(s[wire.FieldRank])
	return value
}

// Name returns the display name carried by this session, if any.
func (s Session) Name() (string, bool) {
	name, ok := s[wire.FieldDisplayName].(string)
	return name, ok
}

// TruePrivate reports whether the session's flags marked it a true
// private.
func (s Session) TruePrivate() bool {
	value, _ := s[fieldTruePrivate].(bool)
	return value
}

// OfficialSoftware reports whether the session was established by the
// platform's official broadcast software.
func (s Session) OfficialSoftware() bool {
	value, _ := s[fieldOfficialSoftware].(bool)
	return value
}

// GuestsMuted reports whether guests are muted in this session.
func (s Session) GuestsMuted() bool {
	value, _ := s[fieldGuestsMuted].(bool)
	return value
}

// BasicsMuted reports whether non-premium members are muted in this
// session.
func (s Session) BasicsMuted() bool {
	value, _ := s[fieldBasicsMuted].(bool)
	return value
}

// clone returns a shallow copy. Session values are canonical scalars
// or already-copied containers, so a shallow copy is enough to detach
// readers from subsequent merges.
func (s Session) clone() Session {
	copied := make(Session, len(s))
	for name, value := range s {
		copied[name] = value
	}
	return copied
}
