// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package state

import "sort"

// RegistryExport is a point-in-time copy of everything a Registry
// tracks, shaped for serialization. Slices are ordered by id so that
// deterministic encoders produce identical bytes for identical state.
type RegistryExport struct {
	Performers []PerformerExport `cbor:"performers"`
}

// PerformerExport is one performer's exported state.
type PerformerExport struct {
	ID            PerformerID     `cbor:"id"`
	DisplayName   string          `cbor:"display_name,omitempty"`
	Tags          []string        `cbor:"tags,omitempty"`
	BestSessionID SessionID       `cbor:"best_session_id"`
	Sessions      []SessionExport `cbor:"sessions,omitempty"`
}

// SessionExport is one session's exported property bag.
type SessionExport struct {
	ID         SessionID `cbor:"id"`
	Properties Session   `cbor:"properties"`
}

// Export copies the full Registry state, aggregate included, under a
// single consistent view: no merge on any performer overlaps the
// export.
func (r *Registry) Export() RegistryExport {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]PerformerID, 0, len(r.performers))
	for id := range r.performers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	export := RegistryExport{
		Performers: make([]PerformerExport, 0, len(ids)),
	}
	for _, id := range ids {
		export.Performers = append(export.Performers, r.performers[id].export())
	}
	return export
}

// export copies one performer's state.
func (p *Performer) export() PerformerExport {
	p.mu.Lock()
	defer p.mu.Unlock()

	sessionIDs := make([]SessionID, 0, len(p.sessions))
	for id := range p.sessions {
		sessionIDs = append(sessionIDs, id)
	}
	sort.Slice(sessionIDs, func(i, j int) bool { return sessionIDs[i] < sessionIDs[j] })

	sessions := make([]SessionExport, 0, len(sessionIDs))
	for _, id := range sessionIDs {
		sessions = append(sessions, SessionExport{
			ID:         id,
			Properties: p.sessions[id].clone(),
		})
	}

	return PerformerExport{
		ID:            p.id,
		DisplayName:   p.name,
		Tags:          p.tagsLocked(),
		BestSessionID: p.bestSessionIDLocked(),
		Sessions:      sessions,
	}
}
