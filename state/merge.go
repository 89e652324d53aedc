// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"fmt"
	"sort"

	"github.com/stagedoor-live/stagedoor/wire"
)

// propertyChange is one recorded diff: the value a property had in the
// pre-merge best session and the value the merge gave it. A payload
// that writes the same property twice coalesces into one change
// keeping the original before and the final after.
type propertyChange struct {
	name   string
	before any
	after  any
}

// Merge folds a payload into the session it addresses and emits change
// events when the merge is visible through the best session. The full
// pipeline: resolve the target session (creating it at defaults if
// new), flatten group sub-objects, write each property in canonical
// form while recording its diff against the pre-merge best session,
// decode flag bits into derived fields, record implicit clears when
// the merge switched sessions, then — if the target is now the best
// session, or the performer had no live session and gained one — emit
// one [PropertyChanged] per changed property, one [Update] with the
// raw payload, and re-evaluate watchers. Offline sessions are purged
// last, visible or not.
//
// Panics when called on the aggregate performer or when the payload
// declares a producer level other than performer; both are caller
// bugs, not data errors. Malformed data inside the payload never
// panics — unusable fields are ignored.
func (p *Performer) Merge(payload wire.Payload) {
	if p.id == AggregateID {
		panic("state: merge on the aggregate performer")
	}
	if declared, ok := payload[wire.FieldLevel]; ok {
		level, valid := wire.AsInt64(declared)
		if !valid || wire.Level(level) != wire.LevelPerformer {
			panic(fmt.Sprintf("state: payload for performer %d declares level %v, want %v",
				p.id, declared, wire.LevelPerformer))
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.mergeLocked(payload)
}

// mergeLocked implements Merge. Reset reuses it to push the synthetic
// offline payload through the same pipeline atomically. Caller holds
// p.mu.
func (p *Performer) mergeLocked(payload wire.Payload) {
	baseline := p.bestSessionLocked().clone()

	targetID := SessionID(0)
	if id, ok := payload.SessionID(); ok {
		targetID = SessionID(id)
	}
	target, ok := p.sessions[targetID]
	if !ok {
		target = newSession(p.id, targetID)
		p.sessions[targetID] = target
	}

	var changes []propertyChange
	changeIndex := make(map[string]int)
	apply := func(name string, value any) {
		canonical := wire.Canonical(value)
		if i, seen := changeIndex[name]; seen {
			changes[i].after = canonical
		} else {
			changeIndex[name] = len(changes)
			changes = append(changes, propertyChange{
				name:   name,
				before: baseline[name],
				after:  canonical,
			})
		}
		target[name] = canonical
		if name == wire.FieldFlags {
			if flags, valid := wire.AsInt64(canonical); valid {
				applySessionFlags(target, wire.SessionFlag(flags))
			}
		}
	}

	for field, value := range payload {
		if wire.IsGroup(field) {
			group, isMap := wire.Canonical(value).(wire.Payload)
			if !isMap {
				continue
			}
			for name, nested := range group {
				apply(name, nested)
			}
			continue
		}
		apply(field, value)
	}

	// Map iteration gave the changes an arbitrary order; fix it by
	// name so observers see a stable sequence.
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].name < changes[j].name
	})

	// A payload that switched sessions implicitly clears every
	// baseline property the target session does not carry. Derived
	// flag fields stay internal here as everywhere else.
	if targetID != baseline.ID() {
		var cleared []propertyChange
		for name, before := range baseline {
			if isDerivedField(name) {
				continue
			}
			if _, carried := target[name]; carried {
				continue
			}
			cleared = append(cleared, propertyChange{name: name, before: before, after: nil})
		}
		sort.Slice(cleared, func(i, j int) bool {
			return cleared[i].name < cleared[j].name
		})
		changes = append(changes, cleared...)
	}

	bestID := p.bestSessionIDLocked()
	if bestID == targetID || (bestID == 0 && targetID != 0) {
		if name, ok := p.bestSessionLocked().Name(); ok && name != p.name {
			p.name = name
		}
		snapshot := p.snapshotLocked()
		for _, change := range changes {
			if wire.Equal(change.before, change.after) {
				continue
			}
			publish(p, PropertyChanged{
				Performer: snapshot,
				Name:      change.name,
				Before:    change.before,
				After:     change.after,
			})
		}
		publish(p, Update{Performer: snapshot, Payload: payload})
		p.evaluateWatchersLocked(snapshot, Trigger{Payload: payload})
	}

	p.purgeLocked()
}

// MergeTags adds tags to the performer's accumulated tag set and
// notifies observers. Unlike property merges, tag merges always emit
// [TagsChanged] — even when every tag was already present — and are
// permitted on the aggregate performer, whose subscribers then see
// the event doubled by mirroring.
func (p *Performer) MergeTags(tags []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	before := p.tagsLocked()
	for _, tag := range tags {
		p.tags[tag] = struct{}{}
	}
	after := p.tagsLocked()

	snapshot := p.snapshotLocked()
	publish(p, TagsChanged{Performer: snapshot, Before: before, After: after})

	trigger := Trigger{Tags: make([]string, len(tags))}
	copy(trigger.Tags, tags)
	p.evaluateWatchersLocked(snapshot, trigger)
}

// applySessionFlags decodes the known bits of a flags bitmask into the
// session's derived fields.
func applySessionFlags(session Session, flags wire.SessionFlag) {
	session[fieldTruePrivate] = flags.Has(wire.FlagTruePrivate)
	session[fieldOfficialSoftware] = flags.Has(wire.FlagOfficialSoftware)
	session[fieldGuestsMuted] = flags.Has(wire.FlagGuestsMuted)
	session[fieldBasicsMuted] = flags.Has(wire.FlagBasicsMuted)
}

// purgeLocked drops every offline session, including sessions whose
// video state is missing or malformed. Runs after every merge so dead
// sessions never accumulate. Caller holds p.mu.
func (p *Performer) purgeLocked() {
	for id, session := range p.sessions {
		if session.VideoState() == wire.VideoOffline {
			delete(p.sessions, id)
		}
	}
}
