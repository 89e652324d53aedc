// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"fmt"
	"sort"
	"sync"

	eventbus "github.com/jilio/ebu"

	"github.com/stagedoor-live/stagedoor/wire"
)

// PerformerID identifies a performer. Server-assigned ids are
// positive; the only reserved value is [AggregateID].
type PerformerID int64

// AggregateID is the reserved id of the aggregate performer: the
// broadcast sink that mirrors every other performer's events. It is
// never the target of a merge.
const AggregateID PerformerID = -1

// Performer is one tracked performer and the sessions the server has
// reported for them. Create performers through [Registry.GetOrCreate];
// the zero value is not usable.
//
// All methods are safe for concurrent use.
type Performer struct {
	id       PerformerID
	registry *Registry
	bus      *eventbus.EventBus

	mu       sync.Mutex
	name     string
	tags     map[string]struct{}
	sessions map[SessionID]Session
	watchers map[WatcherHandle]*watcher
}

// ID returns the performer's id.
func (p *Performer) ID() PerformerID { return p.id }

// IsAggregate reports whether this is the aggregate performer.
func (p *Performer) IsAggregate() bool { return p.id == AggregateID }

// Events returns the performer's event bus. Subscribe to
// [PropertyChanged], [Update], and [TagsChanged] on it; the aggregate
// performer's bus additionally carries every other performer's events.
func (p *Performer) Events() *eventbus.EventBus { return p.bus }

// DisplayName returns the cached display name: the name field of the
// best session the last time a visible merge carried one. Empty until
// a name has been seen.
func (p *Performer) DisplayName() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name
}

// Tags returns a sorted copy of the performer's accumulated tags.
func (p *Performer) Tags() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tagsLocked()
}

// HasTag reports whether the performer has accumulated the given tag.
func (p *Performer) HasTag(tag string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.tags[tag]
	return ok
}

// BestSessionID returns the id of the performer's best session, or 0
// when no live session exists.
func (p *Performer) BestSessionID() SessionID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bestSessionIDLocked()
}

// BestSession returns a copy of the best session's property bag. When
// no live session exists it returns the default session: offline,
// rank 0, session id 0.
func (p *Performer) BestSession() Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bestSessionLocked().clone()
}

// VideoState returns the best session's broadcast state. Performers
// with no live session are offline.
func (p *Performer) VideoState() wire.VideoState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bestSessionLocked().VideoState()
}

// InTruePrivate reports whether the performer is in a private show
// whose flags marked it a true private.
func (p *Performer) InTruePrivate() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	best := p.bestSessionLocked()
	return best.VideoState() == wire.VideoPrivate && best.TruePrivate()
}

// Snapshot returns an immutable view of the performer's current state.
func (p *Performer) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// String formats the performer for logs.
func (p *Performer) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.id == AggregateID {
		return "performer(aggregate)"
	}
	best := p.bestSessionLocked()
	return fmt.Sprintf("performer(%d %q sid=%d vs=%s)", p.id, p.name, best.ID(), best.VideoState())
}

// tagsLocked returns a sorted copy of the tag set. Caller holds p.mu.
func (p *Performer) tagsLocked() []string {
	if len(p.tags) == 0 {
		return nil
	}
	tags := make([]string, 0, len(p.tags))
	for tag := range p.tags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
