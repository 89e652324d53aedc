// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"sort"
	"sync"

	eventbus "github.com/jilio/ebu"
)

// Registry owns every known performer, including the aggregate
// performer created at construction. A process typically has one
// Registry per upstream connection.
//
// All methods are safe for concurrent use. The Registry's lock is
// never held while a performer operation runs, with two deliberate
// exceptions that keep their view consistent: [Registry.Find] and
// [Registry.Export], plus the broadcast reset triggered through the
// aggregate performer.
type Registry struct {
	mu         sync.Mutex
	performers map[PerformerID]*Performer
	aggregate  *Performer
}

// NewRegistry returns a Registry containing only the aggregate
// performer.
func NewRegistry() *Registry {
	registry := &Registry{
		performers: make(map[PerformerID]*Performer),
	}
	registry.aggregate = registry.newPerformer(AggregateID)
	registry.performers[AggregateID] = registry.aggregate
	return registry
}

// Aggregate returns the aggregate performer: subscribe to its events
// to hear about every performer, register watchers on it to watch
// every performer, or reset it to reset every performer.
func (r *Registry) Aggregate() *Performer { return r.aggregate }

// GetOrCreate returns the performer with the given id, creating it if
// the Registry has never seen the id.
func (r *Registry) GetOrCreate(id PerformerID) *Performer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if performer, ok := r.performers[id]; ok {
		return performer
	}
	performer := r.newPerformer(id)
	r.performers[id] = performer
	return performer
}

// Get returns the performer with the given id, if it exists.
func (r *Registry) Get(id PerformerID) (*Performer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	performer, ok := r.performers[id]
	return performer, ok
}

// Find returns the performers matching the predicate, sorted by id.
// The aggregate performer is a candidate like any other; filter it
// with [Performer.IsAggregate] when it should not count.
//
// The predicate runs while the Registry's lock is held and must not
// call GetOrCreate, Find, or reset the aggregate performer. Reading
// the candidate (VideoState, Tags, Snapshot, ...) is fine.
func (r *Registry) Find(predicate func(*Performer) bool) []*Performer {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*Performer
	for _, performer := range r.performers {
		if predicate(performer) {
			matched = append(matched, performer)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].id < matched[j].id
	})
	return matched
}

// newPerformer constructs a performer owned by this Registry. Caller
// is responsible for inserting it into r.performers.
func (r *Registry) newPerformer(id PerformerID) *Performer {
	return &Performer{
		id:       id,
		registry: r,
		bus:      eventbus.New(),
		tags:     make(map[string]struct{}),
		sessions: make(map[SessionID]Session),
		watchers: make(map[WatcherHandle]*watcher),
	}
}

// concreteLocked returns every non-aggregate performer sorted by id.
// Caller holds r.mu.
func (r *Registry) concreteLocked() []*Performer {
	performers := make([]*Performer, 0, len(r.performers)-1)
	for id, performer := range r.performers {
		if id == AggregateID {
			continue
		}
		performers = append(performers, performer)
	}
	sort.Slice(performers, func(i, j int) bool {
		return performers[i].id < performers[j].id
	})
	return performers
}
