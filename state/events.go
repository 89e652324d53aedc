// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	eventbus "github.com/jilio/ebu"

	"github.com/stagedoor-live/stagedoor/wire"
)

// Events publish synchronously on the goroutine that performed the
// merge, while the performer's lock (and, for mirrored delivery, the
// aggregate's lock ordering guarantee) is in effect. Handlers must
// return quickly and must not call back into the engine; see the
// package documentation.

// PropertyChanged reports one property whose value changed in a
// visible merge. Before is the value from the pre-merge best session
// (nil when the property was absent); After is the value written by
// the payload (nil when the property was implicitly cleared by a
// session switch). Derived flag fields never produce PropertyChanged
// events.
type PropertyChanged struct {
	Performer Snapshot
	Name      string
	Before    any
	After     any
}

// Update is the catch-all notification: exactly one per visible merge,
// carrying the raw payload, emitted after the per-property events.
type Update struct {
	Performer Snapshot
	Payload   wire.Payload
}

// TagsChanged reports a tag merge. Before and After are sorted copies
// of the tag set around the merge; they are equal when the merge
// introduced no new tags — tag merges always notify.
type TagsChanged struct {
	Performer Snapshot
	Before    []string
	After     []string
}

// publish delivers an event to the performer's own bus and mirrors it
// to the aggregate performer's bus. Events on the aggregate itself
// deliver to its bus twice, preserving the mirror contract literally.
func publish[T any](p *Performer, event T) {
	eventbus.Publish(p.bus, event)
	eventbus.Publish(p.registry.aggregate.bus, event)
}
