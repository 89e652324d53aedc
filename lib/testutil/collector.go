// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import "sync"

// Collector accumulates values of one type, typically by subscribing
// its Add method to an event bus. The zero value is ready to use.
//
// Bus handlers run synchronously on the publishing goroutine, so the
// mutex only matters when events arrive from several goroutines at
// once.
type Collector[T any] struct {
	mu     sync.Mutex
	events []T
}

// Add records one value. Subscribe this method to a bus.
func (c *Collector[T]) Add(event T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// All returns a copy of the recorded values in arrival order.
func (c *Collector[T]) All() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	events := make([]T, len(c.events))
	copy(events, c.events)
	return events
}

// Count returns the number of recorded values.
func (c *Collector[T]) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// Reset discards the recorded values.
func (c *Collector[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}
