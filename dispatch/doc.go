// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

// Package dispatch connects decoded server traffic to the state
// registry and provides the replay inputs the stagedoor-replay command
// consumes.
//
// [Dispatcher] is the boundary between untrusted data and the state
// engine: the engine panics on malformed input because its callers are
// supposed to have validated it, and the Dispatcher is that caller. It
// rejects payloads without a performer id and quietly drops payloads
// about non-performer accounts instead of panicking.
//
// [Ledger] subscribes to the aggregate performer's bus and keeps a
// fixed-capacity ring of recent notifications with monotonic sequence
// numbers, so a consumer that went away can ask for "everything since
// sequence N" and detect gaps.
//
// [Scenario] and [TranscriptReader] are the two replay input formats:
// scenarios are hand-written JSONC scripts of update/tags/reset steps,
// transcripts are captured JSONL payload streams, optionally
// zstd-compressed.
package dispatch
