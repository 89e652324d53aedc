// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire defines the payload vocabulary shared by the Stagedoor
// state engine and everything that feeds it: the field names, video
// states, session flag bits, and producer levels that appear in server
// updates, plus the [Payload] type that carries a decoded update.
//
// A Payload is a dynamic property bag. The server never guarantees
// which fields are present, so consumers read fields through the typed
// accessors ([Payload.SessionID], [Payload.PerformerID],
// [Payload.Level]) and treat absence as "no information" rather than
// as an error.
//
// # Canonical values
//
// JSON decoding is ambiguous about numbers (encoding/json produces
// float64 by default) and different producers hand the engine values
// of different Go types for the same logical field. [Canonical]
// collapses that variety into a fixed set of types — int64 for
// integers (including integral floats), float64 for fractional
// numbers, string, bool, nil, []any, and nested Payload — so that
// value comparison is meaningful. [DecodePayload] applies the same
// canonicalization to raw JSON, with one addition: strings that are
// exactly a percent-encoded form are decoded via [Unquote].
//
// [Equal] compares two values in canonical form. The state engine uses
// it to suppress change notifications for writes that do not change
// the stored value.
package wire
