// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Stagedoor's standard CBOR encoding
// configuration.
//
// Stagedoor uses two serialization formats with a clear boundary:
//
//   - JSON for the platform's wire vocabulary: decoded update payloads
//     (wire.Payload), transcript lines, and scenario files.
//   - CBOR for internal artifacts: snapshot exports, on-disk state,
//     and anything a digest is computed over.
//
// This package provides the shared CBOR encoding and decoding modes so
// that every Stagedoor package encodes identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding
// (RFC 8949 §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes — two registries holding the same state export byte-identical
// snapshots regardless of merge order.
//
// For buffer-oriented operations (snapshot files, digests):
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations:
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
//
// # Struct Tag Rules
//
// The struct tag on a type documents its serialization format:
//
//   - `cbor` tag: this type is ONLY ever serialized as CBOR. It will
//     never be marshaled to JSON or interact with CLI tooling.
//     Examples: state.RegistryExport and the other snapshot types.
//   - `json` tag: this type may be serialized as BOTH JSON and CBOR.
//     fxamacker/cbor v2 reads `json` tags as fallback when `cbor`
//     tags are absent, so a single `json` tag controls field naming
//     and omitempty for both formats. Example: the scenario types.
//
// Never use both `cbor` and `json` tags on the same field. The tag
// choice documents the contract — doubling up is noise that obscures
// whether a type participates in JSON serialization.
package codec
