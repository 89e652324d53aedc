// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest computes domain-separated BLAKE3 digests over
// Stagedoor artifacts.
//
// Two domains exist: snapshot digests identify an encoded registry
// export, transcript digests identify the raw bytes a replay consumed.
// The same bytes hashed in different domains produce different
// digests, so a transcript digest can never be mistaken for the
// snapshot digest of a run over it.
//
// Snapshot digests are only meaningful because lib/codec encodes
// exports deterministically; pair the two when comparing runs.
package digest
