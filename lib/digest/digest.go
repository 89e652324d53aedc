// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 digest.
type Digest [32]byte

// domainKey is a 32-byte key for BLAKE3 keyed hashing. Domain
// separation ensures that the same input bytes produce different
// digests in different contexts, preventing cross-domain collisions.
type domainKey [32]byte

// Domain separation keys: the ASCII domain name, zero-padded to 32
// bytes. These are fixed constants — changing them invalidates every
// recorded digest in that domain.
var (
	snapshotDomainKey = domainKey{
		's', 't', 'a', 'g', 'e', 'd', 'o', 'o', 'r', '.', 's', 'n', 'a', 'p', 's', 'h',
		'o', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	transcriptDomainKey = domainKey{
		's', 't', 'a', 'g', 'e', 'd', 'o', 'o', 'r', '.', 't', 'r', 'a', 'n', 's', 'c',
		'r', 'i', 'p', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
)

// Snapshot computes the snapshot-domain digest of an encoded registry
// export. Two runs that reach the same state produce the same snapshot
// digest because the export encoding is deterministic.
func Snapshot(encoded []byte) Digest {
	return keyedHash(snapshotDomainKey, encoded)
}

// Transcript computes the transcript-domain digest of raw transcript
// bytes, identifying the exact input a replay consumed.
func Transcript(raw []byte) Digest {
	return keyedHash(transcriptDomainKey, raw)
}

// Format returns the hex-encoded string representation of a digest.
// This is the canonical format used in logs and CLI output.
func Format(d Digest) string {
	return hex.EncodeToString(d[:])
}

// Parse parses a 64-character hex string into a Digest.
func Parse(hexString string) (Digest, error) {
	var d Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return d, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != 32 {
		return d, fmt.Errorf("digest is %d bytes, want 32", len(decoded))
	}
	copy(d[:], decoded)
	return d, nil
}

// keyedHash computes BLAKE3 keyed hash with the given domain key.
func keyedHash(key domainKey, data []byte) Digest {
	// NewKeyed fails only for a wrong key length, which domainKey
	// rules out.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("digest: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var d Digest
	copy(d[:], hasher.Sum(nil))
	return d
}
