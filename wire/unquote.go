// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"net/url"
	"strings"
)

// Unquote undoes percent-encoding on strings the server encoded with
// the JavaScript encodeURIComponent convention. Display names arrive
// that way; ordinary strings must pass through untouched, so Unquote
// only accepts the decode when re-encoding the result reproduces the
// input byte for byte. Strings containing a literal percent sign that
// is not part of an encoding (like "100%") come back unchanged.
func Unquote(text string) string {
	if !strings.Contains(text, "%") {
		return text
	}
	decoded, err := url.PathUnescape(text)
	if err != nil || decoded == text {
		return text
	}
	if percentEncode(decoded) != text {
		return text
	}
	return decoded
}

const upperhex = "0123456789ABCDEF"

// percentEncode reproduces encodeURIComponent: every byte outside the
// literal set is emitted as %XX with uppercase hex.
func percentEncode(text string) string {
	var builder strings.Builder
	builder.Grow(len(text))
	for i := 0; i < len(text); i++ {
		b := text[i]
		if literalByte(b) {
			builder.WriteByte(b)
			continue
		}
		builder.WriteByte('%')
		builder.WriteByte(upperhex[b>>4])
		builder.WriteByte(upperhex[b&0xF])
	}
	return builder.String()
}

// literalByte reports whether encodeURIComponent leaves b bare.
func literalByte(b byte) bool {
	switch {
	case 'A' <= b && b <= 'Z', 'a' <= b && b <= 'z', '0' <= b && b <= '9':
		return true
	}
	switch b {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
