// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import "testing"

func TestUnquote(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Nova", "Nova"},
		{"space", "Eva%20Sky", "Eva Sky"},
		{"plus untouched", "a+b", "a+b"},
		{"utf8", "%E3%83%A6%E3%82%AD", "ユキ"},
		{"symbols", "C%2B%2B%20%26%20Go", "C++ & Go"},
		{"embedded percent decodes", "50%25off", "50%off"},

		// Strings that are not exactly an encodeURIComponent output
		// must come back unchanged.
		{"bare percent", "100%", "100%"},
		{"truncated escape", "AB%2", "AB%2"},
		{"invalid hex", "AB%zz", "AB%zz"},
		{"lowercase hex not canonical", "Eva%2fSky", "Eva%2fSky"},
		{"literal byte encoded", "hi%21", "hi%21"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Unquote(tc.in); got != tc.want {
				t.Errorf("Unquote(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPercentEncodeMatchesLiteralSet(t *testing.T) {
	// The round-trip guard depends on percentEncode reproducing
	// encodeURIComponent exactly: alphanumerics and -_.!~*'() stay
	// bare, everything else becomes uppercase %XX.
	if got, want := percentEncode("A-z_0.9!~*'()"), "A-z_0.9!~*'()"; got != want {
		t.Errorf("literal set changed: got %q, want %q", got, want)
	}
	if got, want := percentEncode("a b/c"), "a%20b%2Fc"; got != want {
		t.Errorf("encoded form: got %q, want %q", got, want)
	}
}
