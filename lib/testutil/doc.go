// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Stagedoor packages.
//
// [Collector] records events delivered through a bus subscription so
// tests can assert on counts and contents after the fact.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that individual
// tests do not need direct time.After calls. These are the only place
// in the test suite where real wall-clock timeouts are used; tests
// that need controllable time inject lib/clock's FakeClock instead.
//
// [WriteFile] writes fixture files (scenarios, transcripts) into a
// test's temporary directory.
//
// The Require helpers call t.Fatalf on failure rather than returning
// errors, since test setup failures are not recoverable.
//
// This package has no Stagedoor-internal dependencies.
package testutil
