// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stagedoor-live/stagedoor/state"
	"github.com/stagedoor-live/stagedoor/wire"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// onlinePayload builds the minimal payload that puts a performer's
// session into free chat.
func onlinePayload(performer state.PerformerID, session state.SessionID) wire.Payload {
	return wire.Payload{
		wire.FieldSessionID:   int64(session),
		wire.FieldPerformerID: int64(performer),
		wire.FieldVideoState:  wire.VideoFreeChat,
	}
}

func mustPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		recovered := recover()
		if recovered == nil {
			t.Fatalf("expected panic containing %q, got none", want)
		}
		message := fmt.Sprint(recovered)
		if !strings.Contains(message, want) {
			t.Fatalf("panic %q does not contain %q", message, want)
		}
	}()
	fn()
}
