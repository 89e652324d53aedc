// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import "fmt"

// Payload field names. The server protocol uses short keys; these
// constants are the only place the raw spellings appear.
const (
	// FieldSessionID is the session identifier a payload targets.
	// Payloads without it address the default session (id 0).
	FieldSessionID = "sid"

	// FieldPerformerID is the id of the performer the payload is
	// about.
	FieldPerformerID = "pid"

	// FieldVideoState is the session's broadcast state, one of the
	// [VideoState] values.
	FieldVideoState = "vs"

	// FieldRank is the performer's popularity rank within a session.
	FieldRank = "rank"

	// FieldDisplayName is the performer's public display name.
	FieldDisplayName = "name"

	// FieldLevel is the producer level of the account the payload
	// describes, one of the [Level] values.
	FieldLevel = "lv"

	// FieldFlags is the session option bitmask, a combination of
	// [SessionFlag] bits.
	FieldFlags = "flags"
)

// Group field names. The server nests some session properties one
// level deep under these keys; the merge engine flattens them into the
// session alongside top-level fields.
const (
	GroupUser      = "u"
	GroupPerformer = "m"
	GroupSession   = "s"
)

// IsGroup reports whether field is one of the group keys whose
// sub-object is flattened during a merge.
func IsGroup(field string) bool {
	return field == GroupUser || field == GroupPerformer || field == GroupSession
}

// VideoState is a session's broadcast state. A session whose video
// state is VideoOffline is dead weight and gets purged after every
// merge; every other state counts as live.
type VideoState int64

const (
	// VideoFreeChat is a public broadcast anyone can watch.
	VideoFreeChat VideoState = 0

	// VideoAway means the performer is broadcasting but marked away.
	VideoAway VideoState = 2

	// VideoPrivate is a private show.
	VideoPrivate VideoState = 12

	// VideoGroup is a group show.
	VideoGroup VideoState = 13

	// VideoOnline means the performer is logged in but not
	// broadcasting.
	VideoOnline VideoState = 90

	// VideoOffline means the session is gone. This is the default
	// state for sessions the engine has no information about.
	VideoOffline VideoState = 127
)

// String returns a short lowercase name for logging.
func (s VideoState) String() string {
	switch s {
	case VideoFreeChat:
		return "free_chat"
	case VideoAway:
		return "away"
	case VideoPrivate:
		return "private"
	case VideoGroup:
		return "group_show"
	case VideoOnline:
		return "online"
	case VideoOffline:
		return "offline"
	default:
		return fmt.Sprintf("video_state(%d)", int64(s))
	}
}

// SessionFlag is a bit in the session option bitmask carried by
// [FieldFlags]. The merge engine decodes the bits it understands into
// derived session fields; unknown bits are preserved in the raw mask.
type SessionFlag int64

const (
	// FlagTruePrivate marks a private show as a true private: no
	// spying allowed.
	FlagTruePrivate SessionFlag = 1 << 3

	// FlagOfficialSoftware marks a session established by the
	// platform's own broadcast software rather than a third-party
	// client. Official sessions outrank unofficial ones when the
	// engine selects the best session.
	FlagOfficialSoftware SessionFlag = 1 << 11

	// FlagGuestsMuted means guests cannot chat in this session.
	FlagGuestsMuted SessionFlag = 1 << 12

	// FlagBasicsMuted means non-premium members cannot chat in this
	// session.
	FlagBasicsMuted SessionFlag = 1 << 13
)

// Has reports whether flag's bits are all set in s.
func (s SessionFlag) Has(flag SessionFlag) bool {
	return s&flag == flag
}

// Level is the producer level of an account. The state engine only
// accepts payloads about performer-level accounts; a payload that
// declares any other level is a routing error upstream.
type Level int64

const (
	LevelGuest     Level = 0
	LevelMember    Level = 1
	LevelPremium   Level = 2
	LevelPerformer Level = 4
	LevelAdmin     Level = 5
)

// String returns a short lowercase name for logging.
func (l Level) String() string {
	switch l {
	case LevelGuest:
		return "guest"
	case LevelMember:
		return "member"
	case LevelPremium:
		return "premium"
	case LevelPerformer:
		return "performer"
	case LevelAdmin:
		return "admin"
	default:
		return fmt.Sprintf("level(%d)", int64(l))
	}
}
