// Copyright 2026 The Stagedoor Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
)

// Payload is a decoded server update: a dynamic property bag keyed by
// the Field constants. Values are in canonical form when the payload
// came through [DecodePayload]; payloads built in Go code may carry
// any scalar types, and the engine canonicalizes values as it stores
// them.
type Payload map[string]any

// DecodePayload parses a single JSON object into a Payload. Numbers
// decode to int64 when integral and float64 otherwise, nested objects
// decode to Payload, and strings that are exactly a percent-encoded
// form are decoded via [Unquote]. Trailing data after the object is an
// error.
func DecodePayload(data []byte) (Payload, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("decoding payload: trailing data after JSON object")
	}

	payload := make(Payload, len(raw))
	for field, value := range raw {
		payload[field] = canonicalValue(value, true)
	}
	return payload, nil
}

// UnmarshalJSON decodes a JSON object through [DecodePayload], giving
// struct fields of type Payload the same number and string
// normalization as top-level decoding.
func (p *Payload) UnmarshalJSON(data []byte) error {
	payload, err := DecodePayload(data)
	if err != nil {
		return err
	}
	*p = payload
	return nil
}

// SessionID returns the session id the payload targets, if present.
func (p Payload) SessionID() (int64, bool) {
	return p.Int64(FieldSessionID)
}

// PerformerID returns the performer id the payload is about, if
// present.
func (p Payload) PerformerID() (int64, bool) {
	return p.Int64(FieldPerformerID)
}

// Level returns the producer level the payload declares, if present
// and integral.
func (p Payload) Level() (Level, bool) {
	value, ok := p.Int64(FieldLevel)
	return Level(value), ok
}

// VideoState returns the video state the payload carries, if present
// and integral.
func (p Payload) VideoState() (VideoState, bool) {
	value, ok := p.Int64(FieldVideoState)
	return VideoState(value), ok
}

// Int64 returns the named field as an int64. Missing fields and
// values that are not integral numbers report false.
func (p Payload) Int64(field string) (int64, bool) {
	value, ok := p[field]
	if !ok {
		return 0, false
	}
	return AsInt64(value)
}

// String returns the named field as a string. Missing fields and
// non-string values report false.
func (p Payload) String(field string) (string, bool) {
	value, ok := p[field].(string)
	return value, ok
}

// AsInt64 converts value to int64 when it holds an integral number in
// any of the representations a payload can carry.
func AsInt64(value any) (int64, bool) {
	number, ok := Canonical(value).(int64)
	return number, ok
}

// Canonical collapses value into the canonical payload representation:
// int64 for integral numbers (including the named integer types of
// this package and integral float64), float64 for fractional numbers,
// string, bool, nil, []any, and Payload for maps. Values of other
// types pass through unchanged. Maps and slices are copied, not
// aliased.
func Canonical(value any) any {
	return canonicalValue(value, false)
}

// canonicalValue implements Canonical. When unquote is set, strings
// additionally go through Unquote; that only happens on the decode
// path, never when canonicalizing values built in Go code.
func canonicalValue(value any, unquote bool) any {
	switch v := value.(type) {
	case nil:
		return nil
	case bool:
		return v
	case string:
		if unquote {
			return Unquote(v)
		}
		return v
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int16:
		return int64(v)
	case int8:
		return int64(v)
	case uint:
		return canonicalUint(uint64(v))
	case uint64:
		return canonicalUint(v)
	case uint32:
		return int64(v)
	case uint16:
		return int64(v)
	case uint8:
		return int64(v)
	case float32:
		return canonicalFloat(float64(v))
	case float64:
		return canonicalFloat(v)
	case json.Number:
		if number, err := v.Int64(); err == nil {
			return number
		}
		if number, err := v.Float64(); err == nil {
			return canonicalFloat(number)
		}
		return v.String()
	case VideoState:
		return int64(v)
	case SessionFlag:
		return int64(v)
	case Level:
		return int64(v)
	case Payload:
		return canonicalMap(v, unquote)
	case map[string]any:
		return canonicalMap(v, unquote)
	case []any:
		values := make([]any, len(v))
		for i, item := range v {
			values[i] = canonicalValue(item, unquote)
		}
		return values
	default:
		return value
	}
}

func canonicalMap(raw map[string]any, unquote bool) Payload {
	payload := make(Payload, len(raw))
	for field, value := range raw {
		payload[field] = canonicalValue(value, unquote)
	}
	return payload
}

func canonicalUint(value uint64) any {
	if value <= math.MaxInt64 {
		return int64(value)
	}
	return float64(value)
}

// canonicalFloat folds integral floats into int64 so that a producer
// sending 90 and one sending 90.0 store the same value.
func canonicalFloat(value float64) any {
	if value == math.Trunc(value) && !math.IsInf(value, 0) &&
		value >= math.MinInt64 && value <= math.MaxInt64 {
		return int64(value)
	}
	return value
}

// Equal reports whether two payload values are the same after
// canonicalization. Scalars compare by value; slices and nested
// payloads compare structurally.
func Equal(a, b any) bool {
	a = Canonical(a)
	b = Canonical(b)

	switch left := a.(type) {
	case nil:
		return b == nil
	case bool:
		right, ok := b.(bool)
		return ok && left == right
	case int64:
		right, ok := b.(int64)
		return ok && left == right
	case float64:
		right, ok := b.(float64)
		return ok && left == right
	case string:
		right, ok := b.(string)
		return ok && left == right
	default:
		return reflect.DeepEqual(a, b)
	}
}
