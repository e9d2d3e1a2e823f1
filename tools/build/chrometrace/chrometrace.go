// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package chrometrace contains utilities for working with Chrome traces.
package chrometrace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Event is an entry of the trace event format.
//
// https://docs.google.com/document/d/1CvAClvFfyA5R-PhYUmn5OOQtYMH4h6I0nSsKchNAySU
type Event struct {
	Name            string                 `json:"name"`
	Category        string                 `json:"cat,omitempty"`
	Phase           string                 `json:"ph"`
	TimestampMicros Micros                 `json:"ts"`
	DurationMicros  Micros                 `json:"dur,omitempty"`
	ProcessID       int                    `json:"pid"`
	ThreadID        int                    `json:"tid"`
	ID              ID                     `json:"id,omitempty"`
	Args            map[string]interface{} `json:"args,omitempty"`
}

// Event phases understood by this package.
const (
	BeginEvent      = "B"
	EndEvent        = "E"
	CompleteEvent   = "X"
	AsyncBeginEvent = "b"
	AsyncEndEvent   = "e"
	InstantEvent    = "i"
	MetadataEvent   = "M"
	FlowEventStart  = "s"
	FlowEventEnd    = "f"
)

// IsBegin reports whether e opens a duration, synchronous or async.
func (e *Event) IsBegin() bool {
	return e.Phase == BeginEvent || e.Phase == AsyncBeginEvent
}

// IsEnd reports whether e closes a duration, synchronous or async.
func (e *Event) IsEnd() bool {
	return e.Phase == EndEvent || e.Phase == AsyncEndEvent
}

// Detail returns the "detail" argument of e and whether it was a string.
func (e *Event) Detail() (string, bool) {
	v, ok := e.Args["detail"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Micros is a trace timestamp or duration. Producers disagree on whether
// these are integers, so fractional values are accepted and rounded.
type Micros int64

func (m *Micros) UnmarshalJSON(b []byte) error {
	if n, err := strconv.ParseInt(string(b), 10, 64); err == nil {
		*m = Micros(n)
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid trace time %s: %w", b, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid trace time %s", b)
	}
	*m = Micros(math.Round(f))
	return nil
}

// ID correlates async begin and end events. It may be written as a number,
// a decimal string or a hex string.
type ID uint64

func (i *ID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*i = 0
		return nil
	}
	if quote := []byte{'"'}; bytes.HasPrefix(b, quote) && bytes.HasSuffix(b, quote) {
		b = bytes.TrimPrefix(b, quote)
		b = bytes.TrimSuffix(b, quote)
	}

	if hexPrefix := []byte{'0', 'x'}; bytes.HasPrefix(b, hexPrefix) {
		n, err := strconv.ParseUint(string(bytes.TrimPrefix(b, hexPrefix)), 16, 64)
		if err != nil {
			return fmt.Errorf("invalid event id %q: %w", b, err)
		}
		*i = ID(n)
		return nil
	}

	n, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid event id %q: %w", b, err)
	}
	*i = ID(n)
	return nil
}

// MarshalJSON writes the id as a plain number.
func (i ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(uint64(i))
}
