// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package includetrace reconstructs header-inclusion timelines from clang
// -ftime-trace output.
//
// Each trace is reduced to a Unit: a flat list of Intervals, one per header
// the compiler entered. Intervals are annotated with their nesting, either the
// full ancestor chain or only the nearest parent, and with self time, the part
// of their duration not covered by directly nested headers.
package includetrace

import (
	"math"
)

// Mode selects which nesting representation BuildHierarchy computes.
type Mode int

const (
	// FullAncestorMode fills Interval.Chain.
	FullAncestorMode Mode = iota + 1
	// NearestParentMode fills Interval.Parent.
	NearestParentMode
)

func (m Mode) String() string {
	switch m {
	case FullAncestorMode:
		return "full-ancestor"
	case NearestParentMode:
		return "nearest-parent"
	}
	return "unset"
}

// Interval is one header inclusion, in trace clock units.
type Interval struct {
	// File is the header path taken from the begin event.
	File string
	Start int64
	End   int64
	// Index is the position of the Interval in its Unit. It breaks ties
	// between Intervals with identical bounds.
	Index int

	// Chain lists every containing Interval from the outermost in, ending
	// with the Interval itself. Only set in FullAncestorMode.
	Chain []*Interval
	// Parent is the innermost containing Interval, or nil for a root. Only
	// set in NearestParentMode.
	Parent *Interval
	// Self is Duration minus the durations of directly nested Intervals.
	Self int64
}

// Duration returns End - Start.
func (iv *Interval) Duration() int64 { return iv.End - iv.Start }

// Contains reports whether other lies within iv, bounds inclusive. An
// Interval contains itself.
func (iv *Interval) Contains(other *Interval) bool {
	return iv.Start <= other.Start && iv.End >= other.End
}

// overlaps reports a partial overlap: the Intervals share time but neither
// contains the other.
func (iv *Interval) overlaps(other *Interval) bool {
	return iv.Start < other.End && other.Start < iv.End && !iv.Contains(other) && !other.Contains(iv)
}

// Unit is the processed trace of one compilation.
type Unit struct {
	Name      string
	Intervals []*Interval
	// BuildTime is the compiler's total duration, when the trace records one.
	BuildTime    int64
	HasBuildTime bool
	// Mode is the representation BuildHierarchy last computed.
	Mode Mode
	// Diagnostics collects the *MalformedTraceError values found while
	// processing. It is nil for a well-formed trace.
	Diagnostics error
}

// Empty reports whether u has no Intervals.
func (u *Unit) Empty() bool { return len(u.Intervals) == 0 }

// MaxEnd returns the largest End of u, or 0 for an empty Unit.
func (u *Unit) MaxEnd() int64 {
	var end int64
	for i, iv := range u.Intervals {
		if i == 0 || iv.End > end {
			end = iv.End
		}
	}
	return end
}

// Clock converts trace clock units to milliseconds.
type Clock struct {
	// UnitsPerMillisecond is the number of trace clock units in one
	// millisecond. Clang traces count microseconds.
	UnitsPerMillisecond float64
}

// DefaultUnitsPerMillisecond matches clang's microsecond timestamps.
const DefaultUnitsPerMillisecond = 1000

// DefaultClock is the clock of clang traces.
var DefaultClock = Clock{UnitsPerMillisecond: DefaultUnitsPerMillisecond}

// Milliseconds converts v to milliseconds. A zero clock is treated as
// DefaultClock.
func (c Clock) Milliseconds(v int64) float64 {
	if c.UnitsPerMillisecond <= 0 {
		c = DefaultClock
	}
	return float64(v) / c.UnitsPerMillisecond
}

// RoundMilliseconds converts v to milliseconds, rounding half away from zero.
func (c Clock) RoundMilliseconds(v int64) int64 {
	return int64(math.Round(c.Milliseconds(v)))
}

// ByStart orders Intervals by start ascending, then end descending, then
// Index. Under this order every Interval comes after all of its containers.
type ByStart []*Interval

func (s ByStart) Len() int           { return len(s) }
func (s ByStart) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s ByStart) Less(i, j int) bool { return startsBefore(s[i], s[j]) }

func startsBefore(a, b *Interval) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	if a.End != b.End {
		return a.End > b.End
	}
	return a.Index < b.Index
}
