// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package includetrace

import (
	"github.com/google/btree"

	"go.fuchsia.dev/includetrace/tools/build/chrometrace"
)

// Event names clang uses for header processing and for the whole compiler
// invocation.
const (
	DefaultHeaderEvent = "Source"
	DefaultBuildEvent  = "ExecuteCompiler"
)

// MatchOptions selects the events Match pairs.
type MatchOptions struct {
	// HeaderEvent is the name of header begin/end markers.
	HeaderEvent string
	// HeaderCategory, if set, additionally restricts header markers to one
	// category.
	HeaderCategory string
	// BuildEvent is the name of the event spanning the whole compilation.
	BuildEvent string
}

func (o MatchOptions) withDefaults() MatchOptions {
	if o.HeaderEvent == "" {
		o.HeaderEvent = DefaultHeaderEvent
	}
	if o.BuildEvent == "" {
		o.BuildEvent = DefaultBuildEvent
	}
	return o
}

func (o MatchOptions) isHeader(e *chrometrace.Event) bool {
	return e.Name == o.HeaderEvent && (o.HeaderCategory == "" || e.Category == o.HeaderCategory)
}

type poolKey struct {
	pid, tid int
	id       chrometrace.ID
}

// pendingEnd is an unconsumed end marker. seq keeps ends with equal
// timestamps distinct and ordered by arrival.
type pendingEnd struct {
	ts  int64
	seq int
}

func lessEnd(a, b pendingEnd) bool {
	if a.ts != b.ts {
		return a.ts < b.ts
	}
	return a.seq < b.seq
}

// Match pairs header begin and end markers into Intervals.
//
// End markers are pooled by (pid, tid, id). Begin markers are visited in
// input order and each claims the earliest remaining end of its pool whose
// timestamp is strictly after its own. Begins without such an end and ends
// never claimed are dropped. A begin needs a non-empty detail naming the
// header; an end's detail is ignored.
//
// Correlation ids are reused by clang, so this pairing is a heuristic. It can
// produce partially overlapping Intervals, which BuildHierarchy reports.
func Match(events []chrometrace.Event, opts MatchOptions) []*Interval {
	opts = opts.withDefaults()

	pools := map[poolKey]*btree.BTreeG[pendingEnd]{}
	for i := range events {
		e := &events[i]
		if !opts.isHeader(e) || !e.IsEnd() {
			continue
		}
		k := poolKey{pid: e.ProcessID, tid: e.ThreadID, id: e.ID}
		pool, ok := pools[k]
		if !ok {
			pool = btree.NewG(8, lessEnd)
			pools[k] = pool
		}
		pool.ReplaceOrInsert(pendingEnd{ts: int64(e.TimestampMicros), seq: i})
	}

	var intervals []*Interval
	for i := range events {
		e := &events[i]
		if !opts.isHeader(e) || !e.IsBegin() {
			continue
		}
		file, ok := e.Detail()
		if !ok || file == "" {
			continue
		}
		pool, ok := pools[poolKey{pid: e.ProcessID, tid: e.ThreadID, id: e.ID}]
		if !ok {
			continue
		}
		start := int64(e.TimestampMicros)
		end, found := pendingEnd{}, false
		pool.AscendGreaterOrEqual(pendingEnd{ts: start + 1, seq: -1}, func(p pendingEnd) bool {
			end, found = p, true
			return false
		})
		if !found {
			continue
		}
		pool.Delete(end)
		intervals = append(intervals, &Interval{
			File:  file,
			Start: start,
			End:   end.ts,
			Index: len(intervals),
		})
	}
	return intervals
}

// BuildTime returns the duration of the build event: the dur of a complete
// event, or the span from the first begin to the earliest end after it.
func BuildTime(events []chrometrace.Event, opts MatchOptions) (int64, bool) {
	opts = opts.withDefaults()

	var (
		begin    int64
		hasBegin bool
	)
	for i := range events {
		e := &events[i]
		if e.Name != opts.BuildEvent {
			continue
		}
		switch {
		case e.Phase == chrometrace.CompleteEvent:
			return int64(e.DurationMicros), true
		case e.IsBegin() && !hasBegin:
			begin, hasBegin = int64(e.TimestampMicros), true
		}
	}
	if !hasBegin {
		return 0, false
	}
	var (
		end    int64
		hasEnd bool
	)
	for i := range events {
		e := &events[i]
		if e.Name != opts.BuildEvent || !e.IsEnd() {
			continue
		}
		if ts := int64(e.TimestampMicros); ts >= begin && (!hasEnd || ts < end) {
			end, hasEnd = ts, true
		}
	}
	if !hasEnd {
		return 0, false
	}
	return end - begin, true
}
