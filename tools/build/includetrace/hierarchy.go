// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package includetrace

import (
	"sort"
)

// nesting is the containment structure of one Unit's Intervals, indexed by
// position in Unit.Intervals.
//
// For a laminar Unit without duplicate bounds, parent alone describes the
// forest. Otherwise containers holds, for every Interval, every other
// Interval containing it, found by comparing all pairs.
type nesting struct {
	intervals  []*Interval
	parent     []int
	containers [][]int
	// overlaps lists partially overlapping pairs; only set by the quadratic
	// path.
	overlaps [][2]int
}

func (n *nesting) swept() bool { return n.containers == nil }

// analyze computes the nesting of intervals. A sweep in ByStart order with a
// stack of open containers finds every Interval's innermost container in
// O(n log n). The sweep is only trusted when it cannot have missed a
// container; anything else falls back to the pairwise definition.
func analyze(intervals []*Interval) *nesting {
	if parent, ok := sweep(intervals); ok {
		return &nesting{intervals: intervals, parent: parent}
	}
	return quadratic(intervals)
}

// sweep returns each Interval's innermost container, and false if the input
// has a partial overlap, two Intervals with identical bounds, or a
// zero-length Interval at a point where a container closed as a sibling
// opened. Those are the cases where popping the stack can drop a container
// that is still valid for a later Interval.
func sweep(intervals []*Interval) ([]int, bool) {
	n := len(intervals)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return startsBefore(intervals[order[a]], intervals[order[b]])
	})

	parent := make([]int, n)
	var stack []int
	// closedAt holds the points where a container was popped by an Interval
	// starting exactly at its end.
	closedAt := map[int64]bool{}
	for k, i := range order {
		cur := intervals[i]
		if k > 0 {
			prev := intervals[order[k-1]]
			if prev.Start == cur.Start && prev.End == cur.End {
				return nil, false
			}
		}
		for len(stack) > 0 {
			top := intervals[stack[len(stack)-1]]
			if top.End >= cur.End {
				break
			}
			if top.End > cur.Start {
				return nil, false
			}
			if top.End == cur.Start {
				closedAt[top.End] = true
			}
			stack = stack[:len(stack)-1]
		}
		if cur.Start == cur.End && closedAt[cur.Start] {
			return nil, false
		}
		parent[i] = -1
		if len(stack) > 0 {
			parent[i] = stack[len(stack)-1]
		}
		stack = append(stack, i)
	}
	return parent, true
}

// quadratic compares every pair of Intervals.
func quadratic(intervals []*Interval) *nesting {
	n := &nesting{
		intervals:  intervals,
		containers: make([][]int, len(intervals)),
	}
	for i, iv := range intervals {
		for j, other := range intervals {
			if i == j {
				continue
			}
			if other.Contains(iv) {
				n.containers[i] = append(n.containers[i], j)
			} else if j > i && iv.overlaps(other) {
				n.overlaps = append(n.overlaps, [2]int{i, j})
			}
		}
	}
	return n
}

// chain returns the containers of i outermost first, followed by i.
func (n *nesting) chain(i int) []*Interval {
	var chain []*Interval
	if n.swept() {
		for j := i; j >= 0; j = n.parent[j] {
			chain = append(chain, n.intervals[j])
		}
		for l, r := 0, len(chain)-1; l < r; l, r = l+1, r-1 {
			chain[l], chain[r] = chain[r], chain[l]
		}
		return chain
	}
	for _, j := range n.containers[i] {
		chain = append(chain, n.intervals[j])
	}
	sort.Sort(ByStart(chain))
	return append(chain, n.intervals[i])
}

// nearest returns the container of i with the smallest duration, the lower
// Index winning ties, or -1.
func (n *nesting) nearest(i int) int {
	if n.swept() {
		return n.parent[i]
	}
	best := -1
	for _, j := range n.containers[i] {
		if best < 0 {
			best = j
			continue
		}
		c, b := n.intervals[j], n.intervals[best]
		if c.Duration() < b.Duration() || (c.Duration() == b.Duration() && c.Index < b.Index) {
			best = j
		}
	}
	return best
}

// BuildHierarchy links every Interval of u to its containers. In
// FullAncestorMode each Interval gets its Chain; in NearestParentMode its
// Parent. The other representation is cleared. Partially overlapping
// Intervals are recorded on u.Diagnostics.
func BuildHierarchy(u *Unit, mode Mode) {
	n := analyze(u.Intervals)
	for i, iv := range u.Intervals {
		iv.Chain, iv.Parent = nil, nil
		switch mode {
		case FullAncestorMode:
			iv.Chain = n.chain(i)
		case NearestParentMode:
			if p := n.nearest(i); p >= 0 {
				iv.Parent = u.Intervals[p]
			}
		}
	}
	u.Mode = mode

	d := &diagnostics{unit: u.Name, kind: NonLaminar}
	for _, pair := range n.overlaps {
		d.add(u.Intervals[pair[0]], u.Intervals[pair[1]].File)
	}
	d.store(u)
}
