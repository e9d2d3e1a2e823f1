// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package includetrace

// ComputeSelfTimes sets Self on every Interval of u: its duration minus the
// durations of its direct children. j is a direct child of i when i contains
// j and no third Interval contained by i also contains j.
//
// The result does not depend on the Mode last passed to BuildHierarchy.
// Negative self times are kept as computed and recorded on u.Diagnostics.
func ComputeSelfTimes(u *Unit) {
	n := analyze(u.Intervals)
	for _, iv := range u.Intervals {
		iv.Self = iv.Duration()
	}
	if n.swept() {
		for j, p := range n.parent {
			if p >= 0 {
				u.Intervals[p].Self -= u.Intervals[j].Duration()
			}
		}
	} else {
		for j, containers := range n.containers {
			for _, i := range containers {
				if n.directChild(i, j) {
					u.Intervals[i].Self -= u.Intervals[j].Duration()
				}
			}
		}
	}

	d := &diagnostics{unit: u.Name, kind: NegativeSelfTime}
	for _, iv := range u.Intervals {
		if iv.Self < 0 {
			d.add(iv, iv.Self)
		}
	}
	d.store(u)
}

// directChild reports whether no other container of j lies within i. i must
// be one of j's containers.
func (n *nesting) directChild(i, j int) bool {
	outer := n.intervals[i]
	for _, m := range n.containers[j] {
		if m != i && outer.Contains(n.intervals[m]) {
			return false
		}
	}
	return true
}
