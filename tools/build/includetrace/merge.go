// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package includetrace

// Placement is an Interval moved onto the merged timeline.
type Placement struct {
	Unit     *Unit
	Interval *Interval
	Start    int64
	End      int64
}

// Merge lays units end to end on one timeline, in order. Each Unit is shifted
// by the sum of the maximum end times of the non-empty Units before it, so
// the shift does not depend on where a Unit's first Interval starts. Empty
// Units are skipped and do not move the offset. Intervals are not modified.
func Merge(units []*Unit) []Placement {
	var (
		placements []Placement
		offset     int64
	)
	for _, u := range units {
		if u.Empty() {
			continue
		}
		for _, iv := range u.Intervals {
			placements = append(placements, Placement{
				Unit:     u,
				Interval: iv,
				Start:    iv.Start + offset,
				End:      iv.End + offset,
			})
		}
		offset += u.MaxEnd()
	}
	return placements
}

// Place returns the Intervals of u at their own times, the single-Unit
// counterpart of Merge.
func Place(u *Unit) []Placement {
	placements := make([]Placement, 0, len(u.Intervals))
	for _, iv := range u.Intervals {
		placements = append(placements, Placement{Unit: u, Interval: iv, Start: iv.Start, End: iv.End})
	}
	return placements
}
