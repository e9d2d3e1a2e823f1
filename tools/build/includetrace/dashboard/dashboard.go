// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package dashboard serializes include hierarchies into a compact,
// column-oriented document for analytics front ends.
//
// Headers are replaced by ids into one file dictionary, with the most used
// files getting the smallest ids. Every Unit contributes four parallel arrays
// indexed by Interval: file id, start time as a delta from the previous
// Interval's start, duration, and the parent's file id. All times are whole
// milliseconds.
package dashboard

import (
	"fmt"
	"sort"

	"go.fuchsia.dev/includetrace/tools/build/includetrace"
)

// NoParent is the parent file id of a root Interval.
const NoParent = -1

// Version is the format version written in Metadata.
const Version = 1

// Document is the dashboard output.
type Document struct {
	Metadata         Metadata         `json:"metadata"`
	CompilationUnits CompilationUnits `json:"compilationUnits"`
	Files            []string         `json:"files"`
	Includes         Includes         `json:"includes"`
}

// Metadata summarizes the document.
type Metadata struct {
	Version          int   `json:"version"`
	CompilationUnits int   `json:"compilationUnitCount"`
	Includes         int   `json:"includeCount"`
	Files            int   `json:"fileCount"`
	TotalBuildTime   int64 `json:"totalBuildTime"`
}

// CompilationUnits lists Units by descending Interval count. A Unit whose
// trace records no build time has a build time of 0.
type CompilationUnits struct {
	Names      []string `json:"names"`
	BuildTimes []int64  `json:"buildTimes"`
}

// Includes holds, per Unit, parallel arrays indexed by Interval.
type Includes struct {
	FileIDs       [][]int   `json:"fileIds"`
	StartTimes    [][]int64 `json:"startTimes"`
	Durations     [][]int64 `json:"durations"`
	ParentFileIDs [][]int   `json:"parentFileIds"`
}

// Dictionary assigns dense ids to files by descending use.
type Dictionary struct {
	// Files is ordered by id.
	Files []string
	// Counts[id] is the number of uses of Files[id].
	Counts []int
	ids    map[string]int
}

// NewDictionary counts every Interval's file and, when it has a parent, the
// parent's file. Ties are broken by path.
func NewDictionary(units []*includetrace.Unit) *Dictionary {
	counts := map[string]int{}
	for _, u := range units {
		for _, iv := range u.Intervals {
			counts[iv.File]++
			if iv.Parent != nil {
				counts[iv.Parent.File]++
			}
		}
	}
	d := &Dictionary{ids: make(map[string]int, len(counts))}
	for f := range counts {
		d.Files = append(d.Files, f)
	}
	sort.Slice(d.Files, func(i, j int) bool {
		a, b := d.Files[i], d.Files[j]
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		return a < b
	})
	for id, f := range d.Files {
		d.ids[f] = id
		d.Counts = append(d.Counts, counts[f])
	}
	return d
}

// ID returns the id of file.
func (d *Dictionary) ID(file string) (int, bool) {
	id, ok := d.ids[file]
	return id, ok
}

// Build serializes units, which must have been built in NearestParentMode.
// Units without Intervals are left out.
func Build(units []*includetrace.Unit, clock includetrace.Clock) (*Document, error) {
	units = includetrace.NonEmpty(units)
	for _, u := range units {
		if u.Mode != includetrace.NearestParentMode {
			return nil, fmt.Errorf("%s: dashboard needs %v hierarchies, have %v", u.Name, includetrace.NearestParentMode, u.Mode)
		}
	}
	ordered := append([]*includetrace.Unit(nil), units...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Intervals) > len(ordered[j].Intervals)
	})

	dict := NewDictionary(ordered)
	doc := &Document{
		Metadata: Metadata{
			Version:          Version,
			CompilationUnits: len(ordered),
			Files:            len(dict.Files),
		},
		CompilationUnits: CompilationUnits{Names: []string{}, BuildTimes: []int64{}},
		Files:            append([]string{}, dict.Files...),
		Includes: Includes{
			FileIDs:       [][]int{},
			StartTimes:    [][]int64{},
			Durations:     [][]int64{},
			ParentFileIDs: [][]int{},
		},
	}
	for _, u := range ordered {
		var buildTime int64
		if u.HasBuildTime {
			buildTime = clock.RoundMilliseconds(u.BuildTime)
		}
		doc.CompilationUnits.Names = append(doc.CompilationUnits.Names, u.Name)
		doc.CompilationUnits.BuildTimes = append(doc.CompilationUnits.BuildTimes, buildTime)
		doc.Metadata.TotalBuildTime += buildTime
		doc.Metadata.Includes += len(u.Intervals)

		intervals := append([]*includetrace.Interval(nil), u.Intervals...)
		sort.Sort(includetrace.ByStart(intervals))

		fileIDs := make([]int, 0, len(intervals))
		starts := make([]int64, 0, len(intervals))
		durations := make([]int64, 0, len(intervals))
		parents := make([]int, 0, len(intervals))
		var prev int64
		for _, iv := range intervals {
			id, _ := dict.ID(iv.File)
			fileIDs = append(fileIDs, id)

			start := clock.RoundMilliseconds(iv.Start)
			starts = append(starts, start-prev)
			prev = start

			durations = append(durations, clock.RoundMilliseconds(iv.Duration()))

			parent := NoParent
			if iv.Parent != nil {
				parent, _ = dict.ID(iv.Parent.File)
			}
			parents = append(parents, parent)
		}
		doc.Includes.FileIDs = append(doc.Includes.FileIDs, fileIDs)
		doc.Includes.StartTimes = append(doc.Includes.StartTimes, starts)
		doc.Includes.Durations = append(doc.Includes.Durations, durations)
		doc.Includes.ParentFileIDs = append(doc.Includes.ParentFileIDs, parents)
	}
	return doc, nil
}

// AbsoluteStarts undoes the delta encoding of one Unit's start times.
func AbsoluteStarts(deltas []int64) []int64 {
	out := make([]int64, 0, len(deltas))
	var sum int64
	for _, d := range deltas {
		sum += d
		out = append(out, sum)
	}
	return out
}
