// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package includetrace

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// newUnit builds a Unit whose i-th Interval is named fi.h.
func newUnit(name string, bounds ...[2]int64) *Unit {
	u := &Unit{Name: name}
	for i, b := range bounds {
		u.Intervals = append(u.Intervals, &Interval{
			File:  fmt.Sprintf("f%d.h", i),
			Start: b[0],
			End:   b[1],
			Index: i,
		})
	}
	return u
}

func files(intervals []*Interval) []string {
	var out []string
	for _, iv := range intervals {
		out = append(out, iv.File)
	}
	return out
}

func parentFiles(u *Unit) []string {
	var out []string
	for _, iv := range u.Intervals {
		if iv.Parent == nil {
			out = append(out, "")
		} else {
			out = append(out, iv.Parent.File)
		}
	}
	return out
}

func chainFiles(u *Unit) [][]string {
	var out [][]string
	for _, iv := range u.Intervals {
		out = append(out, files(iv.Chain))
	}
	return out
}

// The reference functions below restate the pairwise definitions directly.

func refChain(u *Unit, i int) []string {
	iv := u.Intervals[i]
	var ancestors []*Interval
	for j, other := range u.Intervals {
		if j != i && other.Contains(iv) {
			ancestors = append(ancestors, other)
		}
	}
	sort.Sort(ByStart(ancestors))
	return files(append(ancestors, iv))
}

func refParent(u *Unit, i int) string {
	iv := u.Intervals[i]
	var best *Interval
	for j, other := range u.Intervals {
		if j == i || !other.Contains(iv) {
			continue
		}
		if best == nil || other.Duration() < best.Duration() ||
			(other.Duration() == best.Duration() && other.Index < best.Index) {
			best = other
		}
	}
	if best == nil {
		return ""
	}
	return best.File
}

func refSelf(u *Unit) []int64 {
	var out []int64
	for i, iv := range u.Intervals {
		self := iv.Duration()
		for j, child := range u.Intervals {
			if j == i || !iv.Contains(child) {
				continue
			}
			direct := true
			for m, mid := range u.Intervals {
				if m != i && m != j && iv.Contains(mid) && mid.Contains(child) {
					direct = false
					break
				}
			}
			if direct {
				self -= child.Duration()
			}
		}
		out = append(out, self)
	}
	return out
}

func TestBuildHierarchyNested(t *testing.T) {
	u := newUnit("a.o", [2]int64{0, 100}, [2]int64{10, 40})

	BuildHierarchy(u, FullAncestorMode)
	want := [][]string{{"f0.h"}, {"f0.h", "f1.h"}}
	if diff := cmp.Diff(want, chainFiles(u)); diff != "" {
		t.Errorf("full ancestor chains (-want +got):\n%s", diff)
	}
	for _, iv := range u.Intervals {
		if iv.Parent != nil {
			t.Errorf("%s: Parent set in FullAncestorMode", iv.File)
		}
	}

	BuildHierarchy(u, NearestParentMode)
	if diff := cmp.Diff([]string{"", "f0.h"}, parentFiles(u)); diff != "" {
		t.Errorf("nearest parents (-want +got):\n%s", diff)
	}
	for _, iv := range u.Intervals {
		if iv.Chain != nil {
			t.Errorf("%s: Chain set in NearestParentMode", iv.File)
		}
	}
	if u.Mode != NearestParentMode {
		t.Errorf("Mode = %v, want %v", u.Mode, NearestParentMode)
	}
	if u.Diagnostics != nil {
		t.Errorf("Diagnostics = %v, want nil", u.Diagnostics)
	}
}

func TestBuildHierarchy(t *testing.T) {
	for _, tc := range []struct {
		name        string
		bounds      [][2]int64
		wantChains  [][]string
		wantParents []string
	}{
		{
			name:        "disjoint roots",
			bounds:      [][2]int64{{0, 10}, {20, 30}},
			wantChains:  [][]string{{"f0.h"}, {"f1.h"}},
			wantParents: []string{"", ""},
		},
		{
			name:   "deep nesting",
			bounds: [][2]int64{{0, 100}, {10, 90}, {20, 30}, {40, 80}, {50, 60}},
			wantChains: [][]string{
				{"f0.h"},
				{"f0.h", "f1.h"},
				{"f0.h", "f1.h", "f2.h"},
				{"f0.h", "f1.h", "f3.h"},
				{"f0.h", "f1.h", "f3.h", "f4.h"},
			},
			wantParents: []string{"", "f0.h", "f1.h", "f1.h", "f3.h"},
		},
		{
			name:        "shared start",
			bounds:      [][2]int64{{0, 10}, {0, 100}},
			wantChains:  [][]string{{"f1.h", "f0.h"}, {"f1.h"}},
			wantParents: []string{"f1.h", ""},
		},
		{
			name:        "identical bounds break ties by index",
			bounds:      [][2]int64{{0, 10}, {0, 10}, {2, 3}},
			wantChains:  [][]string{{"f1.h", "f0.h"}, {"f0.h", "f1.h"}, {"f0.h", "f1.h", "f2.h"}},
			wantParents: []string{"f1.h", "f0.h", "f0.h"},
		},
		{
			// The empty Interval at 5 touches both neighbours and is contained by
			// each of them.
			name:        "zero length at a boundary",
			bounds:      [][2]int64{{0, 5}, {5, 10}, {5, 5}},
			wantChains:  [][]string{{"f0.h"}, {"f1.h"}, {"f0.h", "f1.h", "f2.h"}},
			wantParents: []string{"", "", "f0.h"},
		},
		{
			name:        "partial overlap",
			bounds:      [][2]int64{{0, 20}, {10, 25}, {12, 15}},
			wantChains:  [][]string{{"f0.h"}, {"f1.h"}, {"f0.h", "f1.h", "f2.h"}},
			wantParents: []string{"", "", "f1.h"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			u := newUnit("a.o", tc.bounds...)
			BuildHierarchy(u, FullAncestorMode)
			if diff := cmp.Diff(tc.wantChains, chainFiles(u)); diff != "" {
				t.Errorf("chains (-want +got):\n%s", diff)
			}
			BuildHierarchy(u, NearestParentMode)
			if diff := cmp.Diff(tc.wantParents, parentFiles(u)); diff != "" {
				t.Errorf("parents (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildHierarchyReportsOverlaps(t *testing.T) {
	u := newUnit("a.o", [2]int64{0, 20}, [2]int64{10, 30}, [2]int64{40, 50})
	BuildHierarchy(u, NearestParentMode)
	BuildHierarchy(u, FullAncestorMode)

	got := Malformed(u)
	want := []*MalformedTraceError{
		{Unit: "a.o", Kind: NonLaminar, File: "f0.h", Start: 0, End: 20, Value: "f1.h"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}
}

func TestDiagnosticsAreBounded(t *testing.T) {
	// A staircase where every Interval overlaps its neighbours.
	var bounds [][2]int64
	for i := int64(0); i < 3*maxDiagnosticsPerKind; i++ {
		bounds = append(bounds, [2]int64{i * 10, i*10 + 15})
	}
	u := newUnit("a.o", bounds...)
	BuildHierarchy(u, NearestParentMode)
	if got := len(Malformed(u)); got != maxDiagnosticsPerKind {
		t.Errorf("got %d diagnostics, want %d", got, maxDiagnosticsPerKind)
	}
}

// randomLaminar builds a random forest by splitting ranges recursively.
func randomLaminar(r *rand.Rand, n int) [][2]int64 {
	var bounds [][2]int64
	var split func(lo, hi int64, depth int)
	split = func(lo, hi int64, depth int) {
		for lo < hi && len(bounds) < n {
			s := lo + r.Int63n(hi-lo)
			e := s + r.Int63n(hi-s) + 1
			bounds = append(bounds, [2]int64{s, e})
			if depth < 8 && e-s > 2 {
				split(s+1, e-1, depth+1)
			}
			lo = e + r.Int63n(3)
		}
	}
	split(0, 10000, 0)
	r.Shuffle(len(bounds), func(i, j int) { bounds[i], bounds[j] = bounds[j], bounds[i] })
	return bounds
}

// randomAny builds Intervals over a small range so that duplicates, empty
// Intervals, shared boundaries and overlaps all occur.
func randomAny(r *rand.Rand, n int) [][2]int64 {
	var bounds [][2]int64
	for i := 0; i < n; i++ {
		s := r.Int63n(12)
		bounds = append(bounds, [2]int64{s, s + r.Int63n(6)})
	}
	return bounds
}

func checkAgainstReference(t *testing.T, u *Unit) {
	t.Helper()
	BuildHierarchy(u, FullAncestorMode)
	for i := range u.Intervals {
		if diff := cmp.Diff(refChain(u, i), files(u.Intervals[i].Chain)); diff != "" {
			t.Fatalf("%v: chain of %d (-want +got):\n%s", bounds(u), i, diff)
		}
	}
	BuildHierarchy(u, NearestParentMode)
	for i, iv := range u.Intervals {
		got := ""
		if iv.Parent != nil {
			got = iv.Parent.File
		}
		if want := refParent(u, i); got != want {
			t.Fatalf("%v: parent of %d = %q, want %q", bounds(u), i, got, want)
		}
	}
	ComputeSelfTimes(u)
	var got []int64
	for _, iv := range u.Intervals {
		got = append(got, iv.Self)
	}
	if diff := cmp.Diff(refSelf(u), got); diff != "" {
		t.Fatalf("%v: self times (-want +got):\n%s", bounds(u), diff)
	}
}

func bounds(u *Unit) [][2]int64 {
	var out [][2]int64
	for _, iv := range u.Intervals {
		out = append(out, [2]int64{iv.Start, iv.End})
	}
	return out
}

func TestSweepMatchesPairwiseDefinition(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	t.Run("laminar", func(t *testing.T) {
		for round := 0; round < 50; round++ {
			u := newUnit("a.o", randomLaminar(r, 1+r.Intn(60))...)
			if _, ok := sweep(u.Intervals); !ok {
				t.Fatalf("%v: sweep rejected a laminar unit", bounds(u))
			}
			checkAgainstReference(t, u)
		}
	})
	t.Run("arbitrary", func(t *testing.T) {
		for round := 0; round < 500; round++ {
			checkAgainstReference(t, newUnit("a.o", randomAny(r, 1+r.Intn(8))...))
		}
	})
}

func TestSweepFallsBack(t *testing.T) {
	for _, tc := range []struct {
		name   string
		bounds [][2]int64
		want   bool
	}{
		{name: "laminar", bounds: [][2]int64{{0, 10}, {2, 4}, {4, 6}, {20, 20}}, want: true},
		{name: "empty", want: true},
		{name: "overlap", bounds: [][2]int64{{0, 10}, {5, 15}}},
		{name: "duplicate", bounds: [][2]int64{{0, 10}, {0, 10}}},
		{name: "empty at touching point", bounds: [][2]int64{{0, 5}, {5, 10}, {5, 5}}},
		{name: "empty at end of container", bounds: [][2]int64{{0, 5}, {5, 5}}, want: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			u := newUnit("a.o", tc.bounds...)
			if _, ok := sweep(u.Intervals); ok != tc.want {
				t.Errorf("sweep(%v) ok = %t, want %t", tc.bounds, ok, tc.want)
			}
		})
	}
}

func TestLaminarity(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		u := newUnit("a.o", randomLaminar(r, 80)...)
		for _, a := range u.Intervals {
			for _, b := range u.Intervals {
				if a.overlaps(b) {
					t.Fatalf("generator produced overlapping %v and %v", a, b)
				}
			}
		}
		BuildHierarchy(u, FullAncestorMode)
		if u.Diagnostics != nil {
			t.Fatalf("laminar unit reported %v", u.Diagnostics)
		}
	}
}
