// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package includetrace

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type placed struct {
	Unit       string
	File       string
	Start, End int64
}

func flatten(ps []Placement) []placed {
	var out []placed
	for _, p := range ps {
		out = append(out, placed{p.Unit.Name, p.Interval.File, p.Start, p.End})
	}
	return out
}

func TestMerge(t *testing.T) {
	a := newUnit("a.o", [2]int64{100, 500}, [2]int64{200, 300})
	empty := newUnit("empty.o")
	b := newUnit("b.o", [2]int64{0, 50}, [2]int64{10, 20})
	c := newUnit("c.o", [2]int64{5, 7})

	got := flatten(Merge([]*Unit{a, empty, b, c}))
	want := []placed{
		{"a.o", "f0.h", 100, 500},
		{"a.o", "f1.h", 200, 300},
		{"b.o", "f0.h", 500, 550},
		{"b.o", "f1.h", 510, 520},
		// The offset grows by each Unit's end, not its extent.
		{"c.o", "f0.h", 555, 557},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge() (-want +got):\n%s", diff)
	}

	if b.Intervals[0].Start != 0 || b.Intervals[0].End != 50 {
		t.Errorf("Merge() modified an Interval: %+v", b.Intervals[0])
	}
}

func TestMergeNothing(t *testing.T) {
	if got := Merge([]*Unit{newUnit("empty.o")}); len(got) != 0 {
		t.Errorf("Merge() of empty Units = %v, want nothing", got)
	}
}

func TestPlace(t *testing.T) {
	u := newUnit("a.o", [2]int64{100, 500})
	want := []placed{{"a.o", "f0.h", 100, 500}}
	if diff := cmp.Diff(want, flatten(Place(u))); diff != "" {
		t.Errorf("Place() (-want +got):\n%s", diff)
	}
}
