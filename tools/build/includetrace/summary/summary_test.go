// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package summary

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.fuchsia.dev/includetrace/tools/build/includetrace"
	"go.fuchsia.dev/includetrace/tools/lib/color"
)

func unit(name string, bounds map[string][][2]int64) *includetrace.Unit {
	u := &includetrace.Unit{Name: name}
	for _, file := range []string{"main.h", "common.h", "util.h"} {
		for _, b := range bounds[file] {
			u.Intervals = append(u.Intervals, &includetrace.Interval{File: file, Start: b[0], End: b[1], Index: len(u.Intervals)})
		}
	}
	includetrace.BuildHierarchy(u, includetrace.NearestParentMode)
	includetrace.ComputeSelfTimes(u)
	return u
}

func testUnits() []*includetrace.Unit {
	return []*includetrace.Unit{
		unit("a.o", map[string][][2]int64{
			"main.h":   {{0, 100}},
			"common.h": {{10, 20}, {50, 80}},
		}),
		unit("b.o", map[string][][2]int64{
			"common.h": {{0, 20}},
			"util.h":   {{30, 35}},
		}),
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize(testUnits(), includetrace.Clock{UnitsPerMillisecond: 1})
	want := []Header{
		{File: "common.h", Count: 3, Units: 2, Total: 60, Self: 60, P50: 20, P90: 30},
		{File: "main.h", Count: 1, Units: 1, Total: 100, Self: 60, P50: 100, P90: 100},
		{File: "util.h", Count: 1, Units: 1, Total: 5, Self: 5, P50: 5, P90: 5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize() (-want +got):\n%s", diff)
	}
}

func TestSummarizeNothing(t *testing.T) {
	if got := Summarize(nil, includetrace.DefaultClock); len(got) != 0 {
		t.Errorf("Summarize(nil) = %v, want nothing", got)
	}
}

func TestWrite(t *testing.T) {
	headers := []Header{
		{File: "big.h", Count: 12345, Units: 3, Total: 23456.5, Self: 1234.5, P50: 1.25, P90: 2},
		{File: "small.h", Count: 1, Units: 1, Total: 1, Self: 1, P50: 1, P90: 1},
	}
	var buf bytes.Buffer
	if err := Write(&buf, headers, 4, 1, color.NewColor(color.ColorNever)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want a header and one row:\n%s", len(lines), out)
	}
	for _, want := range []string{"1,234.5", "23,456.5", "12,345", "3 (75%)", "big.h"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("row %q does not contain %q", lines[1], want)
		}
	}
	if strings.Contains(out, "small.h") {
		t.Errorf("output has more than the top row:\n%s", out)
	}
}
