// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package pprofexport converts include hierarchies to pprof profiles, so
// header costs can be explored with `go tool pprof` and its flame graph.
package pprofexport

import (
	"fmt"
	"io"
	"math"

	"github.com/google/pprof/profile"

	"go.fuchsia.dev/includetrace/tools/build/includetrace"
)

// Sample value indices.
const (
	SelfTimeValue = iota
	IncludesValue
)

// UnitLabel is the sample label naming the compilation a sample came from.
const UnitLabel = "unit"

type locationKey struct {
	name string
	unit bool
}

type builder struct {
	clock     includetrace.Clock
	prof      *profile.Profile
	locations map[locationKey]*profile.Location
}

func (b *builder) location(name string, unitRoot bool) *profile.Location {
	k := locationKey{name: name, unit: unitRoot}
	if loc, ok := b.locations[k]; ok {
		return loc
	}
	fn := &profile.Function{
		ID:         uint64(len(b.prof.Function) + 1),
		Name:       name,
		SystemName: name,
		Filename:   name,
	}
	b.prof.Function = append(b.prof.Function, fn)
	loc := &profile.Location{
		ID:   uint64(len(b.prof.Location) + 1),
		Line: []profile.Line{{Function: fn}},
	}
	b.prof.Location = append(b.prof.Location, loc)
	b.locations[k] = loc
	return loc
}

func (b *builder) nanos(v int64) int64 {
	return int64(math.Round(b.clock.Milliseconds(v) * 1e6))
}

// Build creates a profile with one sample per Interval, carrying its self
// time in nanoseconds and a count of one. Stacks list the Interval's chain
// leaf first, ending in a frame for the Unit when unitRootFrames is set.
// Units must have been built in FullAncestorMode; empty Units add nothing.
func Build(units []*includetrace.Unit, clock includetrace.Clock, unitRootFrames bool) (*profile.Profile, error) {
	b := &builder{
		clock: clock,
		prof: &profile.Profile{
			SampleType: []*profile.ValueType{
				SelfTimeValue: {Type: "self_time", Unit: "nanoseconds"},
				IncludesValue: {Type: "includes", Unit: "count"},
			},
			PeriodType:        &profile.ValueType{Type: "header", Unit: "count"},
			Period:            1,
			DefaultSampleType: "self_time",
		},
		locations: map[locationKey]*profile.Location{},
	}
	for _, u := range units {
		if u.Empty() {
			continue
		}
		if u.Mode != includetrace.FullAncestorMode {
			return nil, fmt.Errorf("%s: pprof export needs %v hierarchies, have %v", u.Name, includetrace.FullAncestorMode, u.Mode)
		}
		if u.HasBuildTime {
			b.prof.DurationNanos += b.nanos(u.BuildTime)
		}
		for _, iv := range u.Intervals {
			stack := make([]*profile.Location, 0, len(iv.Chain)+1)
			for i := len(iv.Chain) - 1; i >= 0; i-- {
				stack = append(stack, b.location(iv.Chain[i].File, false))
			}
			if unitRootFrames {
				stack = append(stack, b.location(u.Name, true))
			}
			b.prof.Sample = append(b.prof.Sample, &profile.Sample{
				Location: stack,
				Value:    []int64{SelfTimeValue: b.nanos(iv.Self), IncludesValue: 1},
				Label:    map[string][]string{UnitLabel: {u.Name}},
			})
		}
	}
	if err := b.prof.CheckValid(); err != nil {
		return nil, fmt.Errorf("building pprof profile: %w", err)
	}
	return b.prof, nil
}

// Write builds the profile of units and writes it gzip compressed to w.
func Write(w io.Writer, units []*includetrace.Unit, clock includetrace.Clock, unitRootFrames bool) error {
	p, err := Build(units, clock, unitRootFrames)
	if err != nil {
		return err
	}
	return p.Write(w)
}
