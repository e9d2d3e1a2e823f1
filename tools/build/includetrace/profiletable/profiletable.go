// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package profiletable serializes include hierarchies into the processed
// profile format of the Firefox profiler, one sample per header inclusion.
//
// https://github.com/firefox-devtools/profiler/blob/main/docs-developer/CHANGELOG-formats.md
package profiletable

import (
	"fmt"
	"sort"
	"strconv"

	"go.fuchsia.dev/includetrace/tools/build/includetrace"
)

// NoIndex marks an absent table reference. It is written as JSON null.
const NoIndex Index = -1

// Index refers to a row of another table.
type Index int

func (i Index) MarshalJSON() ([]byte, error) {
	if i < 0 {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(i))), nil
}

func (i *Index) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*i = NoIndex
		return nil
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("invalid table index %s: %w", b, err)
	}
	*i = Index(n)
	return nil
}

// Every frame belongs to the single category below.
const (
	HeaderCategory    = 0
	HeaderSubcategory = 0
	headerCategory    = "Header processing"
)

// WeightType tells the profiler that sample weights are durations in
// milliseconds.
const WeightType = "tracing-ms"

type frameKey struct {
	name string
	// unit marks the synthetic root frame of a Unit, kept apart from a header
	// that happens to have the same name.
	unit bool
}

type stackKey struct {
	frame  int
	prefix Index
}

type sample struct {
	time   float64
	stack  int
	weight float64
}

// Context owns the tables of one profile. Identical keys always map to the
// same row. A Context is not safe for concurrent use.
type Context struct {
	clock          includetrace.Clock
	unitRootFrames bool

	strings     []string
	stringIndex map[string]int

	funcs     FuncTable
	funcIndex map[frameKey]int

	frames     FrameTable
	frameIndex map[frameKey]int

	stacks     StackTable
	stackIndex map[stackKey]int

	samples []sample
}

// NewContext returns an empty Context. With unitRootFrames set every stack
// starts with a frame naming the Unit it came from.
func NewContext(clock includetrace.Clock, unitRootFrames bool) *Context {
	return &Context{
		clock:          clock,
		unitRootFrames: unitRootFrames,
		stringIndex:    map[string]int{},
		funcIndex:      map[frameKey]int{},
		frameIndex:     map[frameKey]int{},
		stackIndex:     map[stackKey]int{},
	}
}

// String returns the string table index of s.
func (c *Context) String(s string) int {
	if i, ok := c.stringIndex[s]; ok {
		return i
	}
	i := len(c.strings)
	c.strings = append(c.strings, s)
	c.stringIndex[s] = i
	return i
}

// Func returns the function for name. The name doubles as the file name.
func (c *Context) Func(name string, unitRoot bool) int {
	k := frameKey{name: name, unit: unitRoot}
	if i, ok := c.funcIndex[k]; ok {
		return i
	}
	s := c.String(name)
	i := c.funcs.Length
	c.funcs.Name = append(c.funcs.Name, s)
	c.funcs.IsJS = append(c.funcs.IsJS, false)
	c.funcs.RelevantForJS = append(c.funcs.RelevantForJS, false)
	c.funcs.Resource = append(c.funcs.Resource, -1)
	c.funcs.FileName = append(c.funcs.FileName, Index(s))
	c.funcs.LineNumber = append(c.funcs.LineNumber, NoIndex)
	c.funcs.ColumnNumber = append(c.funcs.ColumnNumber, NoIndex)
	c.funcs.Length++
	c.funcIndex[k] = i
	return i
}

// Frame returns the frame for name.
func (c *Context) Frame(name string, unitRoot bool) int {
	k := frameKey{name: name, unit: unitRoot}
	if i, ok := c.frameIndex[k]; ok {
		return i
	}
	fn := c.Func(name, unitRoot)
	i := c.frames.Length
	c.frames.Func = append(c.frames.Func, fn)
	c.frames.Category = append(c.frames.Category, HeaderCategory)
	c.frames.Subcategory = append(c.frames.Subcategory, HeaderSubcategory)
	c.frames.Address = append(c.frames.Address, -1)
	c.frames.InlineDepth = append(c.frames.InlineDepth, 0)
	c.frames.NativeSymbol = append(c.frames.NativeSymbol, NoIndex)
	c.frames.InnerWindowID = append(c.frames.InnerWindowID, NoIndex)
	c.frames.Implementation = append(c.frames.Implementation, nil)
	c.frames.Line = append(c.frames.Line, NoIndex)
	c.frames.Column = append(c.frames.Column, NoIndex)
	c.frames.Length++
	c.frameIndex[k] = i
	return i
}

// Stack returns the stack made of frame on top of prefix, NoIndex for a
// root. Chains sharing a prefix share its rows.
func (c *Context) Stack(frame int, prefix Index) int {
	k := stackKey{frame: frame, prefix: prefix}
	if i, ok := c.stackIndex[k]; ok {
		return i
	}
	i := c.stacks.Length
	c.stacks.Frame = append(c.stacks.Frame, frame)
	c.stacks.Prefix = append(c.stacks.Prefix, prefix)
	c.stacks.Category = append(c.stacks.Category, HeaderCategory)
	c.stacks.Subcategory = append(c.stacks.Subcategory, HeaderSubcategory)
	c.stacks.Length++
	c.stackIndex[k] = i
	return i
}

// AddUnit adds a sample for every Interval of u at its own times.
func (c *Context) AddUnit(u *includetrace.Unit) error {
	return c.AddPlacements(includetrace.Place(u))
}

// AddPlacements adds one sample per placement, at its end time and weighted
// by the Interval's self time. Every Unit involved must have been built in
// FullAncestorMode.
func (c *Context) AddPlacements(placements []includetrace.Placement) error {
	for _, p := range placements {
		if p.Unit.Mode != includetrace.FullAncestorMode {
			return fmt.Errorf("%s: profile tables need %v hierarchies, have %v", p.Unit.Name, includetrace.FullAncestorMode, p.Unit.Mode)
		}
		prefix := NoIndex
		if c.unitRootFrames {
			prefix = Index(c.Stack(c.Frame(p.Unit.Name, true), NoIndex))
		}
		for _, iv := range p.Interval.Chain {
			prefix = Index(c.Stack(c.Frame(iv.File, false), prefix))
		}
		c.samples = append(c.samples, sample{
			time:   c.clock.Milliseconds(p.End),
			stack:  int(prefix),
			weight: c.clock.Milliseconds(p.Interval.Self),
		})
	}
	return nil
}

// Samples returns the samples added so far, ordered by time. Samples at
// the same time keep the order they were added in.
func (c *Context) Samples() SamplesTable {
	ordered := append([]sample(nil), c.samples...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].time < ordered[j].time })
	t := SamplesTable{
		WeightType: WeightType,
		Stack:      []int{},
		Time:       []float64{},
		Weight:     []float64{},
		Length:     len(ordered),
	}
	for _, s := range ordered {
		t.Stack = append(t.Stack, s.stack)
		t.Time = append(t.Time, s.time)
		t.Weight = append(t.Weight, s.weight)
	}
	return t
}

// Strings returns the string table.
func (c *Context) Strings() []string { return append([]string{}, c.strings...) }

// Funcs returns the function table.
func (c *Context) Funcs() FuncTable { return c.funcs.clone() }

// Frames returns the frame table.
func (c *Context) Frames() FrameTable { return c.frames.clone() }

// Stacks returns the stack table.
func (c *Context) Stacks() StackTable { return c.stacks.clone() }
