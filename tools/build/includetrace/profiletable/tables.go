// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package profiletable

// The tables below are column oriented: row i of a table is the i-th element
// of every slice. Slices of a table always have Length elements.

// SamplesTable holds one sample per header inclusion.
type SamplesTable struct {
	WeightType string    `json:"weightType"`
	Stack      []int     `json:"stack"`
	Time       []float64 `json:"time"`
	Weight     []float64 `json:"weight"`
	Length     int       `json:"length"`
}

// StackTable is a tree of frames; Prefix points at the caller's row.
type StackTable struct {
	Frame       []int   `json:"frame"`
	Prefix      []Index `json:"prefix"`
	Category    []int   `json:"category"`
	Subcategory []int   `json:"subcategory"`
	Length      int     `json:"length"`
}

func (t StackTable) clone() StackTable {
	return StackTable{
		Frame:       append([]int{}, t.Frame...),
		Prefix:      append([]Index{}, t.Prefix...),
		Category:    append([]int{}, t.Category...),
		Subcategory: append([]int{}, t.Subcategory...),
		Length:      t.Length,
	}
}

// FrameTable has one row per distinct header.
type FrameTable struct {
	Func           []int     `json:"func"`
	Category       []int     `json:"category"`
	Subcategory    []int     `json:"subcategory"`
	Address        []int     `json:"address"`
	InlineDepth    []int     `json:"inlineDepth"`
	NativeSymbol   []Index   `json:"nativeSymbol"`
	InnerWindowID  []Index   `json:"innerWindowID"`
	Implementation []*string `json:"implementation"`
	Line           []Index   `json:"line"`
	Column         []Index   `json:"column"`
	Length         int       `json:"length"`
}

func (t FrameTable) clone() FrameTable {
	return FrameTable{
		Func:           append([]int{}, t.Func...),
		Category:       append([]int{}, t.Category...),
		Subcategory:    append([]int{}, t.Subcategory...),
		Address:        append([]int{}, t.Address...),
		InlineDepth:    append([]int{}, t.InlineDepth...),
		NativeSymbol:   append([]Index{}, t.NativeSymbol...),
		InnerWindowID:  append([]Index{}, t.InnerWindowID...),
		Implementation: append([]*string{}, t.Implementation...),
		Line:           append([]Index{}, t.Line...),
		Column:         append([]Index{}, t.Column...),
		Length:         t.Length,
	}
}

// FuncTable has one row per distinct header; names index the string table.
type FuncTable struct {
	Name          []int   `json:"name"`
	IsJS          []bool  `json:"isJS"`
	RelevantForJS []bool  `json:"relevantForJS"`
	Resource      []int   `json:"resource"`
	FileName      []Index `json:"fileName"`
	LineNumber    []Index `json:"lineNumber"`
	ColumnNumber  []Index `json:"columnNumber"`
	Length        int     `json:"length"`
}

func (t FuncTable) clone() FuncTable {
	return FuncTable{
		Name:          append([]int{}, t.Name...),
		IsJS:          append([]bool{}, t.IsJS...),
		RelevantForJS: append([]bool{}, t.RelevantForJS...),
		Resource:      append([]int{}, t.Resource...),
		FileName:      append([]Index{}, t.FileName...),
		LineNumber:    append([]Index{}, t.LineNumber...),
		ColumnNumber:  append([]Index{}, t.ColumnNumber...),
		Length:        t.Length,
	}
}
