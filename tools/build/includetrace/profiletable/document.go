// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package profiletable

// Format versions of the processed profile this package writes.
const (
	FormatVersion       = 31
	PreprocessedVersion = 53
)

// Product is shown by the profiler as the profiled program.
const Product = "includetrace"

// Document is a complete processed profile with a single thread.
type Document struct {
	Meta    Meta          `json:"meta"`
	Libs    []interface{} `json:"libs"`
	Threads []Thread      `json:"threads"`
	Shared  Shared        `json:"shared"`
}

// Shared holds tables referenced from every thread.
type Shared struct {
	StringArray []string `json:"stringArray"`
}

// Category is a frame category with its subcategories.
type Category struct {
	Name          string   `json:"name"`
	Color         string   `json:"color"`
	Subcategories []string `json:"subcategories"`
}

// Meta describes the profile as a whole.
type Meta struct {
	Interval                   float64       `json:"interval"`
	StartTime                  float64       `json:"startTime"`
	ProcessType                int           `json:"processType"`
	Product                    string        `json:"product"`
	Stackwalk                  int           `json:"stackwalk"`
	Version                    int           `json:"version"`
	PreprocessedProfileVersion int           `json:"preprocessedProfileVersion"`
	Symbolicated               bool          `json:"symbolicated"`
	Categories                 []Category    `json:"categories"`
	MarkerSchema               []interface{} `json:"markerSchema"`
}

// Thread carries the samples and the tables they point into.
type Thread struct {
	ProcessType         string        `json:"processType"`
	ProcessStartupTime  float64       `json:"processStartupTime"`
	ProcessShutdownTime *float64      `json:"processShutdownTime"`
	RegisterTime        float64       `json:"registerTime"`
	UnregisterTime      *float64      `json:"unregisterTime"`
	PausedRanges        []interface{} `json:"pausedRanges"`
	Name                string        `json:"name"`
	IsMainThread        bool          `json:"isMainThread"`
	PID                 string        `json:"pid"`
	TID                 int           `json:"tid"`
	Samples             SamplesTable  `json:"samples"`
	Markers             MarkerTable   `json:"markers"`
	StackTable          StackTable    `json:"stackTable"`
	FrameTable          FrameTable    `json:"frameTable"`
	FuncTable           FuncTable     `json:"funcTable"`
	ResourceTable       ResourceTable `json:"resourceTable"`
	NativeSymbols       NativeSymbols `json:"nativeSymbols"`
}

// MarkerTable is always empty; headers are samples, not markers.
type MarkerTable struct {
	Data      []interface{} `json:"data"`
	Name      []int         `json:"name"`
	StartTime []float64     `json:"startTime"`
	EndTime   []float64     `json:"endTime"`
	Phase     []int         `json:"phase"`
	Category  []int         `json:"category"`
	Length    int           `json:"length"`
}

// ResourceTable is always empty.
type ResourceTable struct {
	Lib    []int `json:"lib"`
	Name   []int `json:"name"`
	Host   []int `json:"host"`
	Type   []int `json:"type"`
	Length int   `json:"length"`
}

// NativeSymbols is always empty.
type NativeSymbols struct {
	LibIndex     []int `json:"libIndex"`
	Address      []int `json:"address"`
	Name         []int `json:"name"`
	FunctionSize []int `json:"functionSize"`
	Length       int   `json:"length"`
}

// NewDocument wraps the tables of c in a document whose only thread is
// called threadName.
func NewDocument(c *Context, threadName string) *Document {
	return &Document{
		Meta: Meta{
			Interval:                   1,
			ProcessType:                0,
			Product:                    Product,
			Version:                    FormatVersion,
			PreprocessedProfileVersion: PreprocessedVersion,
			Symbolicated:               true,
			Categories: []Category{
				HeaderCategory: {Name: headerCategory, Color: "blue", Subcategories: []string{"Other"}},
			},
			MarkerSchema: []interface{}{},
		},
		Libs: []interface{}{},
		Threads: []Thread{{
			ProcessType:  "default",
			PausedRanges: []interface{}{},
			Name:         threadName,
			IsMainThread: true,
			PID:          "0",
			Samples:      c.Samples(),
			Markers: MarkerTable{
				Data:      []interface{}{},
				Name:      []int{},
				StartTime: []float64{},
				EndTime:   []float64{},
				Phase:     []int{},
				Category:  []int{},
			},
			StackTable: c.Stacks(),
			FrameTable: c.Frames(),
			FuncTable:  c.Funcs(),
			ResourceTable: ResourceTable{
				Lib:  []int{},
				Name: []int{},
				Host: []int{},
				Type: []int{},
			},
			NativeSymbols: NativeSymbols{
				LibIndex:     []int{},
				Address:      []int{},
				Name:         []int{},
				FunctionSize: []int{},
			},
		}},
		Shared: Shared{StringArray: c.Strings()},
	}
}
