// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package clangtrace contains utilities for working with Clang traces.
package clangtrace

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/multierr"

	"go.fuchsia.dev/includetrace/tools/build/chrometrace"
	"go.fuchsia.dev/includetrace/tools/lib/jsonutil"
	"go.fuchsia.dev/includetrace/tools/lib/osmisc"
)

// Trace matches the JSON output format from clang when time-trace is
// enabled.
type Trace struct {
	// TraceEvents contains all events in this trace.
	TraceEvents []chrometrace.Event `json:"traceEvents"`
	// BeginningOfTimeMicros identifies the time when this clang command started,
	// using microseconds since epoch.
	BeginningOfTimeMicros int64 `json:"beginningOfTime"`
}

var (
	//go:embed clang_trace.schema.json
	schemaJSON string

	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	})
	return schema, schemaErr
}

// Validate checks raw trace JSON against the shape clang writes. All
// violations are returned together.
func Validate(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compiling trace schema: %w", err)
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}
	var errs error
	for _, desc := range result.Errors() {
		errs = multierr.Append(errs, errors.New(desc.String()))
	}
	return errs
}

// Decode reads a single trace document from r.
func Decode(r io.Reader) (*Trace, error) {
	var t Trace
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ReadFile loads the trace at path, which may be gzip or zstd compressed.
// With validate set the document is checked against the schema before it is
// decoded.
func ReadFile(path string, validate bool) (*Trace, error) {
	data, err := jsonutil.ReadAll(path)
	if err != nil {
		return nil, err
	}
	if validate {
		if err := Validate(data); err != nil {
			return nil, fmt.Errorf("%s does not look like a clang trace: %w", path, err)
		}
	}
	t, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode clang trace %s: %w", path, err)
	}
	return t, nil
}

// Pair is a trace file and the object file clang wrote it next to.
type Pair struct {
	// Name identifies the compilation, the object path relative to the
	// search root.
	Name string
	// Trace is the path of the trace file.
	Trace string
	// Object is the path of the object file.
	Object string
}

var objectExtensions = []string{".o", ".obj"}

// traceExtensions are matched longest first.
var traceExtensions = []string{".json.gz", ".json.zst", ".json"}

// Discover finds every clang trace under root. Clang writes a .json file next
// to the compiled object file when time-trace is enabled, so a trace only
// counts if the sibling object exists.
//
// https://releases.llvm.org/9.0.0/tools/clang/docs/ReleaseNotes.html#new-compiler-flags
func Discover(root string) ([]Pair, error) {
	var pairs []Pair
	err := osmisc.Walk(root, func(path string, d fs.DirEntry) error {
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") {
				return osmisc.SkipDir
			}
			return nil
		}
		stem, ok := trimTraceExtension(path)
		if !ok {
			return nil
		}
		for _, ext := range objectExtensions {
			obj := stem + ext
			info, err := os.Stat(obj)
			if errors.Is(err, os.ErrNotExist) {
				continue
			} else if err != nil {
				return err
			}
			if !info.Mode().IsRegular() {
				continue
			}
			name, err := filepath.Rel(root, obj)
			if err != nil {
				return err
			}
			pairs = append(pairs, Pair{Name: filepath.ToSlash(name), Trace: path, Object: obj})
			return nil
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("searching %s for clang traces: %w", root, err)
	}
	return pairs, nil
}

func trimTraceExtension(path string) (string, bool) {
	for _, ext := range traceExtensions {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext), true
		}
	}
	return "", false
}

// TrimExtension removes a trace file extension from path, if it has one.
func TrimExtension(path string) string {
	if stem, ok := trimTraceExtension(path); ok {
		return stem
	}
	return path
}

// UnitName derives a compilation name for a trace given directly on the
// command line.
func UnitName(path string) string {
	if stem, ok := trimTraceExtension(path); ok {
		return filepath.ToSlash(stem) + ".o"
	}
	return filepath.ToSlash(path)
}
