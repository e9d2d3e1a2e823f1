// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package clangtrace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.fuchsia.dev/includetrace/tools/build/chrometrace"
	"go.fuchsia.dev/includetrace/tools/lib/jsonutil"
)

const sampleTrace = `{
  "traceEvents": [
    {"pid":1,"tid":1,"ph":"b","ts":100,"cat":"Source","name":"Source","id":0,"args":{"detail":"a.h"}},
    {"pid":1,"tid":1,"ph":"e","ts":300,"cat":"Source","name":"Source","id":0},
    {"pid":1,"tid":1,"ph":"X","ts":0,"dur":5000,"name":"ExecuteCompiler"},
    {"pid":1,"tid":0,"ph":"M","ts":0,"cat":"","name":"process_name","args":{"name":"clang"}}
  ],
  "beginningOfTime": 1700000000000000
}`

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestDecode(t *testing.T) {
	got, err := Decode(strings.NewReader(sampleTrace))
	if err != nil {
		t.Fatal(err)
	}
	if got.BeginningOfTimeMicros != 1700000000000000 {
		t.Errorf("BeginningOfTimeMicros = %d, want 1700000000000000", got.BeginningOfTimeMicros)
	}
	var phases []string
	for _, e := range got.TraceEvents {
		phases = append(phases, e.Phase)
	}
	if diff := cmp.Diff([]string{"b", "e", "X", "M"}, phases); diff != "" {
		t.Errorf("Decode got wrong phases (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "clang output", input: sampleTrace},
		{name: "missing traceEvents", input: `{"beginningOfTime": 1}`, wantErr: true},
		{name: "event without phase", input: `{"traceEvents":[{"name":"Source","ts":1}]}`, wantErr: true},
		{name: "negative duration", input: `{"traceEvents":[{"name":"x","ph":"X","dur":-1}]}`, wantErr: true},
		{name: "not an object", input: `[]`, wantErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate([]byte(tc.input))
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %t", err, tc.wantErr)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "a.json")
	writeFile(t, plain, sampleTrace)

	trace, err := ReadFile(plain, true)
	if err != nil {
		t.Fatal(err)
	}
	compressed := filepath.Join(dir, "b.json.zst")
	if err := jsonutil.WriteToFile(compressed, trace); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(compressed, true)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(trace, got); diff != "" {
		t.Errorf("compressed trace differs (-want +got):\n%s", diff)
	}
	if got.TraceEvents[0].ID != chrometrace.ID(0) {
		t.Errorf("first event id = %d, want 0", got.TraceEvents[0].ID)
	}

	bad := filepath.Join(dir, "bad.json")
	writeFile(t, bad, `{"traceEvents": 3}`)
	if _, err := ReadFile(bad, true); err == nil {
		t.Errorf("ReadFile(%s, validate) succeeded, want error", bad)
	}
	if _, err := ReadFile(bad, false); err == nil {
		t.Errorf("ReadFile(%s) decoded a number as an event list", bad)
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{
		"obj/foo.o",
		"obj/foo.json",
		"obj/win/bar.obj",
		"obj/win/bar.json.gz",
		"obj/orphan.json",
		"obj/.hidden/baz.o",
		"obj/.hidden/baz.json",
		"compile_commands.json",
	} {
		writeFile(t, filepath.Join(root, p), "{}")
	}

	got, err := Discover(root)
	if err != nil {
		t.Fatal(err)
	}
	want := []Pair{
		{
			Name:   "obj/foo.o",
			Trace:  filepath.Join(root, "obj", "foo.json"),
			Object: filepath.Join(root, "obj", "foo.o"),
		},
		{
			Name:   "obj/win/bar.obj",
			Trace:  filepath.Join(root, "obj", "win", "bar.json.gz"),
			Object: filepath.Join(root, "obj", "win", "bar.obj"),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Discover(%s) got wrong pairs (-want +got):\n%s", root, diff)
	}
}

func TestUnitName(t *testing.T) {
	for _, tc := range []struct {
		path string
		want string
	}{
		{"out/foo.json", "out/foo.o"},
		{"out/foo.json.gz", "out/foo.o"},
		{"trace.txt", "trace.txt"},
	} {
		if got := UnitName(tc.path); got != tc.want {
			t.Errorf("UnitName(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestTrimExtension(t *testing.T) {
	for _, tc := range []struct {
		path string
		want string
	}{
		{"out/foo.json.zst", "out/foo"},
		{"foo.json", "foo"},
		{"foo.o", "foo.o"},
	} {
		if got := TrimExtension(tc.path); got != tc.want {
			t.Errorf("TrimExtension(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
