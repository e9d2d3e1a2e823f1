// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package jsonutil reads and writes JSON files, transparently handling gzip
// (".gz") and zstd (".zst") compression based on the file name.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression identifies the encoding of a file.
type Compression int

const (
	None Compression = iota
	Gzip
	Zstd
)

// CompressionOf infers the compression of path from its extension.
func CompressionOf(path string) Compression {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return Gzip
	case strings.HasSuffix(path, ".zst"):
		return Zstd
	}
	return None
}

type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open opens path for reading, decompressing it if needed.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch CompressionOf(path) {
	case Gzip:
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("reading gzip header of %s: %w", path, err)
		}
		return &readCloser{Reader: zr, closers: []func() error{zr.Close, f.Close}}, nil
	case Zstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("creating zstd reader for %s: %w", path, err)
		}
		return &readCloser{Reader: zr, closers: []func() error{func() error { zr.Close(); return nil }, f.Close}}, nil
	}
	return f, nil
}

// ReadAll returns the decompressed contents of path.
func ReadAll(path string) ([]byte, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// ReadFromFile decodes the JSON contents of path into v.
func ReadFromFile(path string, v interface{}) error {
	r, err := Open(path)
	if err != nil {
		return err
	}
	defer r.Close()
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

type writeCloser struct {
	io.Writer
	closers []func() error
}

func (w *writeCloser) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Create creates path for writing, compressing output if the name asks for
// it. Closing the returned writer flushes the compressor and the file.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	switch CompressionOf(path) {
	case Gzip:
		zw := gzip.NewWriter(f)
		return &writeCloser{Writer: zw, closers: []func() error{zw.Close, f.Close}}, nil
	case Zstd:
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("creating zstd writer for %s: %w", path, err)
		}
		return &writeCloser{Writer: zw, closers: []func() error{zw.Close, f.Close}}, nil
	}
	return f, nil
}

// WriteToFile encodes v as JSON into path.
func WriteToFile(path string, v interface{}) (err error) {
	w, err := Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}
