// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package osmisc

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// IsDir determines whether a given path exists *and* is a directory. It will
// return false (with no error) if the path does not exist.
func IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// SkipDir can be returned by a WalkFunc to skip the directory being visited.
var SkipDir = fs.SkipDir

// WalkFunc is called for every entry below the walk root, directories
// included. Returning SkipDir for a directory prunes it.
type WalkFunc func(path string, d fs.DirEntry) error

// Walk visits the tree rooted at root in lexical order.
//
// The traversal keeps pending directories on an explicit worklist instead of
// recursing, so stack usage does not grow with tree depth. Symbolic links are
// reported but never followed.
func Walk(root string, fn WalkFunc) error {
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		var subdirs []string
		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			err := fn(path, e)
			if e.IsDir() {
				if errors.Is(err, SkipDir) {
					continue
				}
				if err != nil {
					return err
				}
				subdirs = append(subdirs, path)
				continue
			}
			if err != nil && !errors.Is(err, SkipDir) {
				return err
			}
		}
		// Push in reverse so the lexically first subdirectory is popped first.
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}
	return nil
}
