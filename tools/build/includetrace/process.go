// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package includetrace

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"go.fuchsia.dev/includetrace/tools/build/chrometrace"
	"go.fuchsia.dev/includetrace/tools/build/clangtrace"
	"go.fuchsia.dev/includetrace/tools/lib/logger"
)

// Input names one trace to process.
type Input struct {
	// Name becomes Unit.Name.
	Name string
	Path string
}

// LoadFunc reads the events of one Input.
type LoadFunc func(ctx context.Context, in Input) ([]chrometrace.Event, error)

// Options configures ProcessAll.
type Options struct {
	Match MatchOptions
	Mode  Mode
	// Workers bounds the number of Units processed at once. Zero means
	// GOMAXPROCS.
	Workers int
	// Validate checks each document against the clang trace schema. Ignored
	// when Load is set.
	Validate bool
	// Load replaces reading Input.Path as a clang trace.
	Load LoadFunc
}

// Result is the outcome of ProcessAll.
type Result struct {
	// Units holds one entry per Input that loaded, in Input order. Units
	// without Intervals are included.
	Units []*Unit
	// ByInput is parallel to the Inputs given to ProcessAll, with nil for
	// Inputs that were skipped. Unit names need not be unique, so callers
	// that pair outputs with Inputs use it instead of Units.
	ByInput []*Unit
	// Skipped aggregates the errors of Inputs that could not be loaded.
	Skipped error
}

// ProcessUnit runs matching, hierarchy and self time over the events of one
// compilation.
func ProcessUnit(name string, events []chrometrace.Event, opts Options) *Unit {
	u := &Unit{
		Name:      name,
		Intervals: Match(events, opts.Match),
	}
	u.BuildTime, u.HasBuildTime = BuildTime(events, opts.Match)
	mode := opts.Mode
	if mode == 0 {
		mode = FullAncestorMode
	}
	BuildHierarchy(u, mode)
	ComputeSelfTimes(u)
	return u
}

func loadClangTrace(validate bool) LoadFunc {
	return func(_ context.Context, in Input) ([]chrometrace.Event, error) {
		t, err := clangtrace.ReadFile(in.Path, validate)
		if err != nil {
			return nil, err
		}
		return t.TraceEvents, nil
	}
}

// ProcessAll loads and processes inputs concurrently. An Input that fails to
// load is skipped and its error collected in Result.Skipped. The returned
// error is only set when ctx is done before all Inputs were processed.
func ProcessAll(ctx context.Context, inputs []Input, opts Options) (*Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	load := opts.Load
	if load == nil {
		load = loadClangTrace(opts.Validate)
	}

	units := make([]*Unit, len(inputs))
	errs := make([]error, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range inputs {
		i, in := i, in
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			events, err := load(gctx, in)
			if err != nil {
				errs[i] = fmt.Errorf("skipping %s: %w", in.Name, err)
				logger.Warningf(gctx, "%v", errs[i])
				return nil
			}
			u := ProcessUnit(in.Name, events, opts)
			logger.Debugf(gctx, "%s: %d header intervals", u.Name, len(u.Intervals))
			units[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{ByInput: units}
	for i := range inputs {
		if units[i] != nil {
			res.Units = append(res.Units, units[i])
		}
		res.Skipped = multierr.Append(res.Skipped, errs[i])
	}
	logger.Debugf(ctx, "processed %d of %d traces", len(res.Units), len(inputs))
	return res, nil
}

// NonEmpty returns the Units that have at least one Interval, in order.
func NonEmpty(units []*Unit) []*Unit {
	var out []*Unit
	for _, u := range units {
		if !u.Empty() {
			out = append(out, u)
		}
	}
	return out
}

// RequireIntervals returns the non-empty Units, or ErrNoIntervals if there
// are none. Aggregate outputs use it; a single Unit without Intervals still
// serializes to a valid empty document.
func RequireIntervals(units []*Unit) ([]*Unit, error) {
	out := NonEmpty(units)
	if len(out) == 0 {
		return nil, ErrNoIntervals
	}
	return out, nil
}

// Diagnostics combines the diagnostics of units.
func Diagnostics(units []*Unit) error {
	var errs error
	for _, u := range units {
		errs = multierr.Append(errs, u.Diagnostics)
	}
	return errs
}
