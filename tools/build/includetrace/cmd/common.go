// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/subcommands"
	"go.uber.org/multierr"

	"go.fuchsia.dev/includetrace/tools/build/clangtrace"
	"go.fuchsia.dev/includetrace/tools/build/includetrace"
	"go.fuchsia.dev/includetrace/tools/lib/clock"
	"go.fuchsia.dev/includetrace/tools/lib/logger"
	"go.fuchsia.dev/includetrace/tools/lib/osmisc"
)

var errUsage = errors.New("usage error")

// BaseCommand holds the flags and the trace loading shared by all
// subcommands.
type BaseCommand struct {
	configPath string
	workers    int
	strict     bool
	validate   bool
	unitsPerMs float64
}

func (c *BaseCommand) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "path to a YAML config file. Flags override its values.")
	f.IntVar(&c.workers, "workers", 0, "number of traces processed at once. Defaults to GOMAXPROCS.")
	f.BoolVar(&c.strict, "strict", false, "fail if a trace has unloadable input or broken nesting.")
	f.BoolVar(&c.validate, "validate", false, "check every trace against the clang trace schema.")
	f.Float64Var(&c.unitsPerMs, "units-per-ms", includetrace.DefaultUnitsPerMillisecond, "trace timestamp units per millisecond.")
}

// config reads -config and applies the flags that were set on f.
func (c *BaseCommand) config(f *flag.FlagSet) (includetrace.Config, error) {
	cfg := includetrace.DefaultConfig()
	if c.configPath != "" {
		var err error
		if cfg, err = includetrace.LoadConfig(c.configPath); err != nil {
			return cfg, err
		}
	}
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "workers":
			cfg.Workers = c.workers
		case "strict":
			cfg.Strict = c.strict
		case "validate":
			cfg.Validate = c.validate
		case "units-per-ms":
			cfg.UnitsPerMillisecond = c.unitsPerMs
		}
	})
	return cfg, cfg.Check()
}

// execute validates the shared flags and arguments, then runs fn. Suitable
// for calling directly from the Execute method of a subcommand.
func (c *BaseCommand) execute(ctx context.Context, f *flag.FlagSet, fn func(context.Context, includetrace.Config, []includetrace.Input) error) subcommands.ExitStatus {
	if f.NArg() == 0 {
		logger.Errorf(ctx, "at least one trace file or build directory is required")
		return subcommands.ExitUsageError
	}
	cfg, err := c.config(f)
	if err != nil {
		logger.Errorf(ctx, "%s", err)
		return subcommands.ExitUsageError
	}
	inputs, err := resolveInputs(ctx, f.Args())
	if err != nil {
		logger.Errorf(ctx, "%s", err)
		return subcommands.ExitFailure
	}
	if err := fn(ctx, cfg, inputs); err != nil {
		if errors.Is(err, errUsage) {
			logger.Errorf(ctx, "%s", err)
			return subcommands.ExitUsageError
		}
		if cause := context.Cause(ctx); cause != nil {
			err = fmt.Errorf("%w: %v", err, cause)
		}
		logger.Errorf(ctx, "%s", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// resolveInputs turns command line arguments into Inputs. Directories are
// searched for traces that sit next to an object file.
func resolveInputs(ctx context.Context, args []string) ([]includetrace.Input, error) {
	var inputs []includetrace.Input
	var size int64
	for _, arg := range args {
		isDir, err := osmisc.IsDir(arg)
		if err != nil {
			return nil, err
		}
		if !isDir {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, err
			}
			size += info.Size()
			inputs = append(inputs, includetrace.Input{Name: clangtrace.UnitName(arg), Path: arg})
			continue
		}
		pairs, err := clangtrace.Discover(arg)
		if err != nil {
			return nil, err
		}
		if len(pairs) == 0 {
			logger.Warningf(ctx, "no clang traces found under %s; was the build run with -ftime-trace?", arg)
		}
		for _, p := range pairs {
			if info, err := os.Stat(p.Trace); err == nil {
				size += info.Size()
			}
			inputs = append(inputs, includetrace.Input{Name: p.Name, Path: p.Trace})
		}
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no clang traces in %v", args)
	}
	logger.Debugf(ctx, "found %d traces, %s", len(inputs), humanize.Bytes(uint64(size)))
	return inputs, nil
}

// process loads inputs and reconstructs their hierarchies in mode.
func process(ctx context.Context, cfg includetrace.Config, inputs []includetrace.Input, mode includetrace.Mode) (*includetrace.Result, error) {
	start := clock.Now(ctx)
	res, err := includetrace.ProcessAll(ctx, inputs, includetrace.Options{
		Match:    cfg.MatchOptions(),
		Mode:     mode,
		Workers:  cfg.Workers,
		Validate: cfg.Validate,
	})
	if err != nil {
		return nil, err
	}
	if len(res.Units) == 0 {
		return nil, fmt.Errorf("no trace could be loaded: %w", res.Skipped)
	}
	if res.Skipped != nil && cfg.Strict {
		return nil, res.Skipped
	}

	diags := multierr.Errors(includetrace.Diagnostics(res.Units))
	for _, d := range diags {
		logger.Warningf(ctx, "%s", d)
	}
	if len(diags) > 0 && cfg.Strict {
		return nil, fmt.Errorf("%d traces have malformed include nesting", countMalformed(res.Units))
	}

	var intervals int
	for _, u := range res.Units {
		intervals += len(u.Intervals)
	}
	logger.Infof(ctx, "reconstructed %s header inclusions from %d traces in %s",
		humanize.Comma(int64(intervals)), len(res.Units), clock.Since(ctx, start).Round(time.Millisecond))
	return res, nil
}

func countMalformed(units []*includetrace.Unit) int {
	var n int
	for _, u := range units {
		if u.Diagnostics != nil {
			n++
		}
	}
	return n
}

// aggregate returns the Units that go into a combined output. A run over a
// single input may produce an empty output, a run over several may not.
func aggregate(units []*includetrace.Unit, inputs []includetrace.Input) ([]*includetrace.Unit, error) {
	if len(inputs) == 1 {
		return includetrace.NonEmpty(units), nil
	}
	return includetrace.RequireIntervals(units)
}
