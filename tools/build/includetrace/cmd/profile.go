// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"go.fuchsia.dev/includetrace/tools/build/clangtrace"
	"go.fuchsia.dev/includetrace/tools/build/includetrace"
	"go.fuchsia.dev/includetrace/tools/build/includetrace/profiletable"
	"go.fuchsia.dev/includetrace/tools/lib/jsonutil"
	"go.fuchsia.dev/includetrace/tools/lib/logger"
)

const profileSuffix = ".profile.json"

type profileCmd struct {
	BaseCommand
	merge  bool
	outDir string
	output string
}

func (*profileCmd) Name() string { return "profile" }

func (*profileCmd) Synopsis() string {
	return "write header inclusions as profile-table documents"
}

func (*profileCmd) Usage() string {
	return `includetrace profile [flags] <trace-or-dir>...

Writes one profile document per trace, next to the trace or under -out-dir.
With -merge, all traces are laid end to end in a single document at -o.
Outputs ending in .gz or .zst are compressed.

`
}

func (c *profileCmd) SetFlags(f *flag.FlagSet) {
	c.BaseCommand.SetFlags(f)
	f.BoolVar(&c.merge, "merge", false, "write a single document for all traces.")
	f.StringVar(&c.outDir, "out-dir", "", "directory for per-trace documents. Defaults to the directory of each trace.")
	f.StringVar(&c.output, "o", "includes"+profileSuffix, "output path with -merge.")
}

func (c *profileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.execute(ctx, f, c.run)
}

func (c *profileCmd) run(ctx context.Context, cfg includetrace.Config, inputs []includetrace.Input) error {
	if c.merge && c.outDir != "" {
		return fmt.Errorf("%w: -out-dir cannot be used with -merge", errUsage)
	}
	res, err := process(ctx, cfg, inputs, includetrace.FullAncestorMode)
	if err != nil {
		return err
	}
	if c.merge {
		return c.writeMerged(ctx, cfg, res.Units, inputs)
	}

	paths := make([]string, len(inputs))
	owner := make(map[string]string, len(inputs))
	for i, in := range inputs {
		if res.ByInput[i] == nil {
			continue
		}
		paths[i] = profilePath(in, c.outDir)
		if prev, ok := owner[paths[i]]; ok {
			return fmt.Errorf("profiles of %s and %s would both be written to %s", prev, in.Path, paths[i])
		}
		owner[paths[i]] = in.Path
	}
	for i, in := range inputs {
		u, path := res.ByInput[i], paths[i]
		if u == nil {
			continue
		}
		pc := profiletable.NewContext(cfg.Clock(), cfg.UnitRootFrames)
		if err := pc.AddUnit(u); err != nil {
			return err
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := jsonutil.WriteToFile(path, profiletable.NewDocument(pc, u.Name)); err != nil {
			return fmt.Errorf("writing profile of %s: %w", in.Path, err)
		}
		logger.Debugf(ctx, "wrote %s", path)
	}
	return nil
}

func (c *profileCmd) writeMerged(ctx context.Context, cfg includetrace.Config, units []*includetrace.Unit, inputs []includetrace.Input) error {
	units, err := aggregate(units, inputs)
	if err != nil {
		return err
	}
	pc := profiletable.NewContext(cfg.Clock(), cfg.UnitRootFrames)
	if err := pc.AddPlacements(includetrace.Merge(units)); err != nil {
		return err
	}
	if err := jsonutil.WriteToFile(c.output, profiletable.NewDocument(pc, "includes")); err != nil {
		return err
	}
	logger.Infof(ctx, "wrote merged profile of %d traces to %s", len(units), c.output)
	return nil
}

// profilePath names the per-trace document of in. Under outDir the path
// mirrors the Unit name so traces from different directories do not clash.
func profilePath(in includetrace.Input, outDir string) string {
	if outDir == "" {
		return stem(in.Path) + profileSuffix
	}
	return filepath.Join(outDir, filepath.FromSlash(stem(in.Name))) + profileSuffix
}

func stem(path string) string {
	if s := clangtrace.TrimExtension(path); s != path {
		return s
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}
