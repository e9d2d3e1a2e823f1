// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"go.fuchsia.dev/includetrace/tools/build/includetrace"
	"go.fuchsia.dev/includetrace/tools/build/includetrace/dashboard"
	"go.fuchsia.dev/includetrace/tools/lib/jsonutil"
	"go.fuchsia.dev/includetrace/tools/lib/logger"
)

type dashboardCmd struct {
	BaseCommand
	output string
}

func (*dashboardCmd) Name() string { return "dashboard" }

func (*dashboardCmd) Synopsis() string {
	return "write a compact include dashboard for all traces"
}

func (*dashboardCmd) Usage() string {
	return `includetrace dashboard [flags] <trace-or-dir>...

Writes the nearest-parent include forest of every trace as one dashboard
document, with file paths interned in a shared dictionary.

`
}

func (c *dashboardCmd) SetFlags(f *flag.FlagSet) {
	c.BaseCommand.SetFlags(f)
	f.StringVar(&c.output, "o", "includes.dashboard.json", "output path. A .gz or .zst suffix compresses it.")
}

func (c *dashboardCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.execute(ctx, f, c.run)
}

func (c *dashboardCmd) run(ctx context.Context, cfg includetrace.Config, inputs []includetrace.Input) error {
	res, err := process(ctx, cfg, inputs, includetrace.NearestParentMode)
	if err != nil {
		return err
	}
	units, err := aggregate(res.Units, inputs)
	if err != nil {
		return err
	}
	doc, err := dashboard.Build(units, cfg.Clock())
	if err != nil {
		return err
	}
	if err := jsonutil.WriteToFile(c.output, doc); err != nil {
		return err
	}
	logger.Infof(ctx, "wrote dashboard of %d traces and %d files to %s", doc.Metadata.CompilationUnits, doc.Metadata.Files, c.output)
	return nil
}
