// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/google/subcommands"

	"go.fuchsia.dev/includetrace/tools/build/includetrace"
	"go.fuchsia.dev/includetrace/tools/build/includetrace/summary"
	"go.fuchsia.dev/includetrace/tools/lib/color"
)

type summaryCmd struct {
	BaseCommand
	top int

	stdout io.Writer
}

func (*summaryCmd) Name() string { return "summary" }

func (*summaryCmd) Synopsis() string {
	return "print the most expensive headers"
}

func (*summaryCmd) Usage() string {
	return `includetrace summary [flags] <trace-or-dir>...

Prints one row per header file, most exclusive time first.

`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	c.BaseCommand.SetFlags(f)
	f.IntVar(&c.top, "top", 30, "number of headers to print. 0 prints all.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.execute(ctx, f, c.run)
}

func (c *summaryCmd) run(ctx context.Context, cfg includetrace.Config, inputs []includetrace.Input) error {
	res, err := process(ctx, cfg, inputs, includetrace.NearestParentMode)
	if err != nil {
		return err
	}
	units, err := aggregate(res.Units, inputs)
	if err != nil {
		return err
	}
	out := c.stdout
	if out == nil {
		out = os.Stdout
	}
	headers := summary.Summarize(units, cfg.Clock())
	return summary.Write(out, headers, len(units), c.top, color.NewColor(colors))
}
