// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"go.fuchsia.dev/includetrace/tools/build/includetrace"
	"go.fuchsia.dev/includetrace/tools/build/includetrace/pprofexport"
	"go.fuchsia.dev/includetrace/tools/lib/logger"
)

type pprofCmd struct {
	BaseCommand
	output string
}

func (*pprofCmd) Name() string { return "pprof" }

func (*pprofCmd) Synopsis() string {
	return "write header self times as a pprof profile"
}

func (*pprofCmd) Usage() string {
	return `includetrace pprof [flags] <trace-or-dir>...

Writes a gzipped pprof profile with one sample per header inclusion. View it
with "go tool pprof -http=: <file>".

`
}

func (c *pprofCmd) SetFlags(f *flag.FlagSet) {
	c.BaseCommand.SetFlags(f)
	f.StringVar(&c.output, "o", "includes.pb.gz", "output path.")
}

func (c *pprofCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.execute(ctx, f, c.run)
}

func (c *pprofCmd) run(ctx context.Context, cfg includetrace.Config, inputs []includetrace.Input) (err error) {
	res, err := process(ctx, cfg, inputs, includetrace.FullAncestorMode)
	if err != nil {
		return err
	}
	units, err := aggregate(res.Units, inputs)
	if err != nil {
		return err
	}
	f, err := os.Create(c.output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := pprofexport.Write(f, units, cfg.Clock(), cfg.UnitRootFrames); err != nil {
		return fmt.Errorf("writing %s: %w", c.output, err)
	}
	logger.Infof(ctx, "wrote pprof profile of %d traces to %s", len(units), c.output)
	return nil
}
