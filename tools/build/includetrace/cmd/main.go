// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// includetrace reconstructs header inclusion hierarchies from clang
// -ftime-trace output and writes them as profiles and dashboards.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"syscall"

	"github.com/google/subcommands"

	"go.fuchsia.dev/includetrace/tools/lib/color"
	"go.fuchsia.dev/includetrace/tools/lib/command"
	"go.fuchsia.dev/includetrace/tools/lib/logger"
)

var (
	colors = color.ColorAuto
	level  = logger.InfoLevel
)

func init() {
	flag.Var(&colors, "color", "use color in output, can be never, auto, always")
	flag.Var(&level, "level", "output verbosity, can be fatal, error, warning, info, debug or trace")
}

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&profileCmd{}, "")
	subcommands.Register(&dashboardCmd{}, "")
	subcommands.Register(&pprofCmd{}, "")
	subcommands.Register(&summaryCmd{}, "")

	flag.Parse()

	l := logger.NewLogger(level, color.NewColor(colors), os.Stdout, os.Stderr, "includetrace ")
	l.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	ctx := logger.WithLogger(context.Background(), l)
	ctx, cancel := command.CancelOnSignals(ctx, syscall.SIGINT, syscall.SIGTERM)
	status := subcommands.Execute(ctx)
	cancel()
	os.Exit(int(status))
}
