// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package color wraps log and report text in ANSI color escapes when the
// output is a terminal.
package color

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	escape = "\033["
	clear  = escape + "0m"
)

// Code is an ANSI foreground color code.
type Code int

const (
	RedFg Code = iota + 31
	GreenFg
	YellowFg
	BlueFg
	MagentaFg
	CyanFg
	// DefaultFg leaves text uncolored.
	DefaultFg Code = 39
)

// Color formats text, optionally wrapped in a color escape.
type Color interface {
	Red(format string, a ...interface{}) string
	Green(format string, a ...interface{}) string
	Yellow(format string, a ...interface{}) string
	Blue(format string, a ...interface{}) string
	Cyan(format string, a ...interface{}) string
	WithColor(code Code, format string, a ...interface{}) string
	Enabled() bool
}

type ansi struct{}

func (ansi) Red(format string, a ...interface{}) string    { return wrap(RedFg, format, a...) }
func (ansi) Green(format string, a ...interface{}) string  { return wrap(GreenFg, format, a...) }
func (ansi) Yellow(format string, a ...interface{}) string { return wrap(YellowFg, format, a...) }
func (ansi) Blue(format string, a ...interface{}) string   { return wrap(BlueFg, format, a...) }
func (ansi) Cyan(format string, a ...interface{}) string   { return wrap(CyanFg, format, a...) }
func (ansi) WithColor(code Code, format string, a ...interface{}) string {
	return wrap(code, format, a...)
}
func (ansi) Enabled() bool { return true }

func wrap(c Code, format string, a ...interface{}) string {
	if c == DefaultFg {
		return fmt.Sprintf(format, a...)
	}
	return fmt.Sprintf("%s%dm%s%s", escape, c, fmt.Sprintf(format, a...), clear)
}

type monochrome struct{}

func (monochrome) Red(format string, a ...interface{}) string    { return fmt.Sprintf(format, a...) }
func (monochrome) Green(format string, a ...interface{}) string  { return fmt.Sprintf(format, a...) }
func (monochrome) Yellow(format string, a ...interface{}) string { return fmt.Sprintf(format, a...) }
func (monochrome) Blue(format string, a ...interface{}) string   { return fmt.Sprintf(format, a...) }
func (monochrome) Cyan(format string, a ...interface{}) string   { return fmt.Sprintf(format, a...) }
func (monochrome) WithColor(_ Code, format string, a ...interface{}) string {
	return fmt.Sprintf(format, a...)
}
func (monochrome) Enabled() bool { return false }

// EnableColor selects when color is used. It implements flag.Value.
type EnableColor int

const (
	ColorNever EnableColor = iota
	ColorAuto
	ColorAlways
)

func terminalSupportsColor() bool {
	switch os.Getenv("TERM") {
	case "dumb", "":
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd())
}

// NewColor returns a Color honoring ec. ColorAuto enables color only when
// stderr is a terminal.
func NewColor(ec EnableColor) Color {
	enabled := ec == ColorAlways
	if ec == ColorAuto {
		enabled = terminalSupportsColor()
	}
	if enabled {
		return ansi{}
	}
	return monochrome{}
}

func (ec *EnableColor) String() string {
	switch *ec {
	case ColorNever:
		return "never"
	case ColorAuto:
		return "auto"
	case ColorAlways:
		return "always"
	}
	return ""
}

func (ec *EnableColor) Set(s string) error {
	switch s {
	case "never":
		*ec = ColorNever
	case "auto":
		*ec = ColorAuto
	case "always":
		*ec = ColorAlways
	default:
		return fmt.Errorf("%s is not a valid color value", s)
	}
	return nil
}
