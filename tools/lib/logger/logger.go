// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package logger provides leveled logging carried through a context.
package logger

import (
	"context"
	"fmt"
	"io"
	goLog "log"
	"os"

	"go.fuchsia.dev/includetrace/tools/lib/color"
)

type loggerKey struct{}

// WithLogger returns a copy of ctx carrying l.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// LoggerFromContext returns the context logger if configured, otherwise nil.
func LoggerFromContext(ctx context.Context) *Logger {
	if v, ok := ctx.Value(loggerKey{}).(*Logger); ok && v != nil {
		return v
	}
	return nil
}

// LogLevel is the verbosity of a Logger. It implements flag.Value.
type LogLevel int

const (
	NoLogLevel LogLevel = iota
	FatalLevel
	ErrorLevel
	WarningLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

var levelToName = map[LogLevel]string{
	NoLogLevel:   "no",
	FatalLevel:   "fatal",
	ErrorLevel:   "error",
	WarningLevel: "warning",
	InfoLevel:    "info",
	DebugLevel:   "debug",
	TraceLevel:   "trace",
}

var nameToLevel = map[string]LogLevel{}

func init() {
	for level, name := range levelToName {
		nameToLevel[name] = level
	}
}

func (l *LogLevel) String() string {
	return levelToName[*l]
}

func (l *LogLevel) Set(s string) error {
	level, ok := nameToLevel[s]
	if !ok {
		return fmt.Errorf("%s is not a valid level", s)
	}
	*l = level
	return nil
}

// Logger writes messages at or below its level. Errors and fatal messages go
// to a separate writer.
type Logger struct {
	LoggerLevel LogLevel
	out         *goLog.Logger
	err         *goLog.Logger
	color       color.Color
	prefix      string
}

// NewLogger creates a Logger. Nil writers default to stdout and stderr.
func NewLogger(level LogLevel, c color.Color, outWriter, errWriter io.Writer, prefix string) *Logger {
	if outWriter == nil {
		outWriter = os.Stdout
	}
	if errWriter == nil {
		errWriter = os.Stderr
	}
	return &Logger{
		LoggerLevel: level,
		out:         goLog.New(outWriter, "", goLog.LstdFlags),
		err:         goLog.New(errWriter, "", goLog.LstdFlags),
		color:       c,
		prefix:      prefix,
	}
}

// SetFlags sets the standard log flags on both writers.
func (l *Logger) SetFlags(flags int) {
	l.out.SetFlags(flags)
	l.err.SetFlags(flags)
}

func (l *Logger) logf(level LogLevel, format string, a ...interface{}) {
	if l.LoggerLevel < level {
		return
	}
	msg := fmt.Sprintf(format, a...)
	switch level {
	case FatalLevel:
		l.err.Print(l.prefix + l.color.Red("FATAL: ") + msg)
		os.Exit(1)
	case ErrorLevel:
		l.err.Print(l.prefix + l.color.Red("ERROR: ") + msg)
	case WarningLevel:
		l.out.Print(l.prefix + l.color.Yellow("WARN: ") + msg)
	case InfoLevel:
		l.out.Print(l.prefix + msg)
	case DebugLevel:
		l.out.Print(l.prefix + l.color.Cyan("DEBUG: ") + msg)
	case TraceLevel:
		l.out.Print(l.prefix + l.color.Blue("TRACE: ") + msg)
	default:
		panic(fmt.Sprintf("undefined log level %d, message: %s", level, msg))
	}
}

func (l *Logger) Infof(format string, a ...interface{})    { l.logf(InfoLevel, format, a...) }
func (l *Logger) Debugf(format string, a ...interface{})   { l.logf(DebugLevel, format, a...) }
func (l *Logger) Tracef(format string, a ...interface{})   { l.logf(TraceLevel, format, a...) }
func (l *Logger) Warningf(format string, a ...interface{}) { l.logf(WarningLevel, format, a...) }
func (l *Logger) Errorf(format string, a ...interface{})   { l.logf(ErrorLevel, format, a...) }
func (l *Logger) Fatalf(format string, a ...interface{})   { l.logf(FatalLevel, format, a...) }

// Logf logs through the context logger, falling back to the standard logger
// when ctx carries none.
func Logf(ctx context.Context, level LogLevel, format string, a ...interface{}) {
	if l := LoggerFromContext(ctx); l != nil {
		l.logf(level, format, a...)
		return
	}
	goLog.Printf(format, a...)
	if level == FatalLevel {
		os.Exit(1)
	}
}

func Infof(ctx context.Context, format string, a ...interface{}) {
	Logf(ctx, InfoLevel, format, a...)
}

func Debugf(ctx context.Context, format string, a ...interface{}) {
	if l := LoggerFromContext(ctx); l != nil {
		l.logf(DebugLevel, format, a...)
	}
}

func Tracef(ctx context.Context, format string, a ...interface{}) {
	if l := LoggerFromContext(ctx); l != nil {
		l.logf(TraceLevel, format, a...)
	}
}

func Warningf(ctx context.Context, format string, a ...interface{}) {
	Logf(ctx, WarningLevel, format, a...)
}

func Errorf(ctx context.Context, format string, a ...interface{}) {
	Logf(ctx, ErrorLevel, format, a...)
}

func Fatalf(ctx context.Context, format string, a ...interface{}) {
	Logf(ctx, FatalLevel, format, a...)
}
