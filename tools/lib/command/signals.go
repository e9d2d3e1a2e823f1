// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package command holds helpers shared by the command line entry points.
package command

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

// SignalError is the cancellation cause of a context canceled by
// CancelOnSignals.
type SignalError struct {
	Signal os.Signal
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("received signal %v", e.Signal)
}

// CancelOnSignals returns a Context that is canceled when any of sigs is
// received. context.Cause of the returned Context is then a *SignalError.
// The returned CancelFunc stops listening for the signals.
func CancelOnSignals(ctx context.Context, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(ctx)
	c := make(chan os.Signal, 1)
	signal.Notify(c, sigs...)
	go func() {
		defer signal.Stop(c)
		select {
		case <-ctx.Done():
		case sig := <-c:
			cancel(&SignalError{Signal: sig})
		}
	}()
	return ctx, func() { cancel(context.Canceled) }
}
