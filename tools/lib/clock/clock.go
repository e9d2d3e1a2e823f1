// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package clock lets commands read the wall clock through a Context so that
// reported run times can be faked in tests.
package clock

import (
	"context"
	"time"
)

type clock interface {
	Now() time.Time
}

type clockKeyType struct{}

// NewContext returns a copy of ctx that reads time from c.
func NewContext(ctx context.Context, c clock) context.Context {
	return context.WithValue(ctx, clockKeyType{}, c)
}

// Now returns the time of the clock attached to ctx, or time.Now.
func Now(ctx context.Context) time.Time {
	if c, ok := ctx.Value(clockKeyType{}).(clock); ok && c != nil {
		return c.Now()
	}
	return time.Now()
}

// Since is time.Since for the clock attached to ctx.
func Since(ctx context.Context, t time.Time) time.Duration {
	return Now(ctx).Sub(t)
}

// FakeClock is a clock that only moves when advanced.
type FakeClock struct {
	now time.Time
}

func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Unix(0, 0)}
}

func (c *FakeClock) Now() time.Time { return c.now }

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
