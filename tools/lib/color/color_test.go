// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package color

import (
	"fmt"
	"testing"
)

func TestColors(t *testing.T) {
	c := NewColor(ColorAlways)
	for _, tc := range []struct {
		code Code
		fn   func(string, ...interface{}) string
	}{
		{RedFg, c.Red},
		{GreenFg, c.Green},
		{YellowFg, c.Yellow},
		{BlueFg, c.Blue},
		{CyanFg, c.Cyan},
	} {
		want := fmt.Sprintf("%s%dm%s%s", escape, tc.code, "header.h", clear)
		if got := tc.fn("%s.h", "header"); got != want {
			t.Errorf("color %d: got %q, want %q", tc.code, got, want)
		}
		if got := c.WithColor(tc.code, "%s.h", "header"); got != want {
			t.Errorf("WithColor(%d): got %q, want %q", tc.code, got, want)
		}
	}
	if got := c.WithColor(DefaultFg, "plain"); got != "plain" {
		t.Errorf("WithColor(DefaultFg) = %q, want %q", got, "plain")
	}
}

func TestColorsDisabled(t *testing.T) {
	c := NewColor(ColorNever)
	if c.Enabled() {
		t.Fatalf("ColorNever returned an enabled color")
	}
	for _, fn := range []func(string, ...interface{}) string{c.Red, c.Green, c.Yellow, c.Blue, c.Cyan} {
		if got := fn("%d ms", 12); got != "12 ms" {
			t.Errorf("got %q, want %q", got, "12 ms")
		}
	}
}

func TestEnableColorFlag(t *testing.T) {
	for _, s := range []string{"never", "auto", "always"} {
		var ec EnableColor
		if err := ec.Set(s); err != nil {
			t.Fatalf("Set(%q) failed: %v", s, err)
		}
		if got := ec.String(); got != s {
			t.Errorf("String() after Set(%q) = %q", s, got)
		}
	}
	var ec EnableColor
	if err := ec.Set("sometimes"); err == nil {
		t.Errorf("Set(%q) succeeded, want error", "sometimes")
	}
}
