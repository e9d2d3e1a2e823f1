// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package includetrace

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v2"
)

// Config holds the settings shared by every includetrace command. It is read
// from a YAML file and then overridden by command line flags.
type Config struct {
	HeaderEvent    string `yaml:"header_event"`
	HeaderCategory string `yaml:"header_category"`
	BuildEvent     string `yaml:"build_event"`

	// UnitsPerMillisecond is the trace clock rate, see Clock.
	UnitsPerMillisecond float64 `yaml:"units_per_millisecond"`
	// UnitRootFrames prefixes every stack with a frame naming its Unit.
	UnitRootFrames bool `yaml:"unit_root_frames"`

	Workers  int  `yaml:"workers"`
	Strict   bool `yaml:"strict"`
	Validate bool `yaml:"validate"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		HeaderEvent:         DefaultHeaderEvent,
		BuildEvent:          DefaultBuildEvent,
		UnitsPerMillisecond: DefaultUnitsPerMillisecond,
		UnitRootFrames:      true,
		Workers:             runtime.GOMAXPROCS(0),
	}
}

// LoadConfig reads path over DefaultConfig. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.UnmarshalStrict(b, &c); err != nil {
		return c, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := c.Check(); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Check reports settings that cannot work.
func (c Config) Check() error {
	if c.UnitsPerMillisecond <= 0 {
		return fmt.Errorf("units_per_millisecond must be positive, got %v", c.UnitsPerMillisecond)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.HeaderEvent == "" {
		return fmt.Errorf("header_event must not be empty")
	}
	return nil
}

// MatchOptions returns the event selection of c.
func (c Config) MatchOptions() MatchOptions {
	return MatchOptions{
		HeaderEvent:    c.HeaderEvent,
		HeaderCategory: c.HeaderCategory,
		BuildEvent:     c.BuildEvent,
	}
}

// Clock returns the trace clock of c.
func (c Config) Clock() Clock {
	return Clock{UnitsPerMillisecond: c.UnitsPerMillisecond}
}
