// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package includetrace

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrNoIntervals is returned when an aggregate run finds no Unit with any
// header Intervals.
var ErrNoIntervals = errors.New("no header intervals found in any trace")

// AnomalyKind classifies a MalformedTraceError.
type AnomalyKind int

const (
	// NonLaminar marks two Intervals that partially overlap.
	NonLaminar AnomalyKind = iota + 1
	// NegativeSelfTime marks an Interval whose direct children outlast it.
	NegativeSelfTime
)

func (k AnomalyKind) String() string {
	switch k {
	case NonLaminar:
		return "non-laminar intervals"
	case NegativeSelfTime:
		return "negative self time"
	}
	return fmt.Sprintf("AnomalyKind(%d)", int(k))
}

// MalformedTraceError describes an invariant violation found in a Unit.
type MalformedTraceError struct {
	Unit  string
	Kind  AnomalyKind
	File  string
	Start int64
	End   int64
	// Value is the overlapping Interval's file for NonLaminar and the self
	// time for NegativeSelfTime.
	Value interface{}
}

func (e *MalformedTraceError) Error() string {
	switch e.Kind {
	case NonLaminar:
		return fmt.Sprintf("%s: %s: %s [%d, %d] partially overlaps %v", e.Unit, e.Kind, e.File, e.Start, e.End, e.Value)
	case NegativeSelfTime:
		return fmt.Sprintf("%s: %s: %s [%d, %d] has self time %v", e.Unit, e.Kind, e.File, e.Start, e.End, e.Value)
	}
	return fmt.Sprintf("%s: %s: %s [%d, %d]", e.Unit, e.Kind, e.File, e.Start, e.End)
}

// maxDiagnosticsPerKind bounds the errors kept per Unit and kind; a single
// broken trace can otherwise produce a quadratic number of them.
const maxDiagnosticsPerKind = 16

type suppressedError struct {
	unit string
	kind AnomalyKind
	n    int
}

func (e *suppressedError) Error() string {
	return fmt.Sprintf("%s: %d more %s diagnostics suppressed", e.unit, e.n, e.kind)
}

// diagnostics collects the anomalies of one kind found in one pass over a
// Unit.
type diagnostics struct {
	unit    string
	kind    AnomalyKind
	errs    []error
	dropped int
}

func (d *diagnostics) add(iv *Interval, value interface{}) {
	if len(d.errs) >= maxDiagnosticsPerKind {
		d.dropped++
		return
	}
	d.errs = append(d.errs, &MalformedTraceError{
		Unit:  d.unit,
		Kind:  d.kind,
		File:  iv.File,
		Start: iv.Start,
		End:   iv.End,
		Value: value,
	})
}

// store replaces the diagnostics of d's kind on u, so repeating a pass does
// not report the same anomaly twice.
func (d *diagnostics) store(u *Unit) {
	var kept []error
	for _, err := range multierr.Errors(u.Diagnostics) {
		var m *MalformedTraceError
		var s *suppressedError
		switch {
		case errors.As(err, &m) && m.Kind == d.kind:
		case errors.As(err, &s) && s.kind == d.kind:
		default:
			kept = append(kept, err)
		}
	}
	kept = append(kept, d.errs...)
	if d.dropped > 0 {
		kept = append(kept, &suppressedError{unit: d.unit, kind: d.kind, n: d.dropped})
	}
	u.Diagnostics = multierr.Combine(kept...)
}

// Malformed returns the MalformedTraceErrors recorded on u.
func Malformed(u *Unit) []*MalformedTraceError {
	var out []*MalformedTraceError
	for _, err := range multierr.Errors(u.Diagnostics) {
		var m *MalformedTraceError
		if errors.As(err, &m) {
			out = append(out, m)
		}
	}
	return out
}
