// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package summary aggregates include hierarchies per header file.
package summary

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/stat"

	"go.fuchsia.dev/includetrace/tools/build/includetrace"
	"go.fuchsia.dev/includetrace/tools/lib/color"
)

// Header is the cost of one header file across all Units.
type Header struct {
	File string
	// Count is the number of times the header was entered.
	Count int
	// Units is the number of Units that include the header.
	Units int
	// Total and Self are summed over every inclusion, in milliseconds.
	Total float64
	Self  float64
	// P50 and P90 are quantiles of the inclusive time of one inclusion.
	P50 float64
	P90 float64
}

// Summarize returns one Header per distinct file, most expensive self time
// first. Headers entered recursively count each inclusion separately.
func Summarize(units []*includetrace.Unit, clock includetrace.Clock) []Header {
	type acc struct {
		h      Header
		totals []float64
		seen   map[*includetrace.Unit]bool
	}
	byFile := map[string]*acc{}
	for _, u := range units {
		for _, iv := range u.Intervals {
			a, ok := byFile[iv.File]
			if !ok {
				a = &acc{h: Header{File: iv.File}, seen: map[*includetrace.Unit]bool{}}
				byFile[iv.File] = a
			}
			total := clock.Milliseconds(iv.Duration())
			a.h.Count++
			a.h.Total += total
			a.h.Self += clock.Milliseconds(iv.Self)
			a.totals = append(a.totals, total)
			if !a.seen[u] {
				a.seen[u] = true
				a.h.Units++
			}
		}
	}

	headers := make([]Header, 0, len(byFile))
	for _, a := range byFile {
		sort.Float64s(a.totals)
		a.h.P50 = stat.Quantile(0.5, stat.Empirical, a.totals, nil)
		a.h.P90 = stat.Quantile(0.9, stat.Empirical, a.totals, nil)
		headers = append(headers, a.h)
	}
	sort.Slice(headers, func(i, j int) bool {
		if headers[i].Self != headers[j].Self {
			return headers[i].Self > headers[j].Self
		}
		return headers[i].File < headers[j].File
	})
	return headers
}

// Write prints the first top headers as a table; top <= 0 prints all of
// them. units is the number of Units the headers were computed from.
func Write(w io.Writer, headers []Header, units, top int, c color.Color) error {
	if top > 0 && len(headers) > top {
		headers = headers[:top]
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "SELF ms\tTOTAL ms\tCOUNT\tUNITS\tP50 ms\tP90 ms\t\t")
	for _, h := range headers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\t%.1f\t\t%s\n",
			humanize.CommafWithDigits(h.Self, 1),
			humanize.CommafWithDigits(h.Total, 1),
			humanize.Comma(int64(h.Count)),
			unitShare(h.Units, units),
			h.P50,
			h.P90,
			c.Cyan("%s", h.File),
		)
	}
	return tw.Flush()
}

func unitShare(n, total int) string {
	if total <= 0 {
		return humanize.Comma(int64(n))
	}
	return fmt.Sprintf("%s (%.0f%%)", humanize.Comma(int64(n)), 100*float64(n)/float64(total))
}
