// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package textdiff compares texts line by line and produces classic unified patches.
package textdiff

import (
	"fmt"
	"strings"

	"znkr.io/docdiff/internal/config"
	"znkr.io/docdiff/internal/myers"
	"znkr.io/docdiff/internal/rvecs"
)

const (
	prefixMatch  = " "
	prefixDelete = "-"
	prefixInsert = "+"
)

const missingNewline = "\n\\ No newline at end of file\n"

// Unified compares the lines in x and y and returns the changes necessary to convert from one to
// the other in unified format.
//
// The following options are supported: [Context], [znkr.io/docdiff.Optimal],
// [znkr.io/docdiff.IgnoreWhitespace]
//
// Important: The output is not guaranteed to be stable and may change with minor version upgrades.
// DO NOT rely on the output being stable.
func Unified(x, y string, opts ...Option) string {
	cfg := config.FromOptions(opts, config.Context|config.Optimal|config.IgnoreWhitespace)

	xlines, ylines := split(x), split(y)

	xkeys, ykeys := xlines, ylines
	if cfg.IgnoreWhitespace {
		xkeys, ykeys = trimmed(xlines), trimmed(ylines)
	}
	rx, ry := myers.Diff(xkeys, ykeys, func(a, b string) bool { return a == b }, cfg.Optimal)

	var b strings.Builder
	for h := range rvecs.Hunks(rx, ry, cfg.Context) {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", h.S0+1, h.S1-h.S0, h.T0+1, h.T1-h.T0)
		for s, t := h.S0, h.T0; s < h.S1 || t < h.T1; {
			for s < h.S1 && rx[s] {
				b.WriteString(prefixDelete)
				b.WriteString(xlines[s])
				s++
			}
			for t < h.T1 && ry[t] {
				b.WriteString(prefixInsert)
				b.WriteString(ylines[t])
				t++
			}
			for s < h.S1 && t < h.T1 && !rx[s] && !ry[t] {
				b.WriteString(prefixMatch)
				b.WriteString(xlines[s])
				s++
				t++
			}
		}
	}
	return b.String()
}

// split splits text into lines, every line includes its line break. The last line gets a
// missing newline marker if text doesn't end with a line break.
func split(text string) []string {
	lines := strings.SplitAfter(text, "\n")

	// SplitAfter adds an empty element after the last '\n', we need to remove it because it doesn't
	// count as a line for diffs. OTOH, if that line is missing, we know that the file is missing
	// a newline at the end. We fix that by appending a missing ending marker to the last element.
	if last := len(lines) - 1; lines[last] == "" {
		lines = lines[:last]
	} else {
		lines[last] += missingNewline
	}
	return lines
}

// trimmed returns the lines with leading and trailing whitespace removed, ignoring missing
// newline markers.
func trimmed(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimSpace(strings.TrimSuffix(l, missingNewline))
	}
	return out
}
