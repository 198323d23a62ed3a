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

package docdiff

import (
	"regexp"
	"strings"

	"znkr.io/docdiff/internal/config"
	"znkr.io/docdiff/internal/myers"
	"znkr.io/docdiff/internal/rvecs"
	"znkr.io/docdiff/internal/slider"
	"znkr.io/docdiff/intraline"
)

// Kind describes a line in a result.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=Kind -linecomment
type Kind int

const (
	Unchanged Kind = iota // unchanged
	Removed               // removed
	Added                 // added
	Phantom               // phantom
)

// Line is a line in a result.
//
//   - Unchanged lines have both line numbers.
//   - Removed lines only have the Old line number, added lines only the New one.
//   - Phantom lines pad a side of the split view, they have no text and no line numbers.
//
// Line numbers start at 1. A line number of 0 means the line doesn't exist on that side.
type Line struct {
	Kind     Kind
	Text     string
	Old, New int
}

// Change is a maximal run of lines of the same kind. Removed runs only have Old lines, added runs
// only New lines. Unchanged runs have both, they only differ with [IgnoreWhitespace].
type Change struct {
	Kind     Kind
	Old, New []string
}

// Result is the alignment of two texts.
//
// SplitLeft and SplitRight always have the same length, lines at the same index are shown next to
// each other. A removed run directly followed by an added run is a replacement block: its lines
// are paired row by row and the shorter side is padded with phantom lines. Other changes are
// padded with phantom lines on the other side.
type Result struct {
	SplitLeft  []Line
	SplitRight []Line
	Unified    []Line

	// Granularity of the intra-line diffs returned by [Result.Intraline].
	Granularity intraline.Granularity
}

// Intraline returns the intra-line diff of row i of the split view. It returns nil unless the row
// pairs a removed with an added line and the granularity is finer than [intraline.Lines].
func (r Result) Intraline(i int) []intraline.Segment {
	if i < 0 || i >= len(r.SplitLeft) {
		return nil
	}
	left, right := r.SplitLeft[i], r.SplitRight[i]
	if left.Kind != Removed || right.Kind != Added {
		return nil
	}
	return intraline.Diff(left.Text, right.Text, r.Granularity)
}

// Stats counts the lines of a result.
type Stats struct {
	Added, Removed, Unchanged int
}

// Stats returns the number of added, removed, and unchanged lines.
func (r Result) Stats() Stats {
	var st Stats
	for _, l := range r.Unified {
		switch l.Kind {
		case Unchanged:
			st.Unchanged++
		case Removed:
			st.Removed++
		case Added:
			st.Added++
		}
	}
	return st
}

// Equal reports whether the compared texts have no differences.
func (r Result) Equal() bool {
	st := r.Stats()
	return st.Added == 0 && st.Removed == 0
}

// Align compares the lines of oldText and newText and returns the unified and split views.
//
// Lines are separated by "\n", a "\r" before it is part of the line break. A final line break
// doesn't start another line.
//
// The following options are supported: [IgnoreWhitespace], [IgnoreBlankLines], [IgnoreComments],
// [Granularity], [Optimal], [AlignBlocks]
func Align(oldText, newText string, opts ...Option) Result {
	cfg := config.FromOptions(opts, config.Align)
	return align(oldText, newText, cfg)
}

// Changes compares the lines of oldText and newText and returns the alternating runs of changed
// and unchanged lines. Within a changed region removed lines come first.
//
// The following options are supported: [IgnoreWhitespace], [IgnoreBlankLines], [IgnoreComments],
// [Optimal], [AlignBlocks]
func Changes(oldText, newText string, opts ...Option) []Change {
	cfg := config.FromOptions(opts, config.Align&^config.Granularity)
	return changes(oldText, newText, cfg)
}

func align(oldText, newText string, cfg config.Config) Result {
	return derive(changes(oldText, newText, cfg), cfg.Granularity)
}

var comment = regexp.MustCompile(`(?s)<!--.*?-->`)

// lines splits text into lines after applying the preprocessing options.
func lines(text string, cfg config.Config) []string {
	if cfg.IgnoreComments {
		text = comment.ReplaceAllString(text, "")
	}
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	out := strings.Split(text, "\n")
	n := 0
	for _, l := range out {
		l = strings.TrimSuffix(l, "\r")
		if cfg.IgnoreBlankLines && strings.TrimSpace(l) == "" {
			continue
		}
		out[n] = l
		n++
	}
	return out[:n]
}

func changes(oldText, newText string, cfg config.Config) []Change {
	x, y := lines(oldText, cfg), lines(newText, cfg)

	// Lines are compared by key, the text of a line is only used for the output.
	xk, yk := x, y
	if cfg.IgnoreWhitespace {
		xk, yk = trimmed(x), trimmed(y)
	}
	eq := func(a, b string) bool { return a == b }
	rx, ry := myers.Diff(xk, yk, eq, cfg.Optimal)
	if cfg.AlignBlocks {
		slider.Apply(xk, yk, rx, ry, eq)
	}

	var out []Change
	for run := range rvecs.Runs(rx, ry) {
		switch run.Op {
		case rvecs.Match:
			out = append(out, Change{Kind: Unchanged, Old: x[run.S0:run.S1], New: y[run.T0:run.T1]})
		case rvecs.Delete:
			out = append(out, Change{Kind: Removed, Old: x[run.S0:run.S1]})
		case rvecs.Insert:
			out = append(out, Change{Kind: Added, New: y[run.T0:run.T1]})
		default:
			panic("never reached")
		}
	}
	return out
}

func trimmed(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimSpace(l)
	}
	return out
}

// derive builds the unified and split views from a sequence of changes.
func derive(changes []Change, g intraline.Granularity) Result {
	r := Result{Granularity: g}
	o, n := 1, 1 // next line numbers
	for i := 0; i < len(changes); i++ {
		c := changes[i]
		switch c.Kind {
		case Unchanged:
			for j := range c.Old {
				r.Unified = append(r.Unified, Line{Kind: Unchanged, Text: c.Old[j], Old: o, New: n})
				r.SplitLeft = append(r.SplitLeft, Line{Kind: Unchanged, Text: c.Old[j], Old: o, New: n})
				r.SplitRight = append(r.SplitRight, Line{Kind: Unchanged, Text: c.New[j], Old: o, New: n})
				o++
				n++
			}
		case Removed, Added:
			removed, added := c.Old, c.New
			if c.Kind == Removed && i+1 < len(changes) && changes[i+1].Kind == Added {
				added = changes[i+1].New
				i++
			}
			for _, l := range removed {
				r.Unified = append(r.Unified, Line{Kind: Removed, Text: l, Old: o})
				r.SplitLeft = append(r.SplitLeft, Line{Kind: Removed, Text: l, Old: o})
				o++
			}
			for _, l := range added {
				r.Unified = append(r.Unified, Line{Kind: Added, Text: l, New: n})
				r.SplitRight = append(r.SplitRight, Line{Kind: Added, Text: l, New: n})
				n++
			}
			for len(r.SplitLeft) < len(r.SplitRight) {
				r.SplitLeft = append(r.SplitLeft, Line{Kind: Phantom})
			}
			for len(r.SplitRight) < len(r.SplitLeft) {
				r.SplitRight = append(r.SplitRight, Line{Kind: Phantom})
			}
		default:
			panic("never reached")
		}
	}
	return r
}
