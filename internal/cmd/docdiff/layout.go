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

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
	"znkr.io/docdiff"
	"znkr.io/docdiff/intraline"
	"znkr.io/docdiff/textdiff/color"
)

const (
	tabWidth    = 4
	numberWidth = 5
	separator   = " │ "
	ellipsis    = "…"
	minColumn   = 10
)

var cond = newCondition()

func newCondition() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	c.StrictEmojiNeutral = true
	return c
}

// textWidth returns the number of terminal columns of text.
func textWidth(text string) int {
	return cond.StringWidth(text)
}

// fit truncates text to at most width terminal columns without splitting a grapheme cluster. It
// returns the truncated text and its width.
func fit(text string, width int) (string, int) {
	used := 0
	iter := graphemes.FromString(text)
	for iter.Next() {
		w := cond.StringWidth(iter.Value())
		if used+w > width {
			return text[:iter.Start()], used
		}
		used += w
	}
	return text, used
}

// piece is a part of a cell. Changed pieces are colored according to the kind of the line.
type piece struct {
	text    string
	changed bool
}

// cell lays out pieces in exactly width columns, truncated with an ellipsis or padded with spaces.
func cell(pieces []piece, kind docdiff.Kind, width int, c color.Colors) string {
	total := 0
	for _, p := range pieces {
		total += textWidth(p.text)
	}
	avail := width
	if total > width {
		avail = width - textWidth(ellipsis)
	}

	var sb strings.Builder
	used := 0
	for _, p := range pieces {
		text, w := fit(p.text, avail-used)
		if p.changed {
			sb.WriteString(c.Line(kind, text))
		} else {
			sb.WriteString(text)
		}
		used += w
		if len(text) < len(p.text) {
			break
		}
	}
	if total > width {
		sb.WriteString(ellipsis)
		used += textWidth(ellipsis)
	}
	sb.WriteString(strings.Repeat(" ", max(0, width-used)))
	return sb.String()
}

// pieces splits the text of a line for display. Without intra-line segments, the whole line is a
// changed piece unless it's unchanged.
func pieces(l docdiff.Line, segs []intraline.Segment, marked bool) []piece {
	if segs == nil {
		return []piece{{text: expandTabs(l.Text), changed: l.Kind != docdiff.Unchanged}}
	}
	var out []piece
	for _, s := range segs {
		text := expandTabs(s.Text)
		changed := s.Added || s.Removed
		if changed && marked {
			switch {
			case s.Removed:
				text = "[-" + text + "-]"
			case s.Added:
				text = "{+" + text + "+}"
			}
		}
		out = append(out, piece{text: text, changed: changed})
	}
	return out
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func marker(kind docdiff.Kind) string {
	switch kind {
	case docdiff.Unchanged, docdiff.Phantom:
		return " "
	case docdiff.Removed:
		return "-"
	case docdiff.Added:
		return "+"
	default:
		panic(fmt.Sprintf("unknown line kind %v", kind))
	}
}

func number(n int) string {
	if n == 0 {
		return strings.Repeat(" ", numberWidth)
	}
	return fmt.Sprintf("%*s", numberWidth, strconv.Itoa(n))
}

// writeSplit writes the split view of r, the old text on the left and the new text on the right,
// in at most width columns.
func writeSplit(w io.Writer, r docdiff.Result, width int, c color.Colors) error {
	// Each side has a line number, a space, a marker and a space in front of its text.
	column := max(minColumn, (width-textWidth(separator))/2-numberWidth-2)
	marked := c == color.Colors{}
	for i := range r.SplitLeft {
		left, right := r.SplitLeft[i], r.SplitRight[i]

		var lsegs, rsegs []intraline.Segment
		if segs := r.Intraline(i); segs != nil {
			lsegs, rsegs = intraline.OldSide(segs), intraline.NewSide(segs)
		}

		row := number(left.Old) + " " + marker(left.Kind) + " " +
			cell(pieces(left, lsegs, marked), left.Kind, column, c) +
			separator +
			number(right.New) + " " + marker(right.Kind) + " " +
			cell(pieces(right, rsegs, marked), right.Kind, column, c)
		if _, err := io.WriteString(w, strings.TrimRight(row, " ")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// writeUnified writes the unified view of r, one line per row with both line numbers.
func writeUnified(w io.Writer, r docdiff.Result, c color.Colors) error {
	for _, l := range r.Unified {
		text := c.Line(l.Kind, marker(l.Kind)+" "+l.Text)
		if _, err := fmt.Fprintf(w, "%s %s %s\n", number(l.Old), number(l.New), text); err != nil {
			return err
		}
	}
	return nil
}
