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

// Package intraline computes the differences within a pair of lines, for example a line that was
// replaced by another line in a side-by-side view.
package intraline

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"znkr.io/docdiff/internal/myers"
	"znkr.io/docdiff/internal/rvecs"
)

// Granularity describes the unit of an intra-line diff.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=Granularity -linecomment
type Granularity int

const (
	Lines Granularity = iota // lines
	Words                    // words
	Chars                    // chars
)

// ParseGranularity returns the granularity with the given name ("lines", "words", or "chars").
func ParseGranularity(s string) (Granularity, error) {
	for g := Lines; g <= Chars; g++ {
		if g.String() == s {
			return g, nil
		}
	}
	return Lines, fmt.Errorf("unknown granularity %q", s)
}

// Segment is a piece of text that is common to both lines, or only part of the removed or the
// added line.
type Segment struct {
	Text    string
	Added   bool
	Removed bool
}

// Diff compares the removed and the added line and returns the segments of both lines in order.
// Within a changed region, removed segments precede added segments.
//
// For Lines, there is no intra-line diff and Diff returns nil.
func Diff(removed, added string, g Granularity) []Segment {
	var x, y []string
	switch g {
	case Lines:
		return nil
	case Words:
		x, y = words(removed), words(added)
	case Chars:
		x, y = chars(removed), chars(added)
	default:
		panic(fmt.Sprintf("unknown granularity: %v", g))
	}

	rx, ry := myers.Diff(x, y, func(a, b string) bool { return a == b }, false)
	var segs []Segment
	for run := range rvecs.Runs(rx, ry) {
		switch run.Op {
		case rvecs.Match:
			segs = append(segs, Segment{Text: strings.Join(x[run.S0:run.S1], "")})
		case rvecs.Delete:
			segs = append(segs, Segment{Text: strings.Join(x[run.S0:run.S1], ""), Removed: true})
		case rvecs.Insert:
			segs = append(segs, Segment{Text: strings.Join(y[run.T0:run.T1], ""), Added: true})
		default:
			panic("never reached")
		}
	}
	return segs
}

// OldSide returns the segments shown for the removed line: common and removed segments.
func OldSide(segs []Segment) []Segment {
	var out []Segment
	for _, s := range segs {
		if !s.Added {
			out = append(out, s)
		}
	}
	return out
}

// NewSide returns the segments shown for the added line: common and added segments.
func NewSide(segs []Segment) []Segment {
	var out []Segment
	for _, s := range segs {
		if !s.Removed {
			out = append(out, s)
		}
	}
	return out
}

// words splits s into alternating runs of whitespace and non-whitespace.
func words(s string) []string {
	var out []string
	start := 0
	inSpace := false
	for i, r := range s {
		space := unicode.IsSpace(r)
		if i > start && space != inSpace {
			out = append(out, s[start:i])
			start = i
		}
		inSpace = space
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// chars splits s into code points.
func chars(s string) []string {
	out := make([]string, 0, utf8.RuneCountInString(s))
	for len(s) > 0 {
		_, n := utf8.DecodeRuneInString(s)
		out = append(out, s[:n])
		s = s[n:]
	}
	return out
}
