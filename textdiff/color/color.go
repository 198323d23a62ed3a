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

// Package color adds ANSI terminal colors to diffs.
package color

import (
	"fmt"
	"strings"

	"znkr.io/docdiff"
)

// Colors holds the escape sequences used for the parts of a diff. An empty sequence leaves the
// part uncolored.
type Colors struct {
	HunkHeader string
	Match      string
	Delete     string
	Insert     string
}

// A Option makes it possible to configure custom colors in [New].
type Option func(*Colors)

// HunkHeaders colors hunk headers, the "@@ ... @@" part of the unified diff.
func HunkHeaders(params ...int) Option {
	code := format(params)
	return func(c *Colors) {
		c.HunkHeader = code
	}
}

// Matches colors matching lines.
func Matches(params ...int) Option {
	code := format(params)
	return func(c *Colors) {
		c.Match = code
	}
}

// Deletes colors deleted lines.
func Deletes(params ...int) Option {
	code := format(params)
	return func(c *Colors) {
		c.Delete = code
	}
}

// Inserts colors inserted lines.
func Inserts(params ...int) Option {
	code := format(params)
	return func(c *Colors) {
		c.Insert = code
	}
}

const reset = "\033[0m"

// New returns the default colors (cyan hunk headers, red deletions, green insertions) modified by
// opts.
func New(opts ...Option) Colors {
	c := Colors{
		HunkHeader: format([]int{36}),
		Delete:     format([]int{31}),
		Insert:     format([]int{32}),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Unified colors every line of a unified patch.
func (c Colors) Unified(patch string) string {
	var sb strings.Builder
	for line := range strings.Lines(patch) {
		text, nl := strings.CutSuffix(line, "\n")
		var code string
		switch {
		case strings.HasPrefix(text, "@@"):
			code = c.HunkHeader
		case strings.HasPrefix(text, "-"):
			code = c.Delete
		case strings.HasPrefix(text, "+"):
			code = c.Insert
		case strings.HasPrefix(text, " "):
			code = c.Match
		}
		sb.WriteString(paint(code, text))
		if nl {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Line colors text according to the kind of line it belongs to. Phantom lines are never colored.
func (c Colors) Line(kind docdiff.Kind, text string) string {
	switch kind {
	case docdiff.Unchanged:
		return paint(c.Match, text)
	case docdiff.Removed:
		return paint(c.Delete, text)
	case docdiff.Added:
		return paint(c.Insert, text)
	default:
		return text
	}
}

func paint(code, text string) string {
	if code == "" || text == "" {
		return text
	}
	return code + text + reset
}

func format(params []int) string {
	var sb strings.Builder
	sb.WriteString("\033[")
	for i, v := range params {
		if i > 0 {
			sb.WriteRune(';')
		}
		fmt.Fprint(&sb, v)
	}
	sb.WriteRune('m')
	return sb.String()
}
