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

// docdiff compares two documents and prints their differences.
//
// Usage:
//
//	docdiff [flags] <old> <new>
//
// The kind of each document is derived from its file extension unless -kind is set. Preferences
// are read from docdiff/config.toml in the user's config directory, or from the file named by
// -prefs. Flags set on the command line take precedence over preferences.
//
// The exit code is 0 if the documents are equal, 1 if they differ, and 2 if an error occurred.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"znkr.io/docdiff"
	"znkr.io/docdiff/doctree"
	"znkr.io/docdiff/format"
	"znkr.io/docdiff/intraline"
	"znkr.io/docdiff/schema"
	"znkr.io/docdiff/textdiff"
	"znkr.io/docdiff/textdiff/color"
)

const (
	exitEqual = 0
	exitDiff  = 1
	exitError = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// settings are the knobs of a comparison. They can be set by preferences and by flags.
type settings struct {
	Kind                string `toml:"kind"`
	View                string `toml:"view"`
	Width               int    `toml:"width"`
	Context             int    `toml:"context"`
	Color               bool   `toml:"color"`
	Semantic            bool   `toml:"semantic"`
	Pretty              bool   `toml:"pretty"`
	NormalizeWhitespace bool   `toml:"normalize_whitespace"`
	IgnoreWhitespace    bool   `toml:"ignore_whitespace"`
	IgnoreBlankLines    bool   `toml:"ignore_blank_lines"`
	IgnoreComments      bool   `toml:"ignore_comments"`
	Granularity         string `toml:"granularity"`
	Optimal             bool   `toml:"optimal"`
	AlignBlocks         bool   `toml:"align_blocks"`
	Schema              string `toml:"schema"`
}

var defaults = settings{
	Kind:        "auto",
	View:        "split",
	Width:       160,
	Context:     3,
	Granularity: "words",
}

// invocation is a parsed command line.
type invocation struct {
	settings
	flags   *flag.FlagSet
	prefs   string
	watch   bool
	verbose bool
}

// newInvocation returns an invocation with all flags registered and set to their defaults.
func newInvocation(name string, stderr io.Writer) *invocation {
	inv := &invocation{settings: defaults}
	s := &inv.settings
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&s.Kind, "kind", s.Kind, "document kind: auto, text, xml, or json")
	fs.StringVar(&s.View, "view", s.View, "output: split, unified, or patch")
	fs.IntVar(&s.Width, "width", s.Width, "terminal width for the split view")
	fs.IntVar(&s.Context, "context", s.Context, "context lines in patch hunks")
	fs.BoolVar(&s.Color, "color", s.Color, "color the output")
	fs.BoolVar(&s.Semantic, "semantic", s.Semantic, "sort documents canonically before comparing")
	fs.BoolVar(&s.Pretty, "pretty", s.Pretty, "pretty print documents before comparing")
	fs.BoolVar(&s.NormalizeWhitespace, "normalize-whitespace", s.NormalizeWhitespace, "collapse whitespace in mixed XML content")
	fs.BoolVar(&s.IgnoreWhitespace, "ignore-whitespace", s.IgnoreWhitespace, "ignore leading and trailing whitespace")
	fs.BoolVar(&s.IgnoreBlankLines, "ignore-blank-lines", s.IgnoreBlankLines, "ignore blank lines")
	fs.BoolVar(&s.IgnoreComments, "ignore-comments", s.IgnoreComments, "ignore XML comments")
	fs.StringVar(&s.Granularity, "granularity", s.Granularity, "intra-line diffs: lines, words, or chars")
	fs.BoolVar(&s.Optimal, "optimal", s.Optimal, "find an optimal diff irrespective of the cost")
	fs.BoolVar(&s.AlignBlocks, "align-blocks", s.AlignBlocks, "slide changes to align blocks")
	fs.StringVar(&s.Schema, "schema", s.Schema, "XSD file to check XML documents against")
	fs.StringVar(&inv.prefs, "prefs", "", "preferences file (default: docdiff/config.toml in the user config directory)")
	fs.BoolVar(&inv.watch, "watch", false, "compare again whenever a file changed")
	fs.BoolVar(&inv.verbose, "v", false, "log debug information")
	inv.flags = fs
	return inv
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	inv := newInvocation(args[0], stderr)
	if err := inv.flags.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitEqual
		}
		return exitError
	}

	level := slog.LevelWarn
	if inv.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := loadPrefs(inv, logger); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	if inv.flags.NArg() != 2 {
		fmt.Fprintf(stderr, "error: expected 2 files, got %d\n", inv.flags.NArg())
		inv.flags.Usage()
		return exitError
	}

	c, err := newComparer(inv.settings, logger)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	oldPath, newPath := inv.flags.Arg(0), inv.flags.Arg(1)

	if inv.watch {
		err := watch(ctx, []string{oldPath, newPath}, 100*time.Millisecond, func() {
			if _, err := c.compare(stdout, stderr, oldPath, newPath); err != nil {
				fmt.Fprintf(stderr, "error: %v\n", err)
			}
		}, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitError
		}
		return exitEqual
	}

	equal, err := c.compare(stdout, stderr, oldPath, newPath)
	switch {
	case err != nil:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	case equal:
		return exitEqual
	default:
		return exitDiff
	}
}

// comparer compares files with fixed settings.
type comparer struct {
	s       settings
	opts    []docdiff.Option
	colors  color.Colors
	checker *schema.Schema
	logger  *slog.Logger
}

func newComparer(s settings, logger *slog.Logger) (*comparer, error) {
	g, err := intraline.ParseGranularity(s.Granularity)
	if err != nil {
		return nil, err
	}
	switch s.View {
	case "split", "unified", "patch":
	default:
		return nil, fmt.Errorf("unknown view %q", s.View)
	}
	if s.Kind != "auto" {
		if _, err := doctree.ParseKind(s.Kind); err != nil {
			return nil, err
		}
	}

	c := &comparer{s: s, logger: logger}
	c.opts = append(c.opts, docdiff.Granularity(g))
	for _, o := range []struct {
		set bool
		opt docdiff.Option
	}{
		{s.Semantic, docdiff.Semantic()},
		{s.Pretty, docdiff.Pretty()},
		{s.NormalizeWhitespace, format.NormalizeWhitespace()},
		{s.IgnoreWhitespace, docdiff.IgnoreWhitespace()},
		{s.IgnoreBlankLines, docdiff.IgnoreBlankLines()},
		{s.IgnoreComments, docdiff.IgnoreComments()},
		{s.Optimal, docdiff.Optimal()},
		{s.AlignBlocks, docdiff.AlignBlocks()},
	} {
		if o.set {
			c.opts = append(c.opts, o.opt)
		}
	}
	if s.Color {
		c.colors = color.New()
	}

	if s.Schema != "" {
		data, err := os.ReadFile(s.Schema)
		if err != nil {
			return nil, fmt.Errorf("reading schema: %w", err)
		}
		c.checker, err = schema.ParseXSD(string(data))
		if err != nil {
			return nil, fmt.Errorf("loading schema %s: %w", s.Schema, err)
		}
		logger.Debug("loaded schema", "path", s.Schema, "elements", len(c.checker.Elements))
	}
	return c, nil
}

// compare compares the files at oldPath and newPath and writes the configured view to stdout.
// Problems with a single document are reported on stderr, they don't stop the comparison.
func (c *comparer) compare(stdout, stderr io.Writer, oldPath, newPath string) (equal bool, err error) {
	left, err := c.side(oldPath)
	if err != nil {
		return false, err
	}
	right, err := c.side(newPath)
	if err != nil {
		return false, err
	}

	start := time.Now()
	cmp := docdiff.Compare(left, right, c.opts...)
	c.logger.Debug("compared documents", "old", oldPath, "new", newPath, "kind", left.Kind, "duration", time.Since(start))

	for _, side := range []struct {
		path string
		doc  docdiff.Side
		rep  docdiff.SideReport
	}{
		{oldPath, left, cmp.Left},
		{newPath, right, cmp.Right},
	} {
		if side.rep.Err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", side.path, side.rep.Err)
		}
		if side.rep.SortErr != nil {
			c.logger.Warn("comparing unsorted document", "path", side.path, "err", side.rep.SortErr)
		}
		if c.checker != nil && side.doc.Kind == doctree.XML && side.rep.Err == nil {
			violations, err := schema.CheckText(side.doc.Text, c.checker)
			if err != nil {
				return false, err
			}
			for _, v := range violations {
				fmt.Fprintf(stderr, "%s: %v\n", side.path, v)
			}
		}
	}

	switch c.s.View {
	case "split":
		err = writeSplit(stdout, cmp.Result, c.s.Width, c.colors)
	case "unified":
		err = writeUnified(stdout, cmp.Result, c.colors)
	case "patch":
		err = c.writePatch(stdout, oldPath, newPath, cmp)
	}
	return cmp.Result.Equal(), err
}

func (c *comparer) side(path string) (docdiff.Side, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return docdiff.Side{}, fmt.Errorf("reading document: %w", err)
	}
	kind := doctree.KindFromPath(path)
	if c.s.Kind != "auto" {
		kind, err = doctree.ParseKind(c.s.Kind)
		if err != nil {
			return docdiff.Side{}, err
		}
	}
	return docdiff.Side{Text: string(data), Kind: kind}, nil
}

func (c *comparer) writePatch(w io.Writer, oldPath, newPath string, cmp docdiff.Comparison) error {
	opts := []textdiff.Option{textdiff.Context(c.s.Context)}
	if c.s.Optimal {
		opts = append(opts, docdiff.Optimal())
	}
	if c.s.IgnoreWhitespace {
		opts = append(opts, docdiff.IgnoreWhitespace())
	}
	patch := textdiff.Unified(cmp.Left.Text, cmp.Right.Text, opts...)
	if patch == "" {
		return nil
	}
	_, err := fmt.Fprintf(w, "--- %s\n+++ %s\n%s", oldPath, newPath, c.colors.Unified(patch))
	return err
}
