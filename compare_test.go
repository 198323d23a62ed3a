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
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"znkr.io/docdiff/doctree"
	"znkr.io/docdiff/format"
	"znkr.io/docdiff/sorter"
)

func TestCompareSemantic(t *testing.T) {
	left := Side{Text: `{"b": 1, "a": {"y": 2, "x": [3]}}`, Kind: doctree.JSON}
	right := Side{Text: `{"a": {"x": [3], "y": 2}, "b": 1}`, Kind: doctree.JSON}

	c := Compare(left, right, Semantic())
	if c.Left.Err != nil || c.Right.Err != nil || c.Left.SortErr != nil || c.Right.SortErr != nil {
		t.Fatalf("Compare(...) reported errors: %+v, %+v", c.Left, c.Right)
	}
	if !c.Result.Equal() {
		t.Errorf("Compare(..., Semantic()) found differences in reordered documents:\n%+v", c.Result.Unified)
	}
	want := "{\n  \"a\": {\n    \"x\": [\n      3\n    ],\n    \"y\": 2\n  },\n  \"b\": 1\n}"
	if diff := cmp.Diff(want, c.Left.Text); diff != "" {
		t.Errorf("Compare(...).Left.Text is different [-want,+got]:\n%s", diff)
	}

	if Compare(left, right).Result.Equal() {
		t.Error("Compare(...) without Semantic() found reordered documents equal")
	}
}

func TestComparePretty(t *testing.T) {
	left := Side{Text: "<a><b>x</b></a>", Kind: doctree.XML}
	right := Side{Text: "<a>\n    <b>x</b>\n</a>\n", Kind: doctree.XML}
	if Compare(left, right).Result.Equal() {
		t.Error("Compare(...) without Pretty() found differently indented documents equal")
	}
	c := Compare(left, right, Pretty())
	if !c.Result.Equal() {
		t.Errorf("Compare(..., Pretty()) found differences:\n%+v", c.Result.Unified)
	}
}

func TestCompareNormalizeWhitespace(t *testing.T) {
	left := Side{Text: "<p>Hello   <b>world</b></p>", Kind: doctree.XML}
	right := Side{Text: "<p>Hello <b>world</b></p>", Kind: doctree.XML}
	if Compare(left, right, Pretty()).Result.Equal() {
		t.Error("Compare(..., Pretty()) ignored whitespace in mixed content")
	}
	if !Compare(left, right, Pretty(), format.NormalizeWhitespace()).Result.Equal() {
		t.Error("Compare(..., Pretty(), NormalizeWhitespace()) found differences")
	}
}

func TestCompareSidesIndependent(t *testing.T) {
	left := Side{Text: "not valid xml <<<", Kind: doctree.XML}
	right := Side{Text: "<a><b/></a>", Kind: doctree.XML}

	c := Compare(left, right, Semantic())

	var perr *doctree.ParseError
	if !errors.As(c.Left.Err, &perr) {
		t.Errorf("Left.Err = %v, want *doctree.ParseError", c.Left.Err)
	}
	var serr *sorter.Error
	if !errors.As(c.Left.SortErr, &serr) {
		t.Errorf("Left.SortErr = %v, want *sorter.Error", c.Left.SortErr)
	}
	if c.Left.Text != left.Text {
		t.Errorf("Left.Text = %q, want original text %q", c.Left.Text, left.Text)
	}

	if c.Right.Err != nil || c.Right.SortErr != nil {
		t.Errorf("Right has errors: %+v", c.Right)
	}
	if want := "<a>\n  <b/>\n</a>"; c.Right.Text != want {
		t.Errorf("Right.Text = %q, want %q", c.Right.Text, want)
	}

	want := Stats{Removed: 1, Added: 3}
	if diff := cmp.Diff(want, c.Result.Stats()); diff != "" {
		t.Errorf("Result.Stats() result are different [-want,+got]:\n%s", diff)
	}
}

func TestCompareText(t *testing.T) {
	left := Side{Text: "<b/><a/>", Kind: doctree.PlainText}
	right := Side{Text: "<a/><b/>", Kind: doctree.PlainText}
	c := Compare(left, right, Semantic())
	if c.Left.Err != nil || c.Left.SortErr != nil || c.Left.Text != left.Text {
		t.Errorf("text side was processed: %+v", c.Left)
	}
	if c.Result.Equal() {
		t.Error("Compare(...) found different texts equal")
	}
}

func TestRegistry(t *testing.T) {
	var r Registry
	if _, ok := r.Lookup(doctree.XML); ok {
		t.Error("zero Registry has an XML normalizer")
	}

	// Without normalizers, XML is compared as text.
	c := r.Compare(Side{Text: "<a/>", Kind: doctree.XML}, Side{Text: "<a></a>", Kind: doctree.XML}, Semantic())
	if c.Result.Equal() || c.Left.Err != nil {
		t.Errorf("Compare(...) with an empty registry normalized the documents: %+v", c)
	}

	r.Register(doctree.PlainText, Normalizer{
		Format: func(text string, _ ...format.Option) string { return strings.ToLower(text) },
	})
	c = r.Compare(Side{Text: "HELLO", Kind: doctree.PlainText}, Side{Text: "hello", Kind: doctree.PlainText}, Pretty())
	if !c.Result.Equal() {
		t.Errorf("Compare(...) didn't use the registered normalizer: %+v", c)
	}

	if _, ok := NewRegistry().Lookup(doctree.JSON); !ok {
		t.Error("NewRegistry() has no JSON normalizer")
	}
}

func TestCompareOptionNotAllowed(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Align(..., Semantic()) didn't panic")
		}
	}()
	Align("a", "b", Semantic())
}
