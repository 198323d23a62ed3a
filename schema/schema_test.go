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

package schema

import (
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"znkr.io/docdiff/doctree"
)

func loadCatalog(t *testing.T) *Schema {
	t.Helper()
	data, err := os.ReadFile("testdata/catalog.xsd")
	if err != nil {
		t.Fatalf("failed to read schema: %v", err)
	}
	s, err := ParseXSD(string(data))
	if err != nil {
		t.Fatalf("ParseXSD(...) failed: %v", err)
	}
	return s
}

func TestParseXSD(t *testing.T) {
	want := &Schema{Elements: map[string]*ElementDecl{
		"catalog": {
			Name:       "catalog",
			Attributes: []AttributeDecl{{Name: "version"}},
			Children:   []Particle{{Name: "book", Min: 0, Max: Unbounded}},
		},
		"book": {
			Name:       "book",
			Attributes: []AttributeDecl{{Name: "id", Required: true}},
			Children: []Particle{
				{Name: "title", Min: 1, Max: 1},
				{Name: "author", Min: 0, Max: Unbounded},
				{Name: "editor", Min: 0, Max: 1},
				{Name: "price", Min: 0, Max: 1},
				{Name: "note", Min: 0, Max: 1},
			},
		},
		"title":  {Name: "title", Simple: true},
		"author": {Name: "author", Simple: true},
		"editor": {Name: "editor", Simple: true},
		"price": {
			Name:       "price",
			Attributes: []AttributeDecl{{Name: "currency", Required: true}},
			Simple:     true,
		},
		"note": {
			Name:     "note",
			Children: []Particle{{Name: "em", Min: 0, Max: Unbounded}},
			Mixed:    true,
		},
		"em": {Name: "em", Simple: true},
	}}

	got := loadCatalog(t)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseXSD(...) result are different [-want,+got]:\n%s", diff)
	}
}

func TestParseXSDErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{
			name: "not-a-schema",
			in:   `<catalog/>`,
			want: ErrInvalidSchema,
		},
		{
			name: "bad-min-occurs",
			in:   `<schema><element name="a"><complexType><sequence><element name="b" minOccurs="x"/></sequence></complexType></element></schema>`,
			want: ErrInvalidSchema,
		},
		{
			name: "anonymous-element",
			in:   `<xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema"><xsd:element type="xsd:string"/></xsd:schema>`,
			want: ErrInvalidSchema,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseXSD(tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseXSD(...) = %v, want %v", err, tt.want)
			}
		})
	}

	_, err := ParseXSD("<schema>")
	var perr *doctree.ParseError
	if !errors.As(err, &perr) {
		t.Errorf("ParseXSD(malformed) = %v, want *doctree.ParseError", err)
	}
}

func TestCheck(t *testing.T) {
	s := loadCatalog(t)
	tests := []struct {
		name string
		in   string
		want []Violation
	}{
		{
			name: "valid",
			in: `<catalog xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:noNamespaceSchemaLocation="c.xsd" version="1">
  <book id="1">
    <title>Go</title>
    <author>A</author>
    <author>B</author>
    <price currency="EUR">10</price>
    <note>Very <em>good</em>!</note>
  </book>
</catalog>`,
			want: nil,
		},
		{
			name: "invalid",
			in: `<catalog>
  <book id="1"><title>Go</title></book>
  <book lang="en">
    <title>XML</title>
    <title>Again</title>
    stray text
    <price>5<b/></price>
    <isbn/>
  </book>
</catalog>`,
			want: []Violation{
				{"/catalog/book[2]", `missing required attribute "id"`},
				{"/catalog/book[2]", `undeclared attribute "lang"`},
				{"/catalog/book[2]", "text not allowed in element-only content of <book>"},
				{"/catalog/book[2]/price[1]", `missing required attribute "currency"`},
				{"/catalog/book[2]/price[1]/b[1]", "element not allowed in simple content of <price>"},
				{"/catalog/book[2]/isbn[1]", "unexpected element <isbn> in <book>"},
				{"/catalog/book[2]", "expected at most 1 <title>, found 2"},
			},
		},
		{
			name: "missing-child",
			in:   `<catalog><book id="1"/></catalog>`,
			want: []Violation{
				{"/catalog/book[1]", "expected at least 1 <title>, found 0"},
			},
		},
		{
			name: "undeclared-root",
			in:   `<library/>`,
			want: []Violation{{"/library", "element <library> is not declared"}},
		},
		{
			name: "prefixed-names",
			in:   `<c:catalog xmlns:c="urn:c"><c:book id="1"><c:title>Go</c:title></c:book></c:catalog>`,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckText(tt.in, s)
			if err != nil {
				t.Fatalf("CheckText(...) failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("CheckText(...) result are different [-want,+got]:\n%s", diff)
			}
		})
	}

	_, err := CheckText("<catalog>", s)
	var perr *doctree.ParseError
	if !errors.As(err, &perr) {
		t.Errorf("CheckText(malformed) = %v, want *doctree.ParseError", err)
	}
}

func TestCheckNilSchema(t *testing.T) {
	for _, s := range []*Schema{nil, {}} {
		got, err := CheckText(`<catalog><book id="1"/></catalog>`, s)
		if err != nil {
			t.Fatalf("CheckText(...) failed: %v", err)
		}
		want := []Violation{{"/catalog", "element <catalog> is not declared"}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("CheckText(..., %v) result are different [-want,+got]:\n%s", s, diff)
		}
	}
}

func TestViolationString(t *testing.T) {
	v := Violation{Path: "/a/b[1]", Message: "unexpected element <b> in <a>"}
	if got, want := v.String(), "/a/b[1]: unexpected element <b> in <a>"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
