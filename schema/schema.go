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

// Package schema checks XML documents against a simplified schema.
//
// A [Schema] describes elements by name: their attributes, and how often each child element may
// occur. The order of child elements is not checked. Schemas can be written by hand or loaded from
// a subset of XML Schema with [ParseXSD].
package schema

import (
	"fmt"
	"slices"
	"strings"

	"znkr.io/docdiff/doctree"
)

// Unbounded is the maximum number of occurrences of a particle without an upper limit.
const Unbounded = -1

// Schema is a set of element declarations, keyed by element name.
type Schema struct {
	Elements map[string]*ElementDecl
}

// ElementDecl declares an element.
type ElementDecl struct {
	Name       string
	Attributes []AttributeDecl
	Children   []Particle

	// Mixed elements may contain text next to their child elements.
	Mixed bool

	// Simple elements contain only text.
	Simple bool
}

// AttributeDecl declares an attribute.
type AttributeDecl struct {
	Name     string
	Required bool
}

// Particle describes how often a child element may occur. Max is [Unbounded] if there is no upper
// limit.
type Particle struct {
	Name     string
	Min, Max int
}

// Violation is a mismatch between a document and a schema.
type Violation struct {
	Path    string // e.g. /catalog/book[2]
	Message string
}

func (v Violation) String() string {
	return v.Path + ": " + v.Message
}

// CheckText parses text as XML and checks it against s.
func CheckText(text string, s *Schema) ([]Violation, error) {
	doc, err := doctree.ParseXML(text)
	if err != nil {
		return nil, err
	}
	return Check(doc, s), nil
}

// Check checks doc against s and returns all violations in document order. A nil schema
// declares nothing, every root element is reported as undeclared.
func Check(doc doctree.Document, s *Schema) []Violation {
	if s == nil {
		s = &Schema{}
	}
	root, ok := doc.Root()
	if !ok {
		return []Violation{{Path: "/", Message: "document has no root element"}}
	}
	c := checker{s: s}
	path := "/" + root.Name
	decl, ok := s.Elements[localName(root.Name)]
	if !ok {
		c.report(path, "element <%s> is not declared", root.Name)
		return c.violations
	}
	c.element(path, root, decl)
	return c.violations
}

type checker struct {
	s          *Schema
	violations []Violation
}

func (c *checker) report(path, format string, args ...any) {
	c.violations = append(c.violations, Violation{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) element(path string, el doctree.Element, decl *ElementDecl) {
	for _, a := range decl.Attributes {
		if _, ok := el.Attr(a.Name); a.Required && !ok {
			c.report(path, "missing required attribute %q", a.Name)
		}
	}
	for _, a := range el.Attrs {
		if ignoredAttr(a.Name) {
			continue
		}
		if !slices.ContainsFunc(decl.Attributes, func(d AttributeDecl) bool { return d.Name == a.Name }) {
			c.report(path, "undeclared attribute %q", a.Name)
		}
	}

	counts := make(map[string]int)
	seen := make(map[string]int) // occurrences so far, for paths
	textReported := false
	for _, child := range el.Children {
		switch child := child.(type) {
		case doctree.Element:
			name := localName(child.Name)
			seen[child.Name]++
			childPath := fmt.Sprintf("%s/%s[%d]", path, child.Name, seen[child.Name])
			if decl.Simple {
				c.report(childPath, "element not allowed in simple content of <%s>", el.Name)
				continue
			}
			if !slices.ContainsFunc(decl.Children, func(p Particle) bool { return p.Name == name }) {
				c.report(childPath, "unexpected element <%s> in <%s>", child.Name, el.Name)
				continue
			}
			counts[name]++
			if childDecl, ok := c.s.Elements[name]; ok {
				c.element(childPath, child, childDecl)
			}
		case doctree.Text, doctree.CData:
			if decl.Simple || decl.Mixed || textReported || isSpace(child) {
				continue
			}
			c.report(path, "text not allowed in element-only content of <%s>", el.Name)
			textReported = true
		}
	}

	for _, p := range decl.Children {
		n := counts[p.Name]
		switch {
		case n < p.Min:
			c.report(path, "expected at least %d <%s>, found %d", p.Min, p.Name, n)
		case p.Max != Unbounded && n > p.Max:
			c.report(path, "expected at most %d <%s>, found %d", p.Max, p.Name, n)
		}
	}
}

func isSpace(n doctree.Node) bool {
	t, ok := n.(doctree.Text)
	return ok && strings.TrimSpace(t.Content) == ""
}

// ignoredAttr reports whether an attribute is exempt from declaration: namespace declarations and
// schema instance attributes like xsi:schemaLocation.
func ignoredAttr(name string) bool {
	return name == "xmlns" || strings.HasPrefix(name, "xmlns:") || strings.HasPrefix(name, "xsi:")
}

// localName returns name without its namespace prefix.
func localName(name string) string {
	if _, local, ok := strings.Cut(name, ":"); ok {
		return local
	}
	return name
}
