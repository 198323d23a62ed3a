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

// Package format pretty prints XML and JSON documents.
//
// Formatting is fail-soft: input that doesn't parse is returned unchanged. Use [doctree.Parse] to
// find out why a document is malformed.
//
// XML elements with mixed content (text next to child elements, or CDATA sections) are never
// indented, whitespace inside them is significant.
package format

import (
	"fmt"
	"regexp"
	"strings"

	"znkr.io/docdiff/doctree"
	"znkr.io/docdiff/internal/config"
)

// Option configures the formatter.
type Option = config.Option

// NormalizeWhitespace collapses runs of whitespace in mixed XML content to a single space and
// removes leading and trailing whitespace of such elements.
func NormalizeWhitespace() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.NormalizeWhitespace = true
		return config.NormalizeWhitespace
	}
}

const indent = "  "

// Format pretty prints text as a document of the given kind. If text is not a well-formed
// document or if kind is [doctree.PlainText], text is returned unchanged.
//
// The following option is supported: [NormalizeWhitespace]
func Format(text string, kind doctree.Kind, opts ...Option) string {
	cfg := config.FromOptions(opts, config.Normalize)
	if kind == doctree.PlainText {
		return text
	}
	doc, err := doctree.Parse(text, kind)
	if err != nil {
		return text
	}
	out := format(doc, cfg)
	if decl, ok := declaration(text); ok && kind == doctree.XML && !strings.HasPrefix(out, "<?xml") {
		out = decl + "\n" + out
	}
	return out
}

// Document pretty prints a parsed document.
//
// The following option is supported: [NormalizeWhitespace]
func Document(doc doctree.Document, opts ...Option) string {
	cfg := config.FromOptions(opts, config.Normalize)
	return format(doc, cfg)
}

func format(doc doctree.Document, cfg config.Config) string {
	f := formatter{normalize: cfg.NormalizeWhitespace}
	switch doc.Kind {
	case doctree.XML:
		for _, n := range doc.Nodes {
			if isSpace(n) {
				continue
			}
			if f.b.Len() > 0 {
				f.b.WriteByte('\n')
			}
			f.xml(n, 0)
		}
	case doctree.JSON:
		for _, n := range doc.Nodes {
			f.json(n, 0)
		}
	default:
		return doctree.Minimal(doc)
	}
	return f.b.String()
}

// declaration returns the XML declaration at the start of text.
func declaration(text string) (string, bool) {
	if !strings.HasPrefix(text, "<?xml") || len(text) > 5 && !isSpaceByte(text[5]) {
		return "", false
	}
	end := strings.Index(text, "?>")
	if end < 0 {
		return "", false
	}
	return text[:end+2], true
}

type formatter struct {
	b         strings.Builder
	normalize bool
}

func (f *formatter) indent(depth int) {
	for range depth {
		f.b.WriteString(indent)
	}
}

func (f *formatter) xml(n doctree.Node, depth int) {
	el, ok := n.(doctree.Element)
	if !ok {
		f.b.WriteString(doctree.XMLString(n))
		return
	}

	switch {
	case len(el.Children) == 0:
		f.b.WriteString(doctree.EmptyTag(el))
	case el.Mixed() || len(el.Children) == 1 && isText(el.Children[0]):
		if f.normalize {
			el = normalize(el)
		}
		f.b.WriteString(doctree.XMLString(el))
	default:
		children := make([]doctree.Node, 0, len(el.Children))
		for _, c := range el.Children {
			if !isSpace(c) {
				children = append(children, c)
			}
		}
		if len(children) == 0 {
			f.b.WriteString(doctree.EmptyTag(el))
			return
		}
		f.b.WriteString(doctree.StartTag(el))
		for _, c := range children {
			f.b.WriteByte('\n')
			f.indent(depth + 1)
			f.xml(c, depth+1)
		}
		f.b.WriteByte('\n')
		f.indent(depth)
		f.b.WriteString(doctree.EndTag(el))
	}
}

func isText(n doctree.Node) bool {
	_, ok := n.(doctree.Text)
	return ok
}

// isSpace reports whether n is a text node that only contains whitespace.
func isSpace(n doctree.Node) bool {
	t, ok := n.(doctree.Text)
	return ok && strings.TrimSpace(t.Content) == ""
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

var spaceRun = regexp.MustCompile(`[ \t\r\n]+`)

// normalize returns a copy of el with collapsed whitespace. Leading whitespace of the first and
// trailing whitespace of the last child are removed if they are text.
func normalize(el doctree.Element) doctree.Element {
	el = collapse(el)
	children := el.Children
	if len(children) > 0 {
		if t, ok := children[0].(doctree.Text); ok {
			children[0] = doctree.Text{Content: strings.TrimLeft(t.Content, " ")}
		}
		if t, ok := children[len(children)-1].(doctree.Text); ok {
			children[len(children)-1] = doctree.Text{Content: strings.TrimRight(t.Content, " ")}
		}
	}
	el.Children = children[:0]
	for _, c := range children {
		if t, ok := c.(doctree.Text); ok && t.Content == "" {
			continue
		}
		el.Children = append(el.Children, c)
	}
	return el
}

// collapse returns a copy of el where every whitespace run in text of el and its descendants is
// replaced by a single space.
func collapse(el doctree.Element) doctree.Element {
	children := make([]doctree.Node, len(el.Children))
	for i, c := range el.Children {
		switch c := c.(type) {
		case doctree.Text:
			children[i] = doctree.Text{Content: spaceRun.ReplaceAllString(c.Content, " ")}
		case doctree.Element:
			children[i] = collapse(c)
		default:
			children[i] = c
		}
	}
	el.Children = children
	return el
}

func (f *formatter) json(n doctree.Node, depth int) {
	switch n := n.(type) {
	case doctree.Text:
		f.b.WriteString(n.Content)
	case doctree.Element:
		start, end := "[", "]"
		if n.Name == doctree.ObjectName {
			start, end = "{", "}"
		}
		f.b.WriteString(start)
		for i, c := range n.Children {
			if i > 0 {
				f.b.WriteByte(',')
			}
			f.b.WriteByte('\n')
			f.indent(depth + 1)
			if n.Name == doctree.ObjectName {
				key, value := doctree.MemberParts(c)
				f.b.WriteString(doctree.Quote(key))
				f.b.WriteString(": ")
				c = value
			}
			f.json(c, depth+1)
		}
		if len(n.Children) > 0 {
			f.b.WriteByte('\n')
			f.indent(depth)
		}
		f.b.WriteString(end)
	default:
		panic(fmt.Sprintf("unexpected node type %T in JSON tree", n))
	}
}
