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

// Package sorter brings XML and JSON documents into a canonical order.
//
// Documents that only differ in the order of JSON object members, XML attributes, or XML child
// elements have the same sorted form. Mixed XML content is never reordered, the order of text and
// elements carries meaning there.
package sorter

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"znkr.io/docdiff/doctree"
	"znkr.io/docdiff/format"
	"znkr.io/docdiff/internal/config"
)

// Option configures sorting. The sorted document is rendered with [format.Document] and formatter
// options like [format.NormalizeWhitespace] are passed through.
type Option = config.Option

// Error is returned when a document can't be sorted.
type Error struct {
	Kind doctree.Kind
	Err  error // *doctree.ParseError or doctree.ErrUnsupportedKind
}

func (e *Error) Error() string {
	return fmt.Sprintf("sort %v document: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Sort parses text, sorts it and returns the pretty printed result.
//
// Unlike [format.Format], Sort fails with an [*Error] if text is not a well-formed document: the
// result of Sort is expected to be canonical, returning the unsorted input would break that.
//
// The following option is supported: [format.NormalizeWhitespace]
func Sort(text string, kind doctree.Kind, opts ...Option) (string, error) {
	config.FromOptions(opts, config.Normalize)
	doc, err := doctree.Parse(text, kind)
	if err != nil {
		return "", &Error{Kind: kind, Err: err}
	}
	return format.Document(Tree(doc), opts...), nil
}

// Tree returns a sorted copy of doc. The copy doesn't share any slices with doc.
//
// JSON object members are sorted by key. XML attributes are sorted by name and the child elements
// of elements without mixed content are sorted by name; other child nodes stay where they are.
// Sorting is stable and applied at every level.
func Tree(doc doctree.Document) doctree.Document {
	nodes := make([]doctree.Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		switch doc.Kind {
		case doctree.JSON:
			nodes[i] = sortJSON(n)
		case doctree.XML:
			nodes[i] = sortXML(n)
		default:
			panic(fmt.Sprintf("can't sort document of kind %v", doc.Kind))
		}
	}
	return doctree.Document{Kind: doc.Kind, Nodes: nodes}
}

func sortJSON(n doctree.Node) doctree.Node {
	el, ok := n.(doctree.Element)
	if !ok {
		return n
	}
	children := make([]doctree.Node, len(el.Children))
	switch el.Name {
	case doctree.ObjectName:
		for i, m := range el.Children {
			key, value := doctree.MemberParts(m)
			children[i] = doctree.Member(key, sortJSON(value))
		}
		slices.SortStableFunc(children, func(a, b doctree.Node) int {
			ka, _ := doctree.MemberParts(a)
			kb, _ := doctree.MemberParts(b)
			return strings.Compare(ka, kb)
		})
	case doctree.ArrayName:
		for i, c := range el.Children {
			children[i] = sortJSON(c)
		}
	default:
		panic(fmt.Sprintf("unexpected element %q in JSON tree", el.Name))
	}
	return doctree.Element{Name: el.Name, Children: children}
}

func sortXML(n doctree.Node) doctree.Node {
	el, ok := n.(doctree.Element)
	if !ok {
		return n
	}

	attrs := slices.Clone(el.Attrs)
	slices.SortStableFunc(attrs, func(a, b doctree.Attr) int { return cmp.Compare(a.Name, b.Name) })

	children := make([]doctree.Node, len(el.Children))
	var slots []int // positions of child elements
	for i, c := range el.Children {
		children[i] = sortXML(c)
		if _, ok := c.(doctree.Element); ok {
			slots = append(slots, i)
		}
	}

	if !el.Mixed() && len(slots) > 1 {
		elems := make([]doctree.Element, len(slots))
		for i, s := range slots {
			elems[i] = children[s].(doctree.Element)
		}
		slices.SortStableFunc(elems, func(a, b doctree.Element) int { return cmp.Compare(a.Name, b.Name) })
		for i, s := range slots {
			children[s] = elems[i]
		}
	}

	return doctree.Element{Name: el.Name, Attrs: attrs, Children: children}
}
