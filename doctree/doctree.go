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

// Package doctree parses XML and JSON documents into an immutable tree and serializes trees back
// to text.
//
// A tree is a value: parsing always produces a fresh tree, and functions that transform a tree
// (like sorting) build a new one instead of modifying nodes in place.
//
// JSON documents are mapped onto the same node types as XML: an object is an [Element] named
// [ObjectName] with one [MemberName] element per member (the member's key is stored in the
// [KeyAttr] attribute and its value is the only child), an array is an [Element] named
// [ArrayName], and strings, numbers, booleans and null are [Text] nodes holding the JSON literal.
package doctree

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies the syntax of a document.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=Kind -linecomment
type Kind int

const (
	PlainText Kind = iota // text
	XML                   // xml
	JSON                  // json
)

// ParseKind returns the kind with the given name ("text", "xml", or "json").
func ParseKind(s string) (Kind, error) {
	for k := PlainText; k <= JSON; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return PlainText, fmt.Errorf("unknown document kind %q", s)
}

// KindFromPath guesses the kind of a document from the extension of path.
func KindFromPath(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml", ".xsd", ".xsl", ".xslt", ".svg", ".xhtml", ".rss", ".atom", ".wsdl", ".plist":
		return XML
	case ".json", ".geojson", ".webmanifest":
		return JSON
	default:
		return PlainText
	}
}

// Node is a node of a document tree. It's implemented by [Element], [Text], [Comment],
// [CData], [ProcInst], and [DocType]; there are no other implementations.
type Node interface {
	node()
}

// Element is an element with attributes and children.
type Element struct {
	Name     string
	Attrs    []Attr // unique names, in document order
	Children []Node
}

// Attr is an attribute of an element.
type Attr struct {
	Name, Value string
}

// Text is character data. For JSON documents, it holds a literal.
type Text struct {
	Content string
}

// Comment is an XML comment, without the delimiters.
type Comment struct {
	Content string
}

// CData is an XML CDATA section, without the delimiters.
type CData struct {
	Content string
}

// ProcInst is an XML processing instruction. The XML declaration is a ProcInst with target "xml".
type ProcInst struct {
	Target, Data string
}

// DocType is an XML document type declaration.
type DocType struct {
	Name     string
	PublicID string
	SystemID string
	Subset   string // internal subset, without the brackets
}

func (Element) node()  {}
func (Text) node()     {}
func (Comment) node()  {}
func (CData) node()    {}
func (ProcInst) node() {}
func (DocType) node()  {}

// Attr returns the value of the attribute with the given name.
func (el Element) Attr(name string) (string, bool) {
	for _, a := range el.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Mixed reports whether el has mixed content, that is text next to or instead of child elements.
// Whitespace-only text doesn't count, but CDATA sections always do.
func (el Element) Mixed() bool {
	for _, c := range el.Children {
		switch c := c.(type) {
		case CData:
			return true
		case Text:
			if strings.TrimSpace(c.Content) != "" {
				return true
			}
		}
	}
	return false
}

// Document is a parsed document. Nodes contains exactly one [Element], the root. For XML, it may
// also contain the XML declaration, comments, processing instructions and a document type
// declaration around the root.
type Document struct {
	Kind  Kind
	Nodes []Node
}

// Root returns the root element.
func (d Document) Root() (Element, bool) {
	for _, n := range d.Nodes {
		if el, ok := n.(Element); ok {
			return el, true
		}
	}
	return Element{}, false
}

// Names of the elements JSON values are mapped to.
const (
	ObjectName = "#object"
	ArrayName  = "#array"
	MemberName = "#member"
	KeyAttr    = "key"
)

// Member returns a JSON object member.
func Member(key string, value Node) Element {
	return Element{
		Name:     MemberName,
		Attrs:    []Attr{{Name: KeyAttr, Value: key}},
		Children: []Node{value},
	}
}
