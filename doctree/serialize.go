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

package doctree

import (
	"fmt"
	"strings"
)

// Minimal serializes a document without adding any whitespace. Top-level XML nodes are separated
// by a newline.
func Minimal(doc Document) string {
	var b strings.Builder
	for i, n := range doc.Nodes {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch doc.Kind {
		case XML:
			writeXML(&b, n)
		case JSON:
			writeJSON(&b, n)
		default:
			panic(fmt.Sprintf("can't serialize document of kind %v", doc.Kind))
		}
	}
	return b.String()
}

// XMLString returns the XML serialization of n without any added whitespace.
func XMLString(n Node) string {
	var b strings.Builder
	writeXML(&b, n)
	return b.String()
}

func writeXML(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case Element:
		if len(n.Children) == 0 {
			b.WriteString(EmptyTag(n))
			return
		}
		b.WriteString(StartTag(n))
		for _, c := range n.Children {
			writeXML(b, c)
		}
		b.WriteString(EndTag(n))
	case Text:
		b.WriteString(EscapeText(n.Content))
	case Comment:
		b.WriteString("<!--")
		b.WriteString(n.Content)
		b.WriteString("-->")
	case CData:
		b.WriteString("<![CDATA[")
		b.WriteString(n.Content)
		b.WriteString("]]>")
	case ProcInst:
		b.WriteString("<?")
		b.WriteString(n.Target)
		if n.Data != "" {
			b.WriteByte(' ')
			b.WriteString(n.Data)
		}
		b.WriteString("?>")
	case DocType:
		writeDocType(b, n)
	default:
		panic(fmt.Sprintf("unknown node type %T", n))
	}
}

func writeDocType(b *strings.Builder, n DocType) {
	b.WriteString("<!DOCTYPE ")
	b.WriteString(n.Name)
	switch {
	case n.PublicID != "":
		fmt.Fprintf(b, " PUBLIC %s %s", quoteLiteral(n.PublicID), quoteLiteral(n.SystemID))
	case n.SystemID != "":
		fmt.Fprintf(b, " SYSTEM %s", quoteLiteral(n.SystemID))
	}
	if n.Subset != "" {
		b.WriteString(" [")
		b.WriteString(n.Subset)
		b.WriteByte(']')
	}
	b.WriteByte('>')
}

// quoteLiteral quotes a system or public literal. Literals can't contain both kinds of quotes.
func quoteLiteral(s string) string {
	if strings.Contains(s, `"`) {
		return "'" + s + "'"
	}
	return `"` + s + `"`
}

// StartTag returns the start tag of el.
func StartTag(el Element) string {
	return "<" + el.Name + attrs(el.Attrs) + ">"
}

// EmptyTag returns the empty-element tag of el, ignoring its children.
func EmptyTag(el Element) string {
	return "<" + el.Name + attrs(el.Attrs) + "/>"
}

// EndTag returns the end tag of el.
func EndTag(el Element) string {
	return "</" + el.Name + ">"
}

func attrs(attrs []Attr) string {
	var b strings.Builder
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(EscapeAttr(a.Value))
		b.WriteByte('"')
	}
	return b.String()
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\r", "&#xD;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\r", "&#xD;", "\n", "&#xA;", "\t", "&#x9;")
)

// EscapeText escapes &, <, and > in character data. A carriage return is written as a character
// reference, a parser would read it as a line break otherwise.
func EscapeText(s string) string { return textEscaper.Replace(s) }

// EscapeAttr escapes &, <, >, and " in an attribute value. Carriage returns, line breaks, and tabs
// are written as character references, parsers normalize them to spaces otherwise.
func EscapeAttr(s string) string { return attrEscaper.Replace(s) }

func writeJSON(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case Element:
		switch n.Name {
		case ObjectName:
			b.WriteByte('{')
			for i, m := range n.Children {
				if i > 0 {
					b.WriteByte(',')
				}
				key, value := MemberParts(m)
				b.WriteString(Quote(key))
				b.WriteByte(':')
				writeJSON(b, value)
			}
			b.WriteByte('}')
		case ArrayName:
			b.WriteByte('[')
			for i, c := range n.Children {
				if i > 0 {
					b.WriteByte(',')
				}
				writeJSON(b, c)
			}
			b.WriteByte(']')
		default:
			panic(fmt.Sprintf("unexpected element %q in JSON tree", n.Name))
		}
	case Text:
		b.WriteString(n.Content)
	default:
		panic(fmt.Sprintf("unexpected node type %T in JSON tree", n))
	}
}

// MemberParts returns the key and value of a JSON object member. It panics if n is not a member.
func MemberParts(n Node) (key string, value Node) {
	el, ok := n.(Element)
	if !ok || el.Name != MemberName || len(el.Children) != 1 {
		panic(fmt.Sprintf("not a JSON object member: %#v", n))
	}
	key, _ = el.Attr(KeyAttr)
	return key, el.Children[0]
}
