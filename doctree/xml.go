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
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseXML parses a well-formed XML document.
//
// Errors are of type [*ParseError]. Besides the syntax checks of encoding/xml, ParseXML requires
// matching start and end tags, exactly one root element, no character data outside of the root
// element, unique attribute names and an XML declaration only at the very start.
func ParseXML(text string) (Document, error) {
	d := xml.NewDecoder(strings.NewReader(text))
	d.Strict = true
	// The input is already decoded text, whatever the XML declaration says.
	d.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }

	p := xmlParser{text: text, d: d}
	return p.parse()
}

type xmlParser struct {
	text  string
	d     *xml.Decoder
	stack []*elementBuilder
	nodes []Node // top-level nodes
	root  bool   // true once the root element was closed
}

type elementBuilder struct {
	name     string
	attrs    []Attr
	children []Node
}

func (p *xmlParser) parse() (Document, error) {
	for {
		start := int(p.d.InputOffset())
		tok, err := p.d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Document{}, p.syntaxError(err)
		}
		end := int(p.d.InputOffset())

		switch tok := tok.(type) {
		case xml.StartElement:
			if len(p.stack) == 0 && p.root {
				return Document{}, p.errorf(start, "multiple root elements")
			}
			attrs, err := p.attrs(tok, start)
			if err != nil {
				return Document{}, err
			}
			p.stack = append(p.stack, &elementBuilder{name: qname(tok.Name), attrs: attrs})

		case xml.EndElement:
			name := qname(tok.Name)
			if len(p.stack) == 0 {
				return Document{}, p.errorf(start, "unexpected end tag </%s>", name)
			}
			top := p.stack[len(p.stack)-1]
			if top.name != name {
				return Document{}, p.errorf(start, "element <%s> closed by </%s>", top.name, name)
			}
			p.stack = p.stack[:len(p.stack)-1]
			p.add(Element{Name: top.name, Attrs: top.attrs, Children: top.children})
			if len(p.stack) == 0 {
				p.root = true
			}

		case xml.CharData:
			var n Node = Text{Content: string(tok)}
			if strings.HasPrefix(p.text[start:end], "<![CDATA[") {
				n = CData{Content: string(tok)}
			}
			if len(p.stack) == 0 {
				if _, ok := n.(CData); ok || strings.TrimSpace(string(tok)) != "" {
					offset := start + len(p.text[start:end]) - len(strings.TrimLeft(p.text[start:end], " \t\r\n"))
					return Document{}, p.errorf(offset, "character data outside of the root element")
				}
				continue // whitespace between top-level nodes
			}
			p.add(n)

		case xml.Comment:
			p.add(Comment{Content: string(tok)})

		case xml.ProcInst:
			if tok.Target == "xml" && start != 0 {
				return Document{}, p.errorf(start, "XML declaration allowed only at the start of the document")
			}
			p.add(ProcInst{Target: tok.Target, Data: string(tok.Inst)})

		case xml.Directive:
			if len(p.stack) != 0 || p.root {
				return Document{}, p.errorf(start, "unexpected declaration <!%s>", abbrev(string(tok)))
			}
			dt, ok := parseDocType(string(tok))
			if !ok {
				return Document{}, p.errorf(start, "malformed declaration <!%s>", abbrev(string(tok)))
			}
			p.add(dt)

		default:
			panic(fmt.Sprintf("unexpected token %T", tok))
		}
	}

	if len(p.stack) > 0 {
		return Document{}, p.errorf(len(p.text), "element <%s> is never closed", p.stack[len(p.stack)-1].name)
	}
	if !p.root {
		return Document{}, p.errorf(len(p.text), "no root element")
	}
	return Document{Kind: XML, Nodes: p.nodes}, nil
}

// add appends n to the innermost open element or to the top-level nodes.
func (p *xmlParser) add(n Node) {
	if len(p.stack) == 0 {
		p.nodes = append(p.nodes, n)
		return
	}
	top := p.stack[len(p.stack)-1]
	top.children = append(top.children, n)
}

func (p *xmlParser) attrs(tok xml.StartElement, offset int) ([]Attr, error) {
	if len(tok.Attr) == 0 {
		return nil, nil
	}
	attrs := make([]Attr, 0, len(tok.Attr))
	seen := make(map[string]bool, len(tok.Attr))
	for _, a := range tok.Attr {
		name := qname(a.Name)
		if seen[name] {
			return nil, p.errorf(offset, "duplicate attribute %q in element <%s>", name, qname(tok.Name))
		}
		seen[name] = true
		attrs = append(attrs, Attr{Name: name, Value: a.Value})
	}
	return attrs, nil
}

func (p *xmlParser) syntaxError(err error) error {
	var serr *xml.SyntaxError
	if errors.As(err, &serr) {
		return &ParseError{Kind: XML, Line: serr.Line, Message: serr.Msg}
	}
	return p.errorf(int(p.d.InputOffset()), "%v", err)
}

func (p *xmlParser) errorf(offset int, format string, args ...any) error {
	return &ParseError{Kind: XML, Line: lineAt(p.text, offset), Message: fmt.Sprintf(format, args...)}
}

// qname returns the qualified name as written in the document. RawToken doesn't resolve
// namespaces, Space holds the prefix.
func qname(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func abbrev(s string) string {
	const n = 20
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// parseDocType parses the content of a <!DOCTYPE ...> declaration.
func parseDocType(s string) (DocType, bool) {
	rest, ok := strings.CutPrefix(s, "DOCTYPE")
	if !ok || rest == "" || !isSpace(rest[0]) {
		return DocType{}, false
	}

	var dt DocType
	dt.Name, rest = cutName(rest)
	if dt.Name == "" {
		return DocType{}, false
	}

	var keyword string
	keyword, rest = cutName(rest)
	switch keyword {
	case "":
	case "PUBLIC":
		if dt.PublicID, rest, ok = cutQuoted(rest); !ok {
			return DocType{}, false
		}
		if dt.SystemID, rest, ok = cutQuoted(rest); !ok {
			return DocType{}, false
		}
	case "SYSTEM":
		if dt.SystemID, rest, ok = cutQuoted(rest); !ok {
			return DocType{}, false
		}
	default:
		return DocType{}, false
	}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return dt, true
	}
	if len(rest) < 2 || rest[0] != '[' || rest[len(rest)-1] != ']' {
		return DocType{}, false
	}
	dt.Subset = rest[1 : len(rest)-1]
	return dt, true
}

// cutName returns the next name in s, delimited by whitespace or the start of an internal subset.
func cutName(s string) (name, rest string) {
	s = strings.TrimLeft(s, " \t\r\n")
	i := strings.IndexFunc(s, func(r rune) bool { return r == '[' || r < 0x80 && isSpace(byte(r)) })
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}

// cutQuoted returns the next quoted literal in s.
func cutQuoted(s string) (lit, rest string, ok bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	if s == "" || s[0] != '"' && s[0] != '\'' {
		return "", "", false
	}
	end := strings.IndexByte(s[1:], s[0])
	if end < 0 {
		return "", "", false
	}
	return s[1 : end+1], s[end+2:], true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
