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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ParseJSON parses a JSON document, keeping the order of object members.
//
// If an object has duplicate keys, the last value wins, but the member keeps the position of the
// first occurrence. Text that isn't valid UTF-8 is rejected, the decoder would replace invalid
// bytes in strings. Errors are of type [*ParseError].
func ParseJSON(text string) (Document, error) {
	if i := invalidUTF8(text); i >= 0 {
		return Document{}, &ParseError{Kind: JSON, Line: lineAt(text, i), Message: fmt.Sprintf("invalid UTF-8 at offset %d", i)}
	}

	p := jsonParser{text: text, d: json.NewDecoder(strings.NewReader(text))}
	p.d.UseNumber()

	v, err := p.value()
	if err != nil {
		return Document{}, err
	}
	if _, err := p.d.Token(); err != io.EOF {
		if err != nil {
			return Document{}, p.error(err)
		}
		return Document{}, p.errorf("unexpected data after top-level value")
	}
	return Document{Kind: JSON, Nodes: []Node{v}}, nil
}

// invalidUTF8 returns the offset of the first invalid UTF-8 sequence in s or -1.
func invalidUTF8(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

type jsonParser struct {
	text string
	d    *json.Decoder
}

func (p *jsonParser) value() (Node, error) {
	tok, err := p.d.Token()
	if err != nil {
		return nil, p.error(err)
	}
	switch tok := tok.(type) {
	case json.Delim:
		switch tok {
		case '{':
			return p.object()
		case '[':
			return p.array()
		default:
			return nil, p.errorf("unexpected %q", rune(tok))
		}
	case string:
		return Text{Content: Quote(tok)}, nil
	case json.Number:
		return Text{Content: tok.String()}, nil
	case bool:
		if tok {
			return Text{Content: "true"}, nil
		}
		return Text{Content: "false"}, nil
	case nil:
		return Text{Content: "null"}, nil
	default:
		panic(fmt.Sprintf("unexpected token %T", tok))
	}
}

func (p *jsonParser) object() (Node, error) {
	var members []Node
	index := make(map[string]int)
	for p.d.More() {
		tok, err := p.d.Token()
		if err != nil {
			return nil, p.error(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, p.errorf("object key must be a string")
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		if i, ok := index[key]; ok {
			members[i] = Member(key, v)
			continue
		}
		index[key] = len(members)
		members = append(members, Member(key, v))
	}
	if err := p.end('}'); err != nil {
		return nil, err
	}
	return Element{Name: ObjectName, Children: members}, nil
}

func (p *jsonParser) array() (Node, error) {
	var elems []Node
	for p.d.More() {
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	if err := p.end(']'); err != nil {
		return nil, err
	}
	return Element{Name: ArrayName, Children: elems}, nil
}

// end consumes the closing delimiter of an object or array.
func (p *jsonParser) end(delim json.Delim) error {
	tok, err := p.d.Token()
	if err != nil {
		return p.error(err)
	}
	if tok != delim {
		return p.errorf("expected %q", rune(delim))
	}
	return nil
}

func (p *jsonParser) error(err error) error {
	var serr *json.SyntaxError
	switch {
	case errors.As(err, &serr):
		// The offset of errors in scalar values is relative to the start of the value, the
		// decoder's offset isn't.
		return &ParseError{Kind: JSON, Line: lineAt(p.text, int(p.d.InputOffset())), Message: serr.Error()}
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return &ParseError{Kind: JSON, Line: lineAt(p.text, len(p.text)), Message: "unexpected end of JSON input"}
	default:
		return p.errorf("%v", err)
	}
}

func (p *jsonParser) errorf(format string, args ...any) error {
	return &ParseError{Kind: JSON, Line: lineAt(p.text, int(p.d.InputOffset())), Message: fmt.Sprintf(format, args...)}
}

// Quote returns s as a JSON string literal. Unlike [json.Marshal], it doesn't escape <, >, and &.
func Quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		panic(err) // strings always encode
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Unquote returns the string value of a JSON string literal.
func Unquote(lit string) (string, bool) {
	var s string
	if err := json.Unmarshal([]byte(lit), &s); err != nil {
		return "", false
	}
	return s, true
}
