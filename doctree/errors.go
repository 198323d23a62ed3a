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
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedKind is returned for operations that need a tree of a document that has none,
// like plain text.
var ErrUnsupportedKind = errors.New("unsupported document kind")

// ParseError describes a malformed document.
type ParseError struct {
	Kind    Kind
	Line    int // 1-based
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: line %d: %s", e.Kind, e.Line, e.Message)
}

// lineAt returns the 1-based line number of the byte offset in text.
func lineAt(text string, offset int) int {
	offset = max(0, min(offset, len(text)))
	return 1 + strings.Count(text[:offset], "\n")
}

// Parse parses text as a document of the given kind.
func Parse(text string, kind Kind) (Document, error) {
	switch kind {
	case XML:
		return ParseXML(text)
	case JSON:
		return ParseJSON(text)
	case PlainText:
		return Document{}, fmt.Errorf("parse %v: %w", kind, ErrUnsupportedKind)
	default:
		panic(fmt.Sprintf("unknown kind: %v", kind))
	}
}
