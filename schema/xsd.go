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
	"fmt"
	"strconv"

	"znkr.io/docdiff/doctree"
)

// ErrInvalidSchema is returned by [ParseXSD] for documents that are well-formed XML but not a
// supported schema.
var ErrInvalidSchema = errors.New("invalid schema")

// ParseXSD loads a schema from a subset of XML Schema:
//
//   - global and local element declarations with name, ref, type, minOccurs, and maxOccurs,
//   - named and anonymous complexType definitions, including mixed content,
//   - sequence, all, and choice groups (members of a choice are optional),
//   - attribute declarations with use="required",
//   - simpleContent with extension attributes.
//
// Local element declarations are added to the schema by name. The schema namespace may use any
// prefix. Elements with a simple or unknown type, or without a type, contain only text.
func ParseXSD(text string) (*Schema, error) {
	doc, err := doctree.ParseXML(text)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	root, _ := doc.Root()
	if localName(root.Name) != "schema" {
		return nil, fmt.Errorf("%w: root element is <%s>, want <schema>", ErrInvalidSchema, root.Name)
	}

	l := loader{
		s:     &Schema{Elements: make(map[string]*ElementDecl)},
		types: make(map[string]doctree.Element),
	}
	for _, c := range children(root, "complexType") {
		name, ok := c.Attr("name")
		if !ok {
			return nil, fmt.Errorf("%w: global complexType without name", ErrInvalidSchema)
		}
		l.types[name] = c
	}
	for _, c := range children(root, "element") {
		if _, ok := c.Attr("name"); !ok {
			return nil, fmt.Errorf("%w: global element without name", ErrInvalidSchema)
		}
		if _, err := l.declare(c); err != nil {
			return nil, err
		}
	}
	return l.s, nil
}

type loader struct {
	s     *Schema
	types map[string]doctree.Element // named complex types
}

// declare adds the declaration el to the schema. It returns the name of the declared element.
// Elements that are already declared are not declared again.
func (l *loader) declare(el doctree.Element) (string, error) {
	name, _ := el.Attr("name")
	if _, ok := l.s.Elements[name]; ok {
		return name, nil
	}
	decl := &ElementDecl{Name: name}
	l.s.Elements[name] = decl // before the content, for recursive types

	typ, hasType := el.Attr("type")
	anon := children(el, "complexType")
	switch {
	case len(anon) > 0:
		if err := l.complexType(decl, anon[0]); err != nil {
			return "", err
		}
	case hasType:
		ct, ok := l.types[localName(typ)]
		if !ok {
			decl.Simple = true // built-in or simple type
			break
		}
		if err := l.complexType(decl, ct); err != nil {
			return "", err
		}
	default:
		decl.Simple = true
	}
	return name, nil
}

func (l *loader) complexType(decl *ElementDecl, ct doctree.Element) error {
	decl.Mixed = attrBool(ct, "mixed")
	for _, c := range ct.Children {
		c, ok := c.(doctree.Element)
		if !ok {
			continue
		}
		switch localName(c.Name) {
		case "sequence", "all", "choice":
			if err := l.group(decl, c, false, false); err != nil {
				return err
			}
		case "attribute":
			if err := attribute(decl, c); err != nil {
				return err
			}
		case "simpleContent":
			decl.Simple = true
			for _, ext := range children(c, "extension") {
				for _, a := range children(ext, "attribute") {
					if err := attribute(decl, a); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// group adds the particles of a sequence, all, or choice group. If optional is set, all members
// may be missing; if repeated is set, all members may occur any number of times.
func (l *loader) group(decl *ElementDecl, g doctree.Element, optional, repeated bool) error {
	lo, hi, err := occurs(g)
	if err != nil {
		return err
	}
	optional = optional || lo == 0 || localName(g.Name) == "choice"
	repeated = repeated || hi == Unbounded || hi > 1

	for _, c := range g.Children {
		c, ok := c.(doctree.Element)
		if !ok {
			continue
		}
		switch localName(c.Name) {
		case "sequence", "all", "choice":
			if err := l.group(decl, c, optional, repeated); err != nil {
				return err
			}
		case "element":
			p, err := l.particle(c)
			if err != nil {
				return err
			}
			if optional {
				p.Min = 0
			}
			if repeated {
				p.Max = Unbounded
			}
			addParticle(decl, p)
		}
	}
	return nil
}

func (l *loader) particle(el doctree.Element) (Particle, error) {
	lo, hi, err := occurs(el)
	if err != nil {
		return Particle{}, err
	}
	p := Particle{Min: lo, Max: hi}
	if ref, ok := el.Attr("ref"); ok {
		p.Name = localName(ref)
		return p, nil
	}
	if _, ok := el.Attr("name"); !ok {
		return Particle{}, fmt.Errorf("%w: element without name or ref", ErrInvalidSchema)
	}
	if p.Name, err = l.declare(el); err != nil {
		return Particle{}, err
	}
	return p, nil
}

// addParticle adds p to the children of decl. Particles with the same name are merged.
func addParticle(decl *ElementDecl, p Particle) {
	for i, q := range decl.Children {
		if q.Name != p.Name {
			continue
		}
		q.Min += p.Min
		if q.Max == Unbounded || p.Max == Unbounded {
			q.Max = Unbounded
		} else {
			q.Max += p.Max
		}
		decl.Children[i] = q
		return
	}
	decl.Children = append(decl.Children, p)
}

func attribute(decl *ElementDecl, a doctree.Element) error {
	name, ok := a.Attr("name")
	if !ok {
		ref, ok := a.Attr("ref")
		if !ok {
			return fmt.Errorf("%w: attribute without name or ref", ErrInvalidSchema)
		}
		name = ref
	}
	use, _ := a.Attr("use")
	decl.Attributes = append(decl.Attributes, AttributeDecl{Name: name, Required: use == "required"})
	return nil
}

// occurs returns the minOccurs and maxOccurs attributes of el.
func occurs(el doctree.Element) (lo, hi int, err error) {
	lo, hi = 1, 1
	if v, ok := el.Attr("minOccurs"); ok {
		if lo, err = strconv.Atoi(v); err != nil || lo < 0 {
			return 0, 0, fmt.Errorf("%w: invalid minOccurs %q", ErrInvalidSchema, v)
		}
	}
	if v, ok := el.Attr("maxOccurs"); ok {
		if v == "unbounded" {
			return lo, Unbounded, nil
		}
		if hi, err = strconv.Atoi(v); err != nil || hi < lo {
			return 0, 0, fmt.Errorf("%w: invalid maxOccurs %q", ErrInvalidSchema, v)
		}
	}
	return lo, hi, nil
}

func attrBool(el doctree.Element, name string) bool {
	v, _ := el.Attr(name)
	return v == "true" || v == "1"
}

// children returns the child elements of el with the given local name.
func children(el doctree.Element, name string) []doctree.Element {
	var out []doctree.Element
	for _, c := range el.Children {
		if c, ok := c.(doctree.Element); ok && localName(c.Name) == name {
			out = append(out, c)
		}
	}
	return out
}
