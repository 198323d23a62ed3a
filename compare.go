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

package docdiff

import (
	"znkr.io/docdiff/doctree"
	"znkr.io/docdiff/format"
	"znkr.io/docdiff/internal/config"
	"znkr.io/docdiff/sorter"
)

// Side is one of the two documents of a comparison.
type Side struct {
	Text string
	Kind doctree.Kind
}

// Normalizer bundles the operations applied to a document of one kind before it's compared.
// Any of the functions may be nil.
type Normalizer struct {
	Validate func(text string) error
	Format   func(text string, opts ...format.Option) string
	Sort     func(text string, opts ...sorter.Option) (string, error)
}

// Registry maps document kinds to normalizers. Kinds without a normalizer (like plain text) are
// compared as is.
//
// The zero value is an empty registry, use [NewRegistry] for a registry with XML and JSON support.
type Registry struct {
	normalizers map[doctree.Kind]Normalizer
}

// NewRegistry returns a registry with normalizers for XML and JSON.
func NewRegistry() *Registry {
	r := &Registry{}
	for _, kind := range []doctree.Kind{doctree.XML, doctree.JSON} {
		r.Register(kind, Normalizer{
			Validate: func(text string) error {
				_, err := doctree.Parse(text, kind)
				return err
			},
			Format: func(text string, opts ...format.Option) string {
				return format.Format(text, kind, opts...)
			},
			Sort: func(text string, opts ...sorter.Option) (string, error) {
				return sorter.Sort(text, kind, opts...)
			},
		})
	}
	return r
}

// Register sets the normalizer for a kind, replacing any previous one.
func (r *Registry) Register(kind doctree.Kind, n Normalizer) {
	if r.normalizers == nil {
		r.normalizers = make(map[doctree.Kind]Normalizer)
	}
	r.normalizers[kind] = n
}

// Lookup returns the normalizer for a kind.
func (r *Registry) Lookup(kind doctree.Kind) (Normalizer, bool) {
	n, ok := r.normalizers[kind]
	return n, ok
}

// SideReport describes how one side of a comparison was processed.
type SideReport struct {
	// Text is the text that was aligned, after normalization.
	Text string

	// Err is the validation error of the side, usually a *doctree.ParseError.
	Err error

	// SortErr is set when [Semantic] was requested but the side could not be sorted. The side's
	// original text is compared instead.
	SortErr error
}

// Comparison is the result of [Compare].
type Comparison struct {
	Left, Right SideReport
	Result      Result
}

// Compare validates and normalizes both sides independently and aligns the normalized texts.
// A side that's invalid or can't be normalized never keeps the other side from being
// normalized, and it never keeps the texts from being aligned.
//
// The following options are supported: [IgnoreWhitespace], [IgnoreBlankLines], [IgnoreComments],
// [Granularity], [Optimal], [AlignBlocks], [Semantic], [Pretty], [format.NormalizeWhitespace]
func (r *Registry) Compare(left, right Side, opts ...Option) Comparison {
	cfg := config.FromOptions(opts, config.Align|config.Semantic|config.Pretty|config.Normalize)

	var fopts []format.Option
	if cfg.NormalizeWhitespace {
		fopts = append(fopts, format.NormalizeWhitespace())
	}

	c := Comparison{
		Left:  r.normalize(left, cfg, fopts),
		Right: r.normalize(right, cfg, fopts),
	}
	c.Result = align(c.Left.Text, c.Right.Text, cfg)
	return c
}

func (r *Registry) normalize(s Side, cfg config.Config, fopts []format.Option) SideReport {
	rep := SideReport{Text: s.Text}
	n, ok := r.Lookup(s.Kind)
	if !ok {
		return rep
	}
	if n.Validate != nil {
		rep.Err = n.Validate(s.Text)
	}
	switch {
	case cfg.Semantic && n.Sort != nil:
		sorted, err := n.Sort(s.Text, fopts...)
		if err != nil {
			rep.SortErr = err
			return rep
		}
		rep.Text = sorted
	case (cfg.Semantic || cfg.Pretty) && n.Format != nil:
		rep.Text = n.Format(s.Text, fopts...)
	}
	return rep
}

// Compare compares left and right using a registry returned by [NewRegistry].
//
// The same options as for [Registry.Compare] are supported.
func Compare(left, right Side, opts ...Option) Comparison {
	return NewRegistry().Compare(left, right, opts...)
}
