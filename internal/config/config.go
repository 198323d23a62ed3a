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

// Package config provides shared configuration mechanisms for packages this module.
//
// This package is an implementation detail, the configuration surface for users is provided via
// the Option functions of the public packages.
package config

import "znkr.io/docdiff/intraline"

// Config collects all configurable parameters for comparison and normalization functions in this
// module.
type Config struct {
	// Context is the number of unchanged lines to include before and after changes in patch
	// hunks.
	Context int

	// If set, the line diff is optimal irrespective of the cost.
	Optimal bool

	// Compare lines with leading and trailing whitespace removed.
	IgnoreWhitespace bool

	// Drop lines that only contain whitespace before comparing.
	IgnoreBlankLines bool

	// Remove XML comments before comparing.
	IgnoreComments bool

	// Slide change groups so that deletions and insertions meet where possible.
	AlignBlocks bool

	// Granularity of intra-line diffs for replaced lines.
	Granularity intraline.Granularity

	// Sort both documents canonically before comparing.
	Semantic bool

	// Pretty print both documents before comparing. Implied by Semantic.
	Pretty bool

	// Collapse whitespace in mixed XML content when formatting.
	NormalizeWhitespace bool
}

// Default is the default configuration.
var Default = Config{
	Context:             3,
	Optimal:             false,
	IgnoreWhitespace:    false,
	IgnoreBlankLines:    false,
	IgnoreComments:      false,
	AlignBlocks:         false,
	Granularity:         intraline.Lines,
	Semantic:            false,
	Pretty:              false,
	NormalizeWhitespace: false,
}

// Flag describes a single config entry. This is used to detect if configurations are being set
// that are not supported by a function.
type Flag int

const (
	Context Flag = 1 << iota
	Optimal
	IgnoreWhitespace
	IgnoreBlankLines
	IgnoreComments
	AlignBlocks
	Granularity
	Semantic
	Pretty
	NormalizeWhitespace
)

// Sets of flags shared by several entry points.
const (
	Align     = Optimal | IgnoreWhitespace | IgnoreBlankLines | IgnoreComments | AlignBlocks | Granularity
	Normalize = NormalizeWhitespace
	All       = Context | Align | Semantic | Pretty | Normalize
)

// Option is the mechanism used to expose the configuration to users.
type Option func(*Config) Flag

// FromOptions creates a configuration from a set of options.
func FromOptions(opts []Option, allowed Flag) Config {
	cfg := Default
	for _, opt := range opts {
		flag := opt(&cfg)
		if flag & ^allowed != 0 {
			panic("Option " + printFlag(flag) + " not allowed here")
		}
	}
	return cfg
}

func printFlag(flag Flag) string {
	switch flag {
	case Context:
		return "textdiff.Context"
	case Optimal:
		return "docdiff.Optimal"
	case IgnoreWhitespace:
		return "docdiff.IgnoreWhitespace"
	case IgnoreBlankLines:
		return "docdiff.IgnoreBlankLines"
	case IgnoreComments:
		return "docdiff.IgnoreComments"
	case AlignBlocks:
		return "docdiff.AlignBlocks"
	case Granularity:
		return "docdiff.Granularity"
	case Semantic:
		return "docdiff.Semantic"
	case Pretty:
		return "docdiff.Pretty"
	case NormalizeWhitespace:
		return "format.NormalizeWhitespace"
	default:
		panic("never reached")
	}
}
