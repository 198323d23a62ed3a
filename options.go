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
	"znkr.io/docdiff/internal/config"
	"znkr.io/docdiff/intraline"
)

// Option configures the behavior of comparison functions.
type Option = config.Option

// IgnoreWhitespace compares lines with leading and trailing whitespace removed. The lines in the
// result still carry their original text.
func IgnoreWhitespace() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.IgnoreWhitespace = true
		return config.IgnoreWhitespace
	}
}

// IgnoreBlankLines drops lines that are empty or only contain whitespace before comparing.
func IgnoreBlankLines() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.IgnoreBlankLines = true
		return config.IgnoreBlankLines
	}
}

// IgnoreComments removes XML comments (<!-- ... -->), including comments spanning several lines,
// before comparing. This happens before blank lines are dropped.
func IgnoreComments() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.IgnoreComments = true
		return config.IgnoreComments
	}
}

// Granularity sets the unit of intra-line diffs returned by [Result.Intraline]. The default is
// [intraline.Lines], which disables intra-line diffs.
func Granularity(g intraline.Granularity) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Granularity = g
		return config.Granularity
	}
}

// Optimal finds an optimal diff irrespective of the cost. By default, the cost is limited for
// large inputs with many differences by applying a heuristic that reduces the time complexity.
//
// With this option, the runtime is O(ND) where N = len(x) + len(y), and D is the number of
// differences between x and y.
func Optimal() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Optimal = true
		return config.Optimal
	}
}

// AlignBlocks slides groups of changed lines along equal lines so that removed and added lines
// meet where possible. This turns separate deletions and insertions into replacement blocks
// without changing the number of changed lines.
func AlignBlocks() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.AlignBlocks = true
		return config.AlignBlocks
	}
}

// Semantic sorts both documents canonically with [znkr.io/docdiff/sorter] before comparing, so
// that documents that only differ in the order of keys, attributes, or elements compare equal.
// A side that can't be sorted is compared as is.
//
// [znkr.io/docdiff/sorter]: https://pkg.go.dev/znkr.io/docdiff/sorter
func Semantic() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Semantic = true
		return config.Semantic
	}
}

// Pretty pretty prints both documents with [znkr.io/docdiff/format] before comparing. Semantic
// implies Pretty.
//
// [znkr.io/docdiff/format]: https://pkg.go.dev/znkr.io/docdiff/format
func Pretty() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Pretty = true
		return config.Pretty
	}
}
