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

// Package docdiff compares two versions of a text document line by line and derives the views a
// document comparison tool shows: a unified sequence of lines and a side-by-side (split) sequence
// where replaced lines are paired up.
//
// The main functions are [Align], which aligns two texts, and [Compare], which additionally
// validates and normalizes XML and JSON documents before aligning them. Normalization is done
// with [znkr.io/docdiff/format] (pretty printing) and [znkr.io/docdiff/sorter] (canonical order).
//
// All functions are pure and safe for concurrent use. For a classic unified patch, see
// [znkr.io/docdiff/textdiff].
//
// [znkr.io/docdiff/format]: https://pkg.go.dev/znkr.io/docdiff/format
// [znkr.io/docdiff/sorter]: https://pkg.go.dev/znkr.io/docdiff/sorter
// [znkr.io/docdiff/textdiff]: https://pkg.go.dev/znkr.io/docdiff/textdiff
package docdiff
