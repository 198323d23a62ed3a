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

// Package rvecs provides helpers to work with result vectors returned by the diff engine.
//
// A pair of result vectors rx, ry has one entry per element of x and y respectively and a border
// element at the end that is always false. rx[s] is true if x[s] was deleted, ry[t] is true if
// y[t] was inserted.
package rvecs

import "iter"

// Make allocates result vectors for inputs of length n and m.
func Make(n, m int) (rx, ry []bool) {
	r := make([]bool, n+m+2)
	rx = r[: n+1 : n+1]
	ry = r[n+1:]
	return
}

// Op describes the kind of a run.
type Op int

const (
	Match Op = iota
	Delete
	Insert
)

// Run is a maximal sequence of edits of the same kind.
type Run struct {
	Op     Op
	S0, S1 int // Start and end of the run in x.
	T0, T1 int // Start and end of the run in y.
}

// Runs iterates over the runs described by rx and ry. Within a changed region, a delete run
// always precedes an insert run and two runs of the same kind are never adjacent.
func Runs(rx, ry []bool) iter.Seq[Run] {
	return func(yield func(Run) bool) {
		n, m := len(rx)-1, len(ry)-1
		for s, t := 0, 0; s < n || t < m; {
			if s < n && rx[s] {
				s0 := s
				for s < n && rx[s] {
					s++
				}
				if !yield(Run{Delete, s0, s, t, t}) {
					return
				}
			}
			if t < m && ry[t] {
				t0 := t
				for t < m && ry[t] {
					t++
				}
				if !yield(Run{Insert, s, s, t0, t}) {
					return
				}
			}
			if s < n && t < m && !rx[s] && !ry[t] {
				s0, t0 := s, t
				for s < n && t < m && !rx[s] && !ry[t] {
					s++
					t++
				}
				if !yield(Run{Match, s0, s, t0, t}) {
					return
				}
			}
		}
	}
}
