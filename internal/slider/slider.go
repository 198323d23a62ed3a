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

// Package slider moves groups of changed lines along runs of equal lines without changing the
// size of the diff.
//
// A deletion of line X followed by zero or more deletions and a match of a line equal to X can be
// swapped with that match. The same holds for insertions and in the other direction. This package
// uses that freedom to
//
//  1. merge adjacent groups of deletions (or insertions) into one group, and
//  2. place a group of deletions directly before a group of insertions where possible, so that
//     the two form a single replacement block.
//
// Groups that can't be aligned with the other side are left at the lowest position they can slide
// to.
package slider

// Never move a group more than this many lines.
const maxSliding = 100

// Apply slides the groups in rx and ry. x and y are the compared elements and eq is the equality
// that was used to compute rx and ry.
func Apply[T any](x, y []T, rx, ry []bool, eq func(a, b T) bool) {
	apply0(x, rx, ry, eq)
	apply0(y, ry, rx, eq)
}

// apply0 slides the groups of r, ro is the result vector of the other side and only used to keep
// track of group boundaries.
func apply0[T any](lines []T, r, ro []bool, eq func(a, b T) bool) {
	s := &scanner[T]{start: -1, end: -1, lines: lines, r: r, eq: eq}
	so := &scanner[T]{start: -1, end: -1, r: ro}
	for s.nextGroup() {
		if !so.nextGroup() {
			panic("scanner sync broken")
		}
		if s.groupLen() == 0 {
			continue
		}

		matchingEnd := -1 // end of the group where it's adjacent to a group on the other side
		grpLen := 0
		for grpLen != s.groupLen() {
			grpLen = s.groupLen()
			matchingEnd = -1

			for moved := 0; moved < maxSliding && s.slideUp(); moved++ {
				if !so.prevGroup() {
					panic("scanner sync broken")
				}
			}
			if so.groupLen() > 0 {
				matchingEnd = s.end
			}

			for moved := 0; moved < maxSliding && s.slideDown(); moved++ {
				if !so.nextGroup() {
					panic("scanner sync broken")
				}
				if so.groupLen() > 0 {
					matchingEnd = s.end
				}
			}
		}

		if matchingEnd == -1 {
			continue
		}
		for s.end > matchingEnd {
			if !s.slideUp() {
				panic("matching position disappeared")
			}
			if !so.prevGroup() {
				panic("scanner sync broken")
			}
		}
	}
	if so.nextGroup() {
		panic("scanner sync broken")
	}
}

// scanner walks over groups of a result vector. Every element that is not part of a group (a
// match) is followed by a, possibly empty, group. This way the groups of x and y correspond to
// each other one by one.
type scanner[T any] struct {
	start int // first element of the current group, or the match after an empty group
	end   int // first match after the group; for an empty group start == end
	lines []T
	r     []bool
	eq    func(a, b T) bool
}

func (s *scanner[T]) groupLen() int { return s.end - s.start }

// nextGroup moves to the next, possibly empty, group. It returns false at the end.
func (s *scanner[T]) nextGroup() bool {
	if s.end == len(s.r)-1 {
		return false
	}
	s.start, s.end = s.end+1, s.end+1
	for s.end < len(s.r)-1 && s.r[s.end] {
		s.end++
	}
	return true
}

// prevGroup moves to the previous, possibly empty, group. It returns false at the beginning.
func (s *scanner[T]) prevGroup() bool {
	if s.start == 0 {
		return false
	}
	s.start, s.end = s.start-1, s.start-1
	for s.start > 0 && s.r[s.start-1] {
		s.start--
	}
	return true
}

// slideDown moves the group down by one line, merging it with a group directly below. It returns
// false if the line after the group isn't equal to the first line of the group.
func (s *scanner[T]) slideDown() bool {
	if s.end >= len(s.r)-1 || !s.eq(s.lines[s.start], s.lines[s.end]) {
		return false
	}
	s.r[s.start], s.r[s.end] = false, true
	s.start++
	s.end++
	for s.end < len(s.r)-1 && s.r[s.end] {
		s.end++
	}
	return true
}

// slideUp moves the group up by one line, merging it with a group directly above. It returns
// false if the line before the group isn't equal to the last line of the group.
func (s *scanner[T]) slideUp() bool {
	if s.start == 0 || !s.eq(s.lines[s.start-1], s.lines[s.end-1]) {
		return false
	}
	s.r[s.start-1], s.r[s.end-1] = true, false
	s.start--
	s.end--
	for s.start > 0 && s.r[s.start-1] {
		s.start--
	}
	return true
}
