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

// Package myers implements the linear space variant of Myers' algorithm from "An O(ND) Difference
// Algorithm and Its Variations" (http://www.xmailserver.org/diff2.pdf).
//
// The result of a comparison are two result vectors rx and ry with one entry per element of x and
// y plus a border element that is always false. An entry is true if the element was deleted from x
// (rx) or inserted into y (ry). All other elements are matches and appear in the same order in x
// and y.
//
// The same engine is used for lines, words and characters, equality is always provided by the
// caller.
package myers

import (
	"math"

	"znkr.io/docdiff/internal/rvecs"
)

// minCostLimit is a lower bound for the TOO_EXPENSIVE heuristic. That is the heuristic is only
// applied when the cost exceeds this number (large inputs with a lot of differences).
const minCostLimit = 4096

// Diff compares x and y using eq and returns the result vectors.
//
// If optimal is false, the search for a minimal diff is cut short for very large inputs with many
// differences. The result is still a valid common subsequence, but might not be the longest.
func Diff[T any](x, y []T, eq func(a, b T) bool, optimal bool) (rx, ry []bool) {
	rx, ry = rvecs.Make(len(x), len(y))

	smin, smax, tmin, tmax := bounds(x, y, eq)
	switch {
	case smin == smax && tmin == tmax:
		return rx, ry
	case tmin == tmax:
		for s := smin; s < smax; s++ {
			rx[s] = true
		}
		return rx, ry
	case smin == smax:
		for t := tmin; t < tmax; t++ {
			ry[t] = true
		}
		return rx, ry
	}

	m := newMyers(x, y, eq, smax-smin, tmax-tmin)
	m.rx, m.ry = rx, ry
	m.compare(smin, smax, tmin, tmax, optimal)
	return rx, ry
}

// bounds returns the upper and lower bounds for the changed portion of the inputs.
func bounds[T any](x, y []T, eq func(a, b T) bool) (smin, smax, tmin, tmax int) {
	smin, tmin = 0, 0
	smax, tmax = len(x), len(y)

	// Strip common prefix.
	for smin < smax && tmin < tmax && eq(x[smin], y[tmin]) {
		smin++
		tmin++
	}

	// Strip common suffix.
	for smax > smin && tmax > tmin && eq(x[smax-1], y[tmax-1]) {
		smax--
		tmax--
	}

	return
}

type myers[T any] struct {
	x, y []T
	eq   func(a, b T) bool

	// v-arrays for forwards and backwards iteration. The furthest reaching endpoint of a d-path in
	// diagonal k is stored in v[v0+k]. Only the s-coordinate is stored, t = s - k.
	vf, vb []int
	v0     int

	// Upper bound for d before the TOO_EXPENSIVE heuristic kicks in.
	costLimit int

	// Result vectors.
	rx, ry []bool
}

func newMyers[T any](x, y []T, eq func(a, b T) bool, n, m int) *myers[T] {
	diagonals := n + m
	vlen := 2*diagonals + 3    // +1 for the middle point and +2 for the borders
	buf := make([]int, 2*vlen) // vf and vb share a single allocation

	// The cost limit is the approximate square root of the number of diagonals, bounded below by
	// minCostLimit.
	costLimit := 1
	for i := diagonals; i != 0; i >>= 2 {
		costLimit <<= 1
	}

	return &myers[T]{
		x:         x,
		y:         y,
		eq:        eq,
		vf:        buf[:vlen],
		vb:        buf[vlen:],
		v0:        diagonals + 1,
		costLimit: max(minCostLimit, costLimit),
	}
}

// compare marks the edits of a shortest path from (smin, tmin) to (smax, tmax).
func (m *myers[T]) compare(smin, smax, tmin, tmax int, optimal bool) {
	// Matching prefixes and suffixes need no search.
	for smin < smax && tmin < tmax && m.eq(m.x[smin], m.y[tmin]) {
		smin++
		tmin++
	}
	for smax > smin && tmax > tmin && m.eq(m.x[smax-1], m.y[tmax-1]) {
		smax--
		tmax--
	}

	switch {
	case smin == smax:
		for t := tmin; t < tmax; t++ {
			m.ry[t] = true
		}
	case tmin == tmax:
		for s := smin; s < smax; s++ {
			m.rx[s] = true
		}
	default:
		// The middle snake (s0, t0) to (s1, t1) separates two independent sub-problems.
		s0, s1, t0, t1, opt0, opt1 := m.split(smin, smax, tmin, tmax, optimal)
		m.compare(smin, s0, tmin, t0, opt0)
		m.compare(s1, smax, t1, tmax, opt1)
	}
}

// split finds the endpoints of a, potentially empty, sequence of diagonals in the middle of a
// shortest path from (smin, tmin) to (smax, tmax).
//
// x[smin:smax] and y[tmin:tmax] must be non-empty and must not share a prefix or suffix.
func (m *myers[T]) split(smin, smax, tmin, tmax int, optimal bool) (s0, s1, t0, t1 int, opt0, opt1 bool) {
	N, M := smax-smin, tmax-tmin
	x, y, eq := m.x, m.y, m.eq
	vf, vb := m.vf, m.vb
	v0 := m.v0

	// Bounds for k = s - t inside the edit grid.
	kmin, kmax := smin-tmax, smax-tmin

	// Forward and backward searches are centered around their own diagonals, but both use the
	// same numbering for k. This keeps the overlap check free of conversions.
	fmid, bmid := smin-tmin, smax-tmax
	fmin, fmax := fmid, fmid
	bmin, bmax := bmid, bmid

	// The parity of the shortest path length equals the parity of N-M. Overlaps only need to be
	// checked in the forward pass for odd lengths and in the backward pass for even lengths.
	odd := (N-M)%2 != 0

	vf[v0+fmid] = smin
	vb[v0+bmid] = smax

	for d := 1; ; d++ {
		// Forward pass. The diagonal range grows by one in each direction as long as it stays
		// inside the grid and shrinks once it hit the border. The sentinel values outside the
		// range make the border cases behave like any other diagonal.
		if fmin > kmin {
			fmin--
			vf[v0+fmin-1] = math.MinInt
		} else {
			fmin++
		}
		if fmax < kmax {
			fmax++
			vf[v0+fmax+1] = math.MinInt
		} else {
			fmax--
		}
		for k := fmin; k <= fmax; k += 2 {
			k0 := k + v0
			var s int
			if vf[k0-1] < vf[k0+1] {
				s = vf[k0+1] // vertical step (insertion)
			} else {
				s = vf[k0-1] + 1 // horizontal step (deletion), preferred on ties
			}
			t := s - k

			s0, t0 := s, t
			for s < smax && t < tmax && eq(x[s], y[t]) {
				s++
				t++
			}
			vf[k0] = s

			if odd && bmin <= k && k <= bmax && s >= vb[k0] {
				return s0, s, t0, t, true, true
			}
		}

		// Backward pass, mirror image of the forward pass.
		if bmin > kmin {
			bmin--
			vb[v0+bmin-1] = math.MaxInt
		} else {
			bmin++
		}
		if bmax < kmax {
			bmax++
			vb[v0+bmax+1] = math.MaxInt
		} else {
			bmax--
		}
		for k := bmin; k <= bmax; k += 2 {
			k0 := k + v0
			var s int
			if vb[k0-1] < vb[k0+1] {
				s = vb[k0-1]
			} else {
				s = vb[k0+1] - 1
			}
			t := s - k

			s0, t0 := s, t
			for s > smin && t > tmin && eq(x[s-1], y[t-1]) {
				s--
				t--
			}
			vb[k0] = s

			if !odd && fmin <= k && k <= fmax && s <= vf[k0] {
				return s, s0, t, t0, true, true
			}
		}

		if optimal || d < m.costLimit {
			continue
		}

		// Heuristic (TOO_EXPENSIVE): Stop searching and split at the furthest reaching endpoint
		// found so far. The two halves are solved independently.
		fbest, fbestk := math.MinInt, 0
		for k := fmin; k <= fmax; k += 2 {
			s := vf[k+v0]
			t := s - k
			if smin <= s && s < smax && tmin <= t && t < tmax && fbest < s+t {
				fbest, fbestk = s+t, k
			}
		}
		bbest, bbestk := math.MaxInt, 0
		for k := bmin; k <= bmax; k += 2 {
			s := vb[k+v0]
			t := s - k
			if smin <= s && s < smax && tmin <= t && t < tmax && s+t < bbest {
				bbest, bbestk = s+t, k
			}
		}

		switch {
		case fbest != math.MinInt && (fbest-(smin+tmin)) >= ((smax+tmax)-bbest):
			s := vf[fbestk+v0]
			t := s - fbestk
			return s, s, t, t, true, false
		case bbest != math.MaxInt:
			s := vb[bbestk+v0]
			t := s - bbestk
			return s, s, t, t, false, true
		default:
			panic("no best path found")
		}
	}
}
