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

package myers

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func eq(a, b string) bool { return a == b }

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		x, y []string
		want string
	}{
		{
			name: "identical",
			x:    []string{"foo", "bar", "baz"},
			y:    []string{"foo", "bar", "baz"},
			want: "MMM",
		},
		{
			name: "empty",
			x:    nil,
			y:    nil,
			want: "",
		},
		{
			name: "x-empty",
			x:    nil,
			y:    []string{"foo", "bar", "baz"},
			want: "III",
		},
		{
			name: "y-empty",
			x:    []string{"foo", "bar", "baz"},
			y:    nil,
			want: "DDD",
		},
		{
			name: "same-prefix",
			x:    []string{"foo", "bar"},
			y:    []string{"foo", "baz"},
			want: "MDI",
		},
		{
			name: "same-suffix",
			x:    []string{"foo", "bar"},
			y:    []string{"loo", "bar"},
			want: "DIM",
		},
		{
			name: "one-becomes-two",
			x:    []string{"a", "b", "c"},
			y:    []string{"a", "x", "y", "c"},
			want: "MDIIM",
		},
		{
			name: "largish",
			x:    strings.Split("xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaay", ""),
			y:    strings.Split("waaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaait", ""),
			want: "DIMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMMDII",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, optimal := range []bool{false, true} {
				rx, ry := Diff(tt.x, tt.y, eq, optimal)
				got := render(rx, ry, len(tt.x), len(tt.y))
				if diff := cmp.Diff(tt.want, got); diff != "" {
					t.Errorf("Diff(..., optimal=%v) differs [-want,+got]:\n%s", optimal, diff)
				}
			}
		})
	}
}

func TestDiffFindsLongestCommonSubsequence(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	for i := range 500 {
		x := randomTokens(rnd, rnd.IntN(30))
		y := randomTokens(rnd, rnd.IntN(30))
		rx, ry := Diff(x, y, eq, true)

		if got := validate(t, x, y, rx, ry); got != lcs(x, y) {
			t.Errorf("case %d: Diff(%q, %q) found %d matches, want %d", i, x, y, got, lcs(x, y))
		}
	}
}

func TestDiffWithCustomEquality(t *testing.T) {
	x := []string{"  a", "b  ", "c"}
	y := []string{"a", "b", "d"}
	rx, ry := Diff(x, y, func(a, b string) bool { return strings.TrimSpace(a) == strings.TrimSpace(b) }, false)
	if diff := cmp.Diff("MMDI", render(rx, ry, len(x), len(y))); diff != "" {
		t.Errorf("Diff(...) differs [-want,+got]:\n%s", diff)
	}
}

func randomTokens(rnd *rand.Rand, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('a' + rnd.IntN(4)))
	}
	return out
}

// validate checks that the matches in rx and ry pair up equal elements and returns their number.
func validate(t *testing.T, x, y []string, rx, ry []bool) int {
	t.Helper()
	if len(rx) != len(x)+1 || len(ry) != len(y)+1 || rx[len(x)] || ry[len(y)] {
		t.Fatalf("malformed result vectors for %q, %q", x, y)
	}
	matches := 0
	s, t0 := 0, 0
	for s < len(x) || t0 < len(y) {
		switch {
		case s < len(x) && rx[s]:
			s++
		case t0 < len(y) && ry[t0]:
			t0++
		case s < len(x) && t0 < len(y):
			if x[s] != y[t0] {
				t.Fatalf("match of unequal elements %q and %q", x[s], y[t0])
			}
			matches++
			s++
			t0++
		default:
			t.Fatalf("unbalanced result vectors for %q, %q", x, y)
		}
	}
	return matches
}

func lcs(x, y []string) int {
	dp := make([][]int, len(x)+1)
	for i := range dp {
		dp[i] = make([]int, len(y)+1)
	}
	for i := len(x) - 1; i >= 0; i-- {
		for j := len(y) - 1; j >= 0; j-- {
			if x[i] == y[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else {
				dp[i][j] = max(dp[i+1][j], dp[i][j+1])
			}
		}
	}
	return dp[0][0]
}

func render(rx, ry []bool, n, m int) string {
	var sb strings.Builder
	for s, t := 0, 0; s < n || t < m; {
		if rx[s] {
			sb.WriteRune('D')
			s++
		} else if ry[t] {
			sb.WriteRune('I')
			t++
		} else {
			sb.WriteRune('M')
			s++
			t++
		}
	}
	return sb.String()
}
