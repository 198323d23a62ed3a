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

package color

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"znkr.io/docdiff"
)

func TestUnified(t *testing.T) {
	patch := "@@ -1,2 +1,2 @@\n a\n-b\n+c\n\\ No newline at end of file\n"
	want := "\033[1;36m@@ -1,2 +1,2 @@\033[0m\n a\n\033[31m-b\033[0m\n\033[32m+c\033[0m\n\\ No newline at end of file\n"
	got := New(HunkHeaders(1, 36)).Unified(patch)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unified(...) result are different [-want,+got]:\n%s", diff)
	}
}

func TestLine(t *testing.T) {
	c := New(Matches(2))
	tests := []struct {
		kind docdiff.Kind
		text string
		want string
	}{
		{docdiff.Unchanged, "a", "\033[2ma\033[0m"},
		{docdiff.Removed, "b", "\033[31mb\033[0m"},
		{docdiff.Added, "c", "\033[32mc\033[0m"},
		{docdiff.Phantom, "", ""},
		{docdiff.Added, "", ""},
	}
	for _, tt := range tests {
		if got := c.Line(tt.kind, tt.text); got != tt.want {
			t.Errorf("Line(%v, %q) = %q, want %q", tt.kind, tt.text, got, tt.want)
		}
	}
}
