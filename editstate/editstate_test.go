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

package editstate

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type event struct {
	op string // edit, tick, or reset
	at time.Duration
}

type step struct {
	state State
	fired bool
	edits int
}

func TestMachine(t *testing.T) {
	tests := []struct {
		name   string
		events []event
		want   []step
	}{
		{
			name:   "idle-tick",
			events: []event{{"tick", time.Second}},
			want:   []step{{Idle, false, 0}},
		},
		{
			name: "burst",
			events: []event{
				{"edit", 0},
				{"edit", 100 * time.Millisecond},
				{"tick", 200 * time.Millisecond},
				{"edit", 350 * time.Millisecond},
				{"tick", 600 * time.Millisecond},
				{"tick", 650 * time.Millisecond},
				{"tick", 700 * time.Millisecond},
			},
			want: []step{
				{Typing, false, 1},
				{Typing, false, 2},
				{Typing, false, 2},
				{Typing, false, 3},
				{Typing, false, 3},
				{Settled, true, 3},
				{Settled, false, 3},
			},
		},
		{
			name: "reset",
			events: []event{
				{"edit", 0},
				{"reset", 10 * time.Millisecond},
				{"tick", 300 * time.Millisecond},
				{"reset", 400 * time.Millisecond},
				{"edit", time.Second},
			},
			want: []step{
				{Typing, false, 1},
				{Typing, false, 1},
				{Settled, true, 1},
				{Idle, false, 0},
				{Typing, false, 1},
			},
		},
		{
			name: "edit-after-settled",
			events: []event{
				{"edit", 0},
				{"tick", time.Second},
				{"edit", 2 * time.Second},
				{"tick", 2*time.Second + 299*time.Millisecond},
				{"tick", 2*time.Second + 300*time.Millisecond},
			},
			want: []step{
				{Typing, false, 1},
				{Settled, true, 1},
				{Typing, false, 1},
				{Typing, false, 1},
				{Settled, true, 1},
			},
		},
	}

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(300 * time.Millisecond)
			var got []step
			for _, ev := range tt.events {
				now := start.Add(ev.at)
				fired := false
				switch ev.op {
				case "edit":
					m.Edit(now)
				case "tick":
					fired = m.Tick(now)
				case "reset":
					m.Reset()
				default:
					t.Fatalf("unknown event %q", ev.op)
				}
				got = append(got, step{m.State(), fired, m.Edits()})
			}
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(step{})); diff != "" {
				t.Errorf("machine went through different states [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestDeadline(t *testing.T) {
	m := New(0)
	if _, ok := m.Deadline(); ok {
		t.Error("Deadline() of an idle machine reported ok")
	}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.Edit(now)
	got, ok := m.Deadline()
	if want := now.Add(DefaultQuiet); !ok || !got.Equal(want) {
		t.Errorf("Deadline() = %v, %v, want %v, true", got, ok, want)
	}
	if m.Tick(got.Add(-time.Nanosecond)) {
		t.Error("Tick(...) fired before the deadline")
	}
	if !m.Tick(got) {
		t.Error("Tick(...) didn't fire at the deadline")
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Idle: "idle", Typing: "typing", Settled: "settled", 7: "State(7)"} {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
