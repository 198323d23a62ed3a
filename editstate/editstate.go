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

// Package editstate tracks bursts of edits to a document.
//
// A [Machine] moves from Idle to Typing on the first edit and to Settled once no edit happened for
// a quiet period. Callers use the transition to Settled to run expensive work, like validating or
// comparing a document, only after typing paused.
//
// The machine doesn't use timers or goroutines. Time is passed in by the caller, which makes the
// machine deterministic and easy to test.
package editstate

import (
	"fmt"
	"time"
)

// State is the state of a [Machine].
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=State -linecomment
type State int

const (
	Idle    State = iota // idle
	Typing               // typing
	Settled              // settled
)

// DefaultQuiet is the quiet period used by [New] if none is given.
const DefaultQuiet = 300 * time.Millisecond

// Machine is a debounce state machine. The zero value is not usable, use [New].
type Machine struct {
	quiet time.Duration
	state State
	last  time.Time // time of the last edit
	edits int       // edits in the current burst
}

// New returns an idle machine that settles after quiet. A non-positive quiet period selects
// [DefaultQuiet].
func New(quiet time.Duration) *Machine {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	return &Machine{quiet: quiet}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Edits returns the number of edits in the current burst.
func (m *Machine) Edits() int { return m.edits }

// Edit records an edit at now. An edit always moves the machine to Typing, an edit in the Settled
// state starts a new burst.
func (m *Machine) Edit(now time.Time) {
	switch m.state {
	case Idle, Settled:
		m.edits = 0
	case Typing:
	default:
		panic(fmt.Sprintf("invalid state %v", m.state))
	}
	m.state = Typing
	m.last = now
	m.edits++
}

// Tick advances the machine to now. It reports whether the machine moved from Typing to Settled,
// which happens when the quiet period passed since the last edit. Each burst fires exactly once.
func (m *Machine) Tick(now time.Time) (fired bool) {
	if m.state != Typing || now.Sub(m.last) < m.quiet {
		return false
	}
	m.state = Settled
	return true
}

// Deadline returns the time at which the machine settles if no further edit happens. It returns
// false if the machine is not Typing.
func (m *Machine) Deadline() (time.Time, bool) {
	if m.state != Typing {
		return time.Time{}, false
	}
	return m.last.Add(m.quiet), true
}

// Reset moves a settled machine back to Idle, after the caller handled the settled burst. Reset
// does nothing in other states.
func (m *Machine) Reset() {
	if m.state == Settled {
		m.state = Idle
		m.edits = 0
	}
}
