// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import "math"

// nef.Time contains the timing state and parameters for running a simulation
type Time struct {

	// current simulation time in seconds -- Step * Dt
	Time float64

	// number of steps taken since the last reset
	Step int

	// duration of one step, in seconds
	Dt float64 `def:"0.001"`
}

// NewTime returns a new Time struct with default parameters
func NewTime() *Time {
	tm := &Time{}
	tm.Defaults()
	return tm
}

// Defaults sets default values
func (tm *Time) Defaults() {
	tm.Dt = 0.001
}

// Reset resets the counters all back to zero
func (tm *Time) Reset() {
	tm.Time = 0
	tm.Step = 0
	if tm.Dt == 0 {
		tm.Defaults()
	}
}

// StepInc increments at the step level.  Time is computed from the step
// count rather than accumulated, so breakpoints at multiples of Dt are hit exactly.
func (tm *Time) StepInc() {
	tm.Step++
	tm.Time = float64(tm.Step) * tm.Dt
}

// StepsFor returns the number of steps needed to run for secs seconds
func (tm *Time) StepsFor(secs float64) int {
	return int(math.Round(secs / tm.Dt))
}
