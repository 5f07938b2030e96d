// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import "github.com/goki/mat32"

// SynParams is a first-order lowpass synaptic filter.  It is discretized
// with a zero-order hold: y(t) = a y(t-dt) + (1-a) x(t), a = exp(-dt / Tau).
// Tau = 0 passes the signal through unfiltered.
type SynParams struct {
	Tau float32 `def:"0.005" min:"0" desc:"synaptic time constant in seconds -- 0 = no filtering"`
}

func (sp *SynParams) Defaults() {
	sp.Tau = 0.005
}

// Update must be called after any changes to parameters
func (sp *SynParams) Update() {
	if sp.Tau < 0 {
		sp.Tau = 0
	}
}

// On returns true if the filter does anything
func (sp *SynParams) On() bool {
	return sp.Tau > 0
}

// Decay returns the per-step decay factor a for time step dt
func (sp *SynParams) Decay(dt float32) float32 {
	if !sp.On() {
		return 0
	}
	return mat32.Exp(-dt / sp.Tau)
}

// Filter updates the filter state y in place from the input x, using the
// decay factor from Decay.  y and x must be the same length.
func (sp *SynParams) Filter(a float32, x, y []float32) {
	if !sp.On() {
		copy(y, x)
		return
	}
	b := 1 - a
	for i := range y {
		y[i] = a*y[i] + b*x[i]
	}
}
