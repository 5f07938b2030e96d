// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package lif provides the steady-state response curve of the leaky
integrate-and-fire (LIF) neuron, in the normalized units used throughout
the nef package: membrane voltage is 0 at rest and 1 at threshold, and the
input current J is expressed in the same units, so a constant J <= 1 never
produces a spike.

For a constant input J > 1, the time to charge from 0 to 1 is
TauRC * ln(1 + 1/(J-1)), after which the neuron is silent for TauRef,
giving the familiar rate curve.  GainBias inverts this curve to find the
gain and bias that make a neuron start firing at a given intercept and
reach a given maximum rate at the edge of the represented range.
*/
package lif

import (
	"fmt"
	"math"

	"github.com/goki/mat32"
)

// Params are the leaky integrate-and-fire neuron parameters.
type Params struct {
	TauRC      float32 `def:"0.02" min:"0" desc:"membrane RC time constant, in seconds -- how quickly the membrane voltage decays to the input current"`
	TauRef     float32 `def:"0.002" min:"0" desc:"absolute refractory period, in seconds -- the membrane is clamped at 0 for this long after each spike"`
	Amplitude  float32 `def:"1" desc:"scaling factor on the output: spikes are Amplitude / dt in height, rates are multiplied by Amplitude"`
	MinVoltage float32 `def:"0" desc:"lower bound on the membrane voltage -- prevents the membrane from being driven arbitrarily negative by inhibitory input"`

	MaxRateLim float32 `view:"-" json:"-" xml:"-" desc:"1 / TauRef -- rates must stay below this value"`
}

func (lp *Params) Defaults() {
	lp.TauRC = 0.02
	lp.TauRef = 0.002
	lp.Amplitude = 1
	lp.MinVoltage = 0
	lp.Update()
}

// Update must be called after any changes to parameters
func (lp *Params) Update() {
	if lp.TauRef > 0 {
		lp.MaxRateLim = 1 / lp.TauRef
	} else {
		lp.MaxRateLim = math.MaxFloat32
	}
}

// Rate returns the steady-state firing rate for a constant input current j.
func (lp *Params) Rate(j float32) float32 {
	if j <= 1 {
		return 0
	}
	return lp.Amplitude / (lp.TauRef + lp.TauRC*float32(math.Log1p(1/float64(j-1))))
}

// RateDeriv returns the derivative of Rate with respect to j, used for
// sensitivity reporting -- 0 below threshold.
func (lp *Params) RateDeriv(j float32) float32 {
	if j <= 1 {
		return 0
	}
	r := lp.Rate(j) / lp.Amplitude
	return lp.Amplitude * r * r * lp.TauRC / (j * (j - 1))
}

// GainBias returns the gain and bias that place the firing threshold at
// intercept (in normalized represented-value units, -1..1) and produce
// maxRate at a represented value of 1.
func (lp *Params) GainBias(maxRate, intercept float32) (gain, bias float32, err error) {
	if intercept >= 1 {
		return 0, 0, fmt.Errorf("lif.GainBias: intercept %v must be < 1", intercept)
	}
	if maxRate <= 0 {
		return 0, 0, fmt.Errorf("lif.GainBias: max rate %v must be > 0", maxRate)
	}
	if maxRate >= lp.MaxRateLim {
		return 0, 0, fmt.Errorf("lif.GainBias: max rate %v must be below the inverse refractory period %v", maxRate, lp.MaxRateLim)
	}
	x := 1 / (1 - mat32.Exp((lp.TauRef-1/maxRate)/lp.TauRC))
	gain = (1 - x) / (intercept - 1)
	bias = 1 - gain*intercept
	return gain, bias, nil
}

// MaxRateIntercept is the inverse of GainBias: it returns the max rate and
// intercept implied by a gain and bias.
func (lp *Params) MaxRateIntercept(gain, bias float32) (maxRate, intercept float32) {
	intercept = (1 - bias) / gain
	maxRate = lp.Rate(gain+bias) / lp.Amplitude
	return
}
