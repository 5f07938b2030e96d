// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"fmt"
	"math"

	"github.com/emer/nef/lif"
	"github.com/goki/mat32"
)

///////////////////////////////////////////////////////////////////////
//  act.go contains the neuron response params and update functions

// nef.ActParams contains the neuron response model and its parameters.
// This is included in nef.Ensemble to drive the computation.
type ActParams struct {
	Type      NeuronTypes `desc:"type of neuron response model"`
	Amplitude float32     `def:"1" desc:"scaling on the neuron output -- spikes are Amplitude / dt in height, rates are multiplied by Amplitude"`
	LIF       lif.Params  `view:"inline" viewif:"Type=LIF,LIFRate" desc:"leaky integrate-and-fire parameters, used by LIF and LIFRate"`
}

func (ac *ActParams) Defaults() {
	ac.Type = LIF
	ac.Amplitude = 1
	ac.LIF.Defaults()
	ac.Update()
}

// Update must be called after any changes to parameters
func (ac *ActParams) Update() {
	ac.LIF.Amplitude = ac.Amplitude
	ac.LIF.Update()
}

// InitActs initializes the neuron state to rest
func (ac *ActParams) InitActs(nrn *Neuron) {
	nrn.V = 0
	nrn.RefTime = 0
	nrn.J = 0
	nrn.Out = 0
}

// Rate returns the steady-state output rate for a constant input current j.
// For spiking types this is the rate of the corresponding rate model,
// which is what decoders are solved against.
func (ac *ActParams) Rate(j float32) float32 {
	switch ac.Type {
	case LIF, LIFRate:
		return ac.LIF.Rate(j)
	default:
		return ac.Amplitude * mat32.Max(j, 0)
	}
}

// GainBias returns the gain and bias for a neuron that starts responding at
// intercept and reaches maxRate at a represented value of 1.
func (ac *ActParams) GainBias(maxRate, intercept float32) (gain, bias float32, err error) {
	switch ac.Type {
	case LIF, LIFRate:
		return ac.LIF.GainBias(maxRate, intercept)
	default:
		if intercept >= 1 {
			return 0, 0, fmt.Errorf("ActParams.GainBias: intercept %v must be < 1", intercept)
		}
		gain = maxRate / (1 - intercept)
		bias = -intercept * gain
		return gain, bias, nil
	}
}

// Step updates the neuron state for one time step of dt seconds given input current j,
// setting nrn.J and nrn.Out.
func (ac *ActParams) Step(nrn *Neuron, j, dt float32) {
	nrn.J = j
	switch ac.Type {
	case LIF:
		ac.StepLIF(nrn, j, dt)
	case SpikingRectifiedLinear:
		nrn.V += mat32.Max(j, 0) * dt
		nsp := mat32.Floor(nrn.V)
		nrn.Out = (ac.Amplitude / dt) * nsp
		nrn.V -= nsp
	default:
		nrn.Out = ac.Rate(j)
	}
}

// StepLIF updates a spiking LIF neuron.  The membrane is integrated exactly
// over the non-refractory part of the step, and the sub-step spike time is
// carried into the next refractory period.
func (ac *ActParams) StepLIF(nrn *Neuron, j, dt float32) {
	lp := &ac.LIF
	nrn.RefTime -= dt
	delta := dt - nrn.RefTime
	if delta < 0 {
		delta = 0
	} else if delta > dt {
		delta = dt
	}
	nrn.V -= (j - nrn.V) * float32(math.Expm1(float64(-delta/lp.TauRC)))
	nrn.Out = 0
	if nrn.V > 1 {
		nrn.Out = ac.Amplitude / dt
		tsp := dt + lp.TauRC*float32(math.Log1p(float64(-(nrn.V-1)/(j-1))))
		nrn.V = 0
		nrn.RefTime = lp.TauRef + tsp
		return
	}
	if nrn.V < lp.MinVoltage {
		nrn.V = lp.MinVoltage
	}
}
