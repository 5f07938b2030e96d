// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"testing"

	"github.com/goki/mat32"
)

// countSpikes runs a neuron for secs at constant input j and returns the
// number of spikes (output integrated over time, divided by amplitude)
func countSpikes(ac *ActParams, j, dt float32, secs float32) float32 {
	nrn := &Neuron{}
	ac.InitActs(nrn)
	nstep := int(secs/dt + 0.5)
	sum := float32(0)
	for i := 0; i < nstep; i++ {
		ac.Step(nrn, j, dt)
		sum += nrn.Out * dt
	}
	return sum / ac.Amplitude
}

func TestLIFSpikeRate(t *testing.T) {
	ac := ActParams{}
	ac.Defaults()
	for _, j := range []float32{0.5, 1, 2, 5} {
		n := countSpikes(&ac, j, 0.001, 1)
		r := ac.Rate(j)
		if mat32.Abs(n-r) > 2 {
			t.Errorf("LIF j: %v spikes in 1s: %v, rate: %v", j, n, r)
		}
	}
}

func TestLIFRefractory(t *testing.T) {
	ac := ActParams{}
	ac.Defaults()
	nrn := &Neuron{}
	ac.InitActs(nrn)
	dt := float32(0.001)
	// drive hard until first spike
	for i := 0; i < 100 && nrn.Out == 0; i++ {
		ac.Step(nrn, 100, dt)
	}
	if nrn.Out != 1/dt {
		t.Fatalf("spike height: %v, want %v", nrn.Out, 1/dt)
	}
	if nrn.V != 0 || nrn.RefTime <= 0 {
		t.Errorf("after spike V: %v RefTime: %v", nrn.V, nrn.RefTime)
	}
	ac.Step(nrn, 100, dt)
	if nrn.Out != 0 {
		t.Errorf("spiked during refractory period")
	}
}

func TestLIFMinVoltage(t *testing.T) {
	ac := ActParams{}
	ac.Defaults()
	nrn := &Neuron{}
	ac.InitActs(nrn)
	for i := 0; i < 100; i++ {
		ac.Step(nrn, -10, 0.001)
	}
	if nrn.V < ac.LIF.MinVoltage {
		t.Errorf("V: %v below MinVoltage: %v", nrn.V, ac.LIF.MinVoltage)
	}
}

func TestRateTypes(t *testing.T) {
	ac := ActParams{}
	ac.Defaults()
	ac.Type = LIFRate
	nrn := &Neuron{}
	ac.Step(nrn, 2, 0.001)
	if nrn.Out != ac.LIF.Rate(2) {
		t.Errorf("LIFRate out: %v, want %v", nrn.Out, ac.LIF.Rate(2))
	}

	ac.Type = RectifiedLinear
	ac.Step(nrn, -3, 0.001)
	if nrn.Out != 0 {
		t.Errorf("RectifiedLinear out for negative input: %v", nrn.Out)
	}
	ac.Step(nrn, 3, 0.001)
	if nrn.Out != 3 {
		t.Errorf("RectifiedLinear out: %v", nrn.Out)
	}
	g, b, err := ac.GainBias(100, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if ac.Rate(g*0.5+b) != 0 || mat32.Abs(ac.Rate(g+b)-100) > 1.0e-3 {
		t.Errorf("RectifiedLinear gain: %v bias: %v", g, b)
	}

	ac.Type = SpikingRectifiedLinear
	n := countSpikes(&ac, 62.5, 0.001, 1)
	if mat32.Abs(n-62.5) > 1 {
		t.Errorf("SpikingRectifiedLinear spikes: %v, want 62.5", n)
	}
	if !SpikingRectifiedLinear.Spiking() || RectifiedLinear.Spiking() {
		t.Error("Spiking() wrong")
	}
}
