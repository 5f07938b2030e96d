// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"fmt"
	"math"
)

// nef.Probe records a signal from an Ensemble or Node while the Simulator
// runs.  The signal can be filtered by a lowpass synapse, and sampled less
// often than every step.
type Probe struct {
	Nm          string     `desc:"name of the probe -- defaults to Target.Attr"`
	Target      Object     `view:"-" desc:"object being recorded"`
	Attr        ProbeAttrs `desc:"which signal of the target to record"`
	Syn         SynParams  `view:"inline" desc:"filter applied to the signal before sampling -- Tau = 0 records the raw signal"`
	SampleEvery float64    `desc:"sampling period in seconds -- 0 = every step"`

	Data  [][]float64 `view:"-" desc:"recorded samples, one row per sample"`
	Times []float64   `view:"-" desc:"time of each sample"`

	period int
	decay  float32
	filt   []float32
}

// Size returns the dimensionality of the recorded signal
func (pr *Probe) Size() int {
	switch pr.Attr {
	case Spikes, Voltage:
		if ens, ok := pr.Target.(*Ensemble); ok {
			return ens.N
		}
	case Input:
		return pr.Target.SizeIn()
	}
	return pr.Target.SizeOut()
}

// Validate checks that the attribute is valid for the target
func (pr *Probe) Validate() error {
	switch tg := pr.Target.(type) {
	case *Ensemble:
		if pr.Attr == Output {
			return fmt.Errorf("Probe %v: ensemble %v has no %v, use %v", pr.Nm, tg.Nm, Output, DecodedOutput)
		}
	case *Node:
		switch pr.Attr {
		case Output:
		case Input:
			if !tg.IsPassthrough() {
				return fmt.Errorf("Probe %v: node %v takes no input", pr.Nm, tg.Nm)
			}
		default:
			return fmt.Errorf("Probe %v: attribute %v not valid for node %v", pr.Nm, pr.Attr, tg.Nm)
		}
	default:
		return fmt.Errorf("Probe %v: unsupported target type %T", pr.Nm, pr.Target)
	}
	if pr.SampleEvery < 0 {
		return fmt.Errorf("Probe %v: negative sample period %v", pr.Nm, pr.SampleEvery)
	}
	return nil
}

// Build allocates the filter state and computes the sampling period in steps
func (pr *Probe) Build(dt float64) {
	pr.Syn.Update()
	pr.filt = make([]float32, pr.Size())
	pr.period = 1
	if pr.SampleEvery > dt {
		pr.period = int(math.Round(pr.SampleEvery / dt))
	}
	pr.Init(dt)
}

// Init clears the recorded data and filter state
func (pr *Probe) Init(dt float64) {
	pr.decay = pr.Syn.Decay(float32(dt))
	pr.Data = nil
	pr.Times = nil
	for i := range pr.filt {
		pr.filt[i] = 0
	}
}

// signal returns the current raw value of the recorded signal
func (pr *Probe) signal(buf []float32) []float32 {
	switch tg := pr.Target.(type) {
	case *Ensemble:
		switch pr.Attr {
		case DecodedOutput:
			return tg.Decoded
		case Input:
			return tg.Inputs
		case Spikes:
			for ni := range tg.Neurons {
				buf[ni] = tg.Neurons[ni].Out
			}
			return buf
		case Voltage:
			for ni := range tg.Neurons {
				buf[ni] = tg.Neurons[ni].V
			}
			return buf
		}
	case *Node:
		if pr.Attr == Input {
			return tg.Inputs
		}
		return tg.Outputs
	}
	return buf
}

// Record filters the current signal and appends a sample if step is on
// the sampling period.  step counts from 1 for the first step.
func (pr *Probe) Record(step int, t float64, buf []float32) {
	sig := pr.signal(buf)
	pr.Syn.Filter(pr.decay, sig, pr.filt)
	if step%pr.period != 0 {
		return
	}
	row := make([]float64, len(pr.filt))
	for i, v := range pr.filt {
		row[i] = float64(v)
	}
	pr.Data = append(pr.Data, row)
	pr.Times = append(pr.Times, t)
}

// Col returns the recorded values of dimension k as a slice over samples
func (pr *Probe) Col(k int) []float64 {
	col := make([]float64, len(pr.Data))
	for i, row := range pr.Data {
		col[i] = row[k]
	}
	return col
}

//////////////////////////////////////////////////////////////////////////////////////
//  Probe options

// ProbeOpt sets an optional property of a Probe
type ProbeOpt func(pr *Probe)

// ProbeName sets the probe name
func ProbeName(name string) ProbeOpt {
	return func(pr *Probe) { pr.Nm = name }
}

// ProbeSynapse filters the probed signal with a lowpass synapse of time constant tau
func ProbeSynapse(tau float32) ProbeOpt {
	return func(pr *Probe) { pr.Syn.Tau = tau }
}

// SampleEvery samples the signal every period seconds
func SampleEvery(period float64) ProbeOpt {
	return func(pr *Probe) { pr.SampleEvery = period }
}
