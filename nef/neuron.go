// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import "fmt"

// nef.Neuron holds the state of one neuron in an Ensemble.
// All variables are float32 so they can be accessed generically by name.
type Neuron struct {

	// membrane voltage, in normalized units: 0 = reset, 1 = threshold.
	// Only meaningful for spiking neuron types.
	V float32

	// time remaining in the refractory period, in seconds (LIF only)
	RefTime float32

	// input current on the last update: Gain * (Encoder . x / Radius) + Bias
	J float32

	// output on the last update: Amplitude / dt on spike steps for spiking
	// types (0 otherwise), or the firing rate for rate types
	Out float32
}

// NeuronVars are the names of the Neuron variables, in field order
var NeuronVars = []string{"V", "RefTime", "J", "Out"}

// NeuronVarsMap maps the variable names to their index
var NeuronVarsMap map[string]int

func init() {
	NeuronVarsMap = make(map[string]int, len(NeuronVars))
	for i, v := range NeuronVars {
		NeuronVarsMap[v] = i
	}
}

// VarByIndex returns variable using index (0 = first variable in NeuronVars list)
func (nrn *Neuron) VarByIndex(idx int) float32 {
	switch idx {
	case 0:
		return nrn.V
	case 1:
		return nrn.RefTime
	case 2:
		return nrn.J
	case 3:
		return nrn.Out
	}
	return 0
}

// VarByName returns variable by name, or error
func (nrn *Neuron) VarByName(varNm string) (float32, error) {
	i, ok := NeuronVarsMap[varNm]
	if !ok {
		return 0, fmt.Errorf("Neuron VarByName: variable name %v not valid", varNm)
	}
	return nrn.VarByIndex(i), nil
}
