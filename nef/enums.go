// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import "github.com/goki/ki/kit"

//////////////////////////////////////////////////////////////////////
// Enums

// NeuronTypes are the neuron response models an Ensemble can use.
type NeuronTypes int32

//go:generate stringer -type=NeuronTypes

var KiT_NeuronTypes = kit.Enums.AddEnum(NeuronTypesN, kit.NotBitFlag, nil)

func (ev NeuronTypes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *NeuronTypes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// LIF is the spiking leaky integrate-and-fire neuron
	LIF NeuronTypes = iota

	// LIFRate is the rate-coded (steady-state) version of LIF -- no spikes, output is the firing rate
	LIFRate

	// RectifiedLinear outputs max(J, 0) as a rate
	RectifiedLinear

	// SpikingRectifiedLinear integrates max(J, 0) and emits a spike each time the integral crosses 1
	SpikingRectifiedLinear

	NeuronTypesN
)

// Spiking returns true for neuron types that emit discrete spikes
func (ev NeuronTypes) Spiking() bool {
	return ev == LIF || ev == SpikingRectifiedLinear
}

// ProbeAttrs are the signals a Probe can record
type ProbeAttrs int32

//go:generate stringer -type=ProbeAttrs

var KiT_ProbeAttrs = kit.Enums.AddEnum(ProbeAttrsN, kit.NotBitFlag, nil)

func (ev ProbeAttrs) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ProbeAttrs) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// DecodedOutput is the vector value decoded from an Ensemble's activity
	DecodedOutput ProbeAttrs = iota

	// Output is the output vector of a Node
	Output

	// Input is the summed input vector arriving at an Ensemble or Node on each step
	Input

	// Spikes is the per-neuron output of an Ensemble (Amplitude / dt on spike steps for spiking types, rates otherwise)
	Spikes

	// Voltage is the per-neuron membrane voltage of an Ensemble
	Voltage

	ProbeAttrsN
)
