// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package nef builds and simulates networks of spiking neural populations
using the Neural Engineering Framework.

An Ensemble of N neurons represents a vector x of Dims values within a
Radius.  Each neuron has a unit encoder e, a gain and a bias, and receives
the current J = gain (e . x) / Radius + bias.  Gain and bias are chosen so
that the neuron starts firing at its intercept and reaches its max rate at
the edge of the radius.

A Connection from an Ensemble computes a function f(x) by a linear decoding
of the neurons' activity: decoders are solved at build time by regularized
least squares over evaluation points sampled in the ensemble's radius.
At run time the decoded vector is multiplied by the connection's transform,
filtered by a lowpass synapse, and added into the input of the post object.

A Network only describes the model.  NewSimulator builds it (sampling
encoders, rates, intercepts and evaluation points from per-object seeds,
and solving decoders) and Run advances it in fixed time steps, recording
the signals named by Probes:

	nt := nef.NewNetwork("Square", 1)
	in, _ := nef.NewPiecewiseScalar(map[float64]float64{0: 0.5})
	x := nt.AddEnsemble("X", 100, 1, 1)
	y := nt.AddEnsemble("Y", 100, 1, 1)
	nt.Connect(nt.AddNode("In", in), x)
	nt.Connect(x, y, nef.Function("square", 1, func(v []float64) []float64 {
		return []float64{v[0] * v[0]}
	}))
	pr, _ := nt.Probe(y, nef.DecodedOutput, nef.ProbeSynapse(0.01))
	sm, _ := nef.NewSimulator(nt)
	defer sm.Close()
	sm.Run(context.Background(), 1)
	data := sm.Data(pr)

Each step, nodes are evaluated at the new time, connections send the current
state of their pre objects, ensembles update their neurons (in parallel
across threads when more than one is allocated), and probes record.
A connection from an Ensemble therefore carries the activity of the
previous step.
*/
package nef
