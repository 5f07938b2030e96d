// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package nef is the overall repository for Neural Engineering Framework (NEF)
simulation code implemented in the Go language (golang).

This top-level of the repository has no functional code -- everything is organized
into the following sub-repositories:

* lif: the steady-state rate curve of the leaky integrate-and-fire neuron, and
the gain / bias computation that tunes a neuron to a given intercept and max rate.

* nef: the core implementation: ensembles of spiking neurons representing
vectors, nodes providing input signals, connections computing functions through
decoders solved by regularized least squares, probes, and the Simulator that
builds and runs a network.

* cache: an SQLite store of solved decoders, so rebuilding the same model
skips the solve.

* plots: line plots of probe data.

* config: YAML configuration of the multiplication model.

* examples: these actually compile into runnable programs.  examples/multiply
computes the product of two scalars represented by spiking populations.
*/
package nef
