// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws the random quantities used when building a network:
// encoders, evaluation points, max rates and intercepts.  Each object gets
// its own Sampler seeded from its Seed so results do not depend on the
// order in which objects are built.
type Sampler struct {
	Src rand.Source
}

// NewSampler returns a new Sampler with given seed
func NewSampler(seed int64) *Sampler {
	return &Sampler{Src: rand.NewSource(uint64(seed))}
}

// Uniform returns n samples uniformly distributed in [min, max)
func (sm *Sampler) Uniform(n int, min, max float64) []float64 {
	vals := make([]float64, n)
	if min == max {
		for i := range vals {
			vals[i] = min
		}
		return vals
	}
	u := distuv.Uniform{Min: min, Max: max, Src: sm.Src}
	for i := range vals {
		vals[i] = u.Rand()
	}
	return vals
}

// Hypersphere returns n points of dimension d as rows of a matrix.
// If surface is true, points are uniformly distributed on the surface of
// the unit hypersphere, otherwise uniformly within the unit hyperball.
func (sm *Sampler) Hypersphere(n, d int, surface bool) *mat.Dense {
	pts := mat.NewDense(n, d, nil)
	nrm := distuv.Normal{Mu: 0, Sigma: 1, Src: sm.Src}
	uni := distuv.Uniform{Min: 0, Max: 1, Src: sm.Src}
	row := make([]float64, d)
	for i := 0; i < n; i++ {
		l := 0.0
		for l == 0 {
			for k := range row {
				row[k] = nrm.Rand()
			}
			l = floats.Norm(row, 2)
		}
		scale := 1 / l
		if !surface {
			scale *= math.Pow(uni.Rand(), 1/float64(d))
		}
		floats.Scale(scale, row)
		pts.SetRow(i, row)
	}
	return pts
}

// NumEvalPoints returns the default number of evaluation points used to
// solve decoders for an ensemble with given neurons and dimensions
func NumEvalPoints(nNeurons, dims int) int {
	n := 500 * dims
	if n < 750 {
		n = 750
	} else if n > 2500 {
		n = 2500
	}
	if 2*nNeurons > n {
		n = 2 * nNeurons
	}
	return n
}
