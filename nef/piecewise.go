// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"fmt"
	"sort"
)

// Process is a time-varying signal source that drives a Node
type Process interface {
	// Dims returns the dimensionality of the output
	Dims() int

	// Value returns the output at time t, in seconds.  The returned
	// slice may be reused by the next call.
	Value(t float64) []float64
}

// Piecewise is a Process whose value is constant between breakpoints.
// The value at time t is the value of the last breakpoint at or before t,
// and zero before the first breakpoint.
type Piecewise struct {
	Times  []float64   `desc:"breakpoint times, in increasing order"`
	Values [][]float64 `desc:"value starting at each breakpoint -- all the same length"`

	zero []float64
}

// NewPiecewise returns a Piecewise process from a map of breakpoint times
// to values.  All values must have the same, non-zero, length.
func NewPiecewise(data map[float64][]float64) (*Piecewise, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("NewPiecewise: no breakpoints")
	}
	pw := &Piecewise{}
	pw.Times = make([]float64, 0, len(data))
	for t := range data {
		pw.Times = append(pw.Times, t)
	}
	sort.Float64s(pw.Times)
	dims := -1
	pw.Values = make([][]float64, len(pw.Times))
	for i, t := range pw.Times {
		v := data[t]
		if dims < 0 {
			dims = len(v)
		}
		if len(v) == 0 || len(v) != dims {
			return nil, fmt.Errorf("NewPiecewise: value at time %v has %d dims, expected %d: %w", t, len(v), dims, ErrDims)
		}
		pw.Values[i] = append([]float64(nil), v...)
	}
	pw.zero = make([]float64, dims)
	return pw, nil
}

// NewPiecewiseScalar returns a 1D Piecewise process from a map of
// breakpoint times to scalar values.
func NewPiecewiseScalar(data map[float64]float64) (*Piecewise, error) {
	vd := make(map[float64][]float64, len(data))
	for t, v := range data {
		vd[t] = []float64{v}
	}
	return NewPiecewise(vd)
}

// Dims returns the dimensionality of the values
func (pw *Piecewise) Dims() int {
	return len(pw.zero)
}

// Value returns the value at time t.  The returned slice must not be modified.
func (pw *Piecewise) Value(t float64) []float64 {
	i := sort.Search(len(pw.Times), func(i int) bool { return pw.Times[i] > t })
	if i == 0 {
		return pw.zero
	}
	return pw.Values[i-1]
}

// Scalar returns the first dimension of the value at time t
func (pw *Piecewise) Scalar(t float64) float64 {
	return pw.Value(t)[0]
}

// Breakpoints returns the number of breakpoints
func (pw *Piecewise) Breakpoints() int {
	return len(pw.Times)
}

// ProcessFunc adapts a plain function of time to the Process interface
type ProcessFunc struct {
	NDims int
	Fun   func(t float64) []float64
}

func (pf *ProcessFunc) Dims() int                 { return pf.NDims }
func (pf *ProcessFunc) Value(t float64) []float64 { return pf.Fun(t) }
