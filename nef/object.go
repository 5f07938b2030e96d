// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import "errors"

var (
	// ErrDims is returned when vector dimensionalities do not agree
	ErrDims = errors.New("dimension mismatch")

	// ErrNotBuilt is returned when an operation requires a built Simulator
	ErrNotBuilt = errors.New("simulator not built")

	// ErrClosed is returned when stepping a Simulator after Close
	ErrClosed = errors.New("simulator closed")
)

// Object is anything that can send or receive a Connection or be probed:
// an *Ensemble or a *Node.  It satisfies the params.Styler interface so
// param sheets can select on TypeName, Class and Name.
type Object interface {
	Name() string
	Class() string
	TypeName() string

	// SizeOut is the dimensionality of the vector the object sends on connections
	SizeOut() int

	// SizeIn is the dimensionality of the vector the object receives on connections
	SizeIn() int

	// AddInput adds vals into the input vector at the given indexes (all if idx is nil)
	AddInput(idx []int, vals []float32)
}
