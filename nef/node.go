// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

// nef.Node is a non-neural signal in the network: either a source driven by
// a Process (e.g., Piecewise input), or a passthrough that sums its inputs
// and sends them on unchanged on the following step.
type Node struct {
	Nm   string  `desc:"name of the node -- must be unique within the network"`
	Cls  string  `desc:"class for applying parameter styles, can be space separated multiple tags"`
	Dims int     `desc:"dimensionality of the output"`
	Proc Process `view:"-" desc:"signal source -- nil for a passthrough node"`
	Idx  int     `inactive:"+" desc:"index of this node within the network's Nodes"`

	Inputs  []float32 `view:"-" desc:"summed input on the current step (passthrough only)"`
	Outputs []float32 `view:"-" desc:"output on the current step"`
}

func (nd *Node) Name() string     { return nd.Nm }
func (nd *Node) Class() string    { return nd.Cls }
func (nd *Node) TypeName() string { return "Node" } // type category, for params..
func (nd *Node) Label() string    { return nd.Nm }
func (nd *Node) SizeOut() int     { return nd.Dims }

// SizeIn is 0 for process-driven nodes, which take no input
func (nd *Node) SizeIn() int {
	if nd.Proc != nil {
		return 0
	}
	return nd.Dims
}

// IsPassthrough returns true if the node relays its input
func (nd *Node) IsPassthrough() bool {
	return nd.Proc == nil
}

// Build allocates the state vectors
func (nd *Node) Build() {
	nd.Outputs = make([]float32, nd.Dims)
	nd.Inputs = make([]float32, nd.Dims)
}

// Init resets the state vectors to zero
func (nd *Node) Init() {
	for i := range nd.Outputs {
		nd.Outputs[i] = 0
		nd.Inputs[i] = 0
	}
}

// AddInput adds vals into the input vector at the given indexes (all if idx is nil)
func (nd *Node) AddInput(idx []int, vals []float32) {
	addInput(nd.Inputs, idx, vals)
}

// Update computes the output at time t and clears the input for the next step
func (nd *Node) Update(t float64) {
	if nd.Proc != nil {
		v := nd.Proc.Value(t)
		for i := range nd.Outputs {
			nd.Outputs[i] = float32(v[i])
		}
		return
	}
	copy(nd.Outputs, nd.Inputs)
	for i := range nd.Inputs {
		nd.Inputs[i] = 0
	}
}

// addInput adds vals into dst at idx, or elementwise if idx is nil
func addInput(dst []float32, idx []int, vals []float32) {
	if idx == nil {
		for i, v := range vals {
			dst[i] += v
		}
		return
	}
	for i, di := range idx {
		dst[di] += vals[i]
	}
}
