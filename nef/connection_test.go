// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"errors"
	"testing"
)

func connTestNet(t *testing.T) (*Network, *Node, *Ensemble, *Ensemble) {
	t.Helper()
	nt := NewNetwork("ConnTest", 1)
	in, err := NewPiecewiseScalar(map[float64]float64{0: 1})
	if err != nil {
		t.Fatal(err)
	}
	nd := nt.AddNode("In", in)
	a := nt.AddEnsemble("A", 50, 2, 1)
	b := nt.AddEnsemble("B", 50, 1, 1)
	return nt, nd, a, b
}

func TestConnectDefaults(t *testing.T) {
	nt, nd, a, b := connTestNet(t)
	cn, err := nt.Connect(nd, a, PostSlice(0))
	if err != nil {
		t.Fatal(err)
	}
	if cn.Nm != "In->A" || cn.Syn.Tau != 0.005 || cn.Solver.Reg != 0.1 || cn.FunDims != 1 {
		t.Errorf("defaults: %v %v %v %v", cn.Nm, cn.Syn.Tau, cn.Solver.Reg, cn.FunDims)
	}
	cp, err := nt.Connect(a, b, Function("product", 1, Product), NoSynapse())
	if err != nil {
		t.Fatal(err)
	}
	if cp.Syn.On() || len(a.SndConns) != 1 || len(b.RcvConns) != 1 {
		t.Errorf("conn lists: %d %d", len(a.SndConns), len(b.RcvConns))
	}
	if nt.ConnByName("A->B") != cp {
		t.Error("ConnByName failed")
	}
}

func TestConnectDimErrors(t *testing.T) {
	nt, nd, a, b := connTestNet(t)
	if _, err := nt.Connect(nd, a); !errors.Is(err, ErrDims) {
		t.Errorf("1D into 2D: expected ErrDims, got %v", err)
	}
	if _, err := nt.Connect(a, b, PreSlice(2)); !errors.Is(err, ErrDims) {
		t.Errorf("slice out of range: expected ErrDims, got %v", err)
	}
	if _, err := nt.Connect(a, b, Function("product", 2, Product)); !errors.Is(err, ErrDims) {
		t.Errorf("wrong declared function dims: expected ErrDims, got %v", err)
	}
	if _, err := nt.Connect(a, b, Transform([][]float64{{1, 2}, {3}})); !errors.Is(err, ErrDims) {
		t.Errorf("ragged transform: expected ErrDims, got %v", err)
	}
	if _, err := nt.Connect(a, b, Transform([][]float64{{1, 2}})); err != nil {
		t.Errorf("valid transform: %v", err)
	}
	if _, err := nt.Connect(a, nd); err == nil {
		t.Error("expected error connecting into a process node")
	}
	if len(nt.Conns) != 1 {
		t.Errorf("failed connections were added: %d", len(nt.Conns))
	}
}

func TestConnTargets(t *testing.T) {
	nt, _, a, b := connTestNet(t)
	cn, err := nt.Connect(a, b, Function("product", 1, Product))
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Build(NewSampler(1)); err != nil {
		t.Fatal(err)
	}
	targs := cn.Targets(a.EvalPts)
	np, _ := a.EvalPts.Dims()
	for pi := 0; pi < np; pi++ {
		x := a.EvalPts.RawRowView(pi)
		if targs.At(pi, 0) != x[0]*x[1] {
			t.Fatalf("target %d: %v, want %v", pi, targs.At(pi, 0), x[0]*x[1])
		}
	}
	cs, err := nt.Connect(a, b, PreSlice(1), ConnName("A1->B"))
	if err != nil {
		t.Fatal(err)
	}
	targs = cs.Targets(a.EvalPts)
	if targs.At(3, 0) != a.EvalPts.At(3, 1) {
		t.Errorf("sliced target: %v, want %v", targs.At(3, 0), a.EvalPts.At(3, 1))
	}
}

func TestNodeSend(t *testing.T) {
	nt := NewNetwork("NodeSend", 1)
	in, _ := NewPiecewise(map[float64][]float64{0: {1, 2}})
	nd := nt.AddNode("In", in)
	pt := nt.AddPassthrough("P", 2)
	cn, err := nt.Connect(nd, pt, Transform([][]float64{{0, 1}, {1, 0}}), NoSynapse())
	if err != nil {
		t.Fatal(err)
	}
	nd.Build()
	pt.Build()
	cn.Build()
	cn.Init(0.001)
	nd.Update(0.001)
	cn.Send()
	if pt.Inputs[0] != 2 || pt.Inputs[1] != 1 {
		t.Errorf("transformed input: %v", pt.Inputs)
	}
}
