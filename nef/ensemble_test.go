// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"errors"
	"testing"

	"github.com/goki/mat32"
)

func TestEnsembleBuild(t *testing.T) {
	ens := builtEnsemble(t, 40, 2, 2)
	for ni := 0; ni < ens.N; ni++ {
		enc := ens.Encoder(ni)
		nrm := mat32.Sqrt(enc[0]*enc[0] + enc[1]*enc[1])
		if mat32.Abs(nrm-1) > 1.0e-4 {
			t.Errorf("neuron %d encoder norm: %v", ni, nrm)
		}
		if ens.MaxRate[ni] < 200 || ens.MaxRate[ni] > 400 {
			t.Errorf("neuron %d max rate: %v", ni, ens.MaxRate[ni])
		}
		if ens.Intercept[ni] < -1 || ens.Intercept[ni] > 0.9 {
			t.Errorf("neuron %d intercept: %v", ni, ens.Intercept[ni])
		}
	}
	if r, c := ens.EvalPts.Dims(); r != NumEvalPoints(40, 2) || c != 2 {
		t.Errorf("eval points shape: %dx%d", r, c)
	}
}

func TestEnsembleCurrents(t *testing.T) {
	ens := builtEnsemble(t, 30, 1, 5)
	x := []float64{2.5}
	j := ens.Currents(x)
	r := ens.Rates(x)
	for ni := range j {
		if j[ni] != ens.Current(ni, x) {
			t.Errorf("neuron %d current: %v vs %v", ni, j[ni], ens.Current(ni, x))
		}
		if want := float64(ens.Act.Rate(j[ni])); r[ni] != want {
			t.Errorf("neuron %d rate: %v, want %v", ni, r[ni], want)
		}
	}
	// at the radius along its encoder each neuron fires at its max rate
	for ni := range j {
		edge := []float64{5 * float64(ens.Encoder(ni)[0])}
		rt := ens.Act.Rate(ens.Current(ni, edge))
		if mat32.Abs(rt-ens.MaxRate[ni])/ens.MaxRate[ni] > 1.0e-3 {
			t.Errorf("neuron %d rate at radius: %v, want %v", ni, rt, ens.MaxRate[ni])
		}
	}
}

func TestEnsembleEncoders(t *testing.T) {
	nt := NewNetwork("EncTest", 1)
	ens := nt.AddEnsemble("C", 10, 2, 1)
	encs := [][]float32{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
	if err := ens.SetEncoders(encs); err != nil {
		t.Fatal(err)
	}
	encs[1][0] = 1 // caller edits after setting
	if err := ens.Build(NewSampler(2)); err != nil {
		t.Fatal(err)
	}
	enc := ens.Encoder(5) // tiled: row 1
	if mat32.Abs(enc[0]+mat32.Sqrt(0.5)) > 1.0e-5 || mat32.Abs(enc[1]-mat32.Sqrt(0.5)) > 1.0e-5 {
		t.Errorf("tiled encoder 5: %v", enc)
	}

	if err := ens.SetEncoders([][]float32{{1, 0, 0}}); !errors.Is(err, ErrDims) {
		t.Errorf("expected ErrDims for wrong row length, got %v", err)
	}
	if err := ens.SetEncoders([][]float32{{0, 0}}); err == nil {
		t.Error("expected error for zero encoder")
	}
	if err := ens.SetEncoders(nil); err == nil {
		t.Error("expected error for no encoders")
	}
}
