// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"testing"

	"github.com/goki/mat32"
)

func TestSynStep(t *testing.T) {
	sp := SynParams{}
	sp.Defaults()
	dt := float32(0.001)
	a := sp.Decay(dt)
	if mat32.Abs(a-mat32.Exp(-0.2)) > 1.0e-6 {
		t.Errorf("decay: %v", a)
	}
	x := []float32{1, -2}
	y := []float32{0, 0}
	for i := 1; i <= 20; i++ {
		sp.Filter(a, x, y)
		want := 1 - mat32.Pow(a, float32(i))
		if mat32.Abs(y[0]-want) > 1.0e-5 || mat32.Abs(y[1]+2*want) > 1.0e-5 {
			t.Errorf("step %d: y: %v, want %v", i, y, want)
		}
	}
}

func TestSynOff(t *testing.T) {
	sp := SynParams{Tau: 0}
	if sp.On() {
		t.Error("Tau 0 should be off")
	}
	x := []float32{3}
	y := []float32{1}
	sp.Filter(sp.Decay(0.001), x, y)
	if y[0] != 3 {
		t.Errorf("unfiltered y: %v", y[0])
	}
	sp.Tau = -1
	sp.Update()
	if sp.Tau != 0 {
		t.Errorf("negative tau not clamped: %v", sp.Tau)
	}
}
