// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lif

import (
	"testing"

	"github.com/goki/mat32"
)

// difTol is the relative difference tolerance for comparing vs. target values
const difTol = float32(1.0e-4)

func relDif(a, b float32) float32 {
	if b == 0 {
		return mat32.Abs(a)
	}
	return mat32.Abs((a - b) / b)
}

func TestRate(t *testing.T) {
	lp := Params{}
	lp.Defaults()

	tstj := []float32{-1, 0, 0.5, 1, 2, 5}
	cory := []float32{0, 0, 0, 0, 63.040002, 154.72999}
	for i := range tstj {
		y := lp.Rate(tstj[i])
		if dif := relDif(y, cory[i]); dif > difTol {
			t.Errorf("Rate err: idx: %v, j: %v, y: %v, cor y: %v, dif: %v\n", i, tstj[i], y, cory[i], dif)
		}
	}

	lp.Amplitude = 0.5
	if dif := relDif(lp.Rate(2), 0.5*63.040002); dif > difTol {
		t.Errorf("Rate amplitude err: %v", lp.Rate(2))
	}
}

func TestGainBias(t *testing.T) {
	lp := Params{}
	lp.Defaults()

	rates := []float32{200, 400, 300, 250}
	icpts := []float32{-0.5, 0.5, 0, 0.89}
	corg := []float32{4.1194413, 79.004167, 14.505555}
	corb := []float32{3.0597207, -38.502083, 1}
	for i := range rates {
		gain, bias, err := lp.GainBias(rates[i], icpts[i])
		if err != nil {
			t.Fatal(err)
		}
		if i < len(corg) {
			if dif := relDif(gain, corg[i]); dif > difTol {
				t.Errorf("gain err: idx: %v, gain: %v, cor: %v", i, gain, corg[i])
			}
			if dif := relDif(bias, corb[i]); dif > difTol {
				t.Errorf("bias err: idx: %v, bias: %v, cor: %v", i, bias, corb[i])
			}
		}
		// threshold exactly at the intercept, max rate at 1
		if r := lp.Rate(gain*icpts[i] + bias - 1e-3); r != 0 {
			t.Errorf("idx %v: rate below intercept should be 0, got %v", i, r)
		}
		if dif := relDif(lp.Rate(gain+bias), rates[i]); dif > 1.0e-3 {
			t.Errorf("idx %v: rate at 1 = %v, want %v", i, lp.Rate(gain+bias), rates[i])
		}
		mr, ic := lp.MaxRateIntercept(gain, bias)
		if relDif(mr, rates[i]) > 1.0e-3 || mat32.Abs(ic-icpts[i]) > 1.0e-3 {
			t.Errorf("idx %v: MaxRateIntercept = %v, %v, want %v, %v", i, mr, ic, rates[i], icpts[i])
		}
	}
}

func TestGainBiasErrors(t *testing.T) {
	lp := Params{}
	lp.Defaults()
	if _, _, err := lp.GainBias(200, 1); err == nil {
		t.Error("expected error for intercept >= 1")
	}
	if _, _, err := lp.GainBias(600, 0); err == nil {
		t.Error("expected error for max rate above 1/TauRef")
	}
	if _, _, err := lp.GainBias(0, 0); err == nil {
		t.Error("expected error for zero max rate")
	}
}

func TestRateDeriv(t *testing.T) {
	lp := Params{}
	lp.Defaults()
	if lp.RateDeriv(0.5) != 0 {
		t.Error("derivative below threshold should be 0")
	}
	j := float32(3)
	h := float32(1.0e-2)
	num := (lp.Rate(j+h) - lp.Rate(j-h)) / (2 * h)
	if dif := relDif(lp.RateDeriv(j), num); dif > 1.0e-2 {
		t.Errorf("RateDeriv: %v, numerical: %v", lp.RateDeriv(j), num)
	}
}
