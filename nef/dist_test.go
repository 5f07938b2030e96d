// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestHypersphere(t *testing.T) {
	sm := NewSampler(42)
	pts := sm.Hypersphere(200, 3, true)
	for i := 0; i < 200; i++ {
		if n := floats.Norm(pts.RawRowView(i), 2); math.Abs(n-1) > 1.0e-9 {
			t.Fatalf("surface point %d norm: %v", i, n)
		}
	}
	pts = sm.Hypersphere(2000, 2, false)
	inner := 0
	for i := 0; i < 2000; i++ {
		n := floats.Norm(pts.RawRowView(i), 2)
		if n > 1 {
			t.Fatalf("ball point %d norm: %v", i, n)
		}
		if n < math.Sqrt(0.5) {
			inner++
		}
	}
	// half the area of the unit disk is within radius sqrt(.5)
	if frac := float64(inner) / 2000; math.Abs(frac-0.5) > 0.05 {
		t.Errorf("ball not uniform, inner fraction: %v", frac)
	}
}

func TestSamplerSeed(t *testing.T) {
	a := NewSampler(7).Hypersphere(10, 2, true)
	b := NewSampler(7).Hypersphere(10, 2, true)
	if !mat.Equal(a, b) {
		t.Error("same seed gave different points")
	}
	c := NewSampler(8).Hypersphere(10, 2, true)
	if mat.Equal(a, c) {
		t.Error("different seeds gave same points")
	}
}

func TestUniform(t *testing.T) {
	vals := NewSampler(1).Uniform(1000, 200, 400)
	for _, v := range vals {
		if v < 200 || v >= 400 {
			t.Fatalf("value out of range: %v", v)
		}
	}
	for _, v := range NewSampler(1).Uniform(3, 5, 5) {
		if v != 5 {
			t.Errorf("degenerate range value: %v", v)
		}
	}
}

func TestNumEvalPoints(t *testing.T) {
	cases := []struct{ n, d, want int }{
		{100, 1, 750},
		{220, 2, 1000},
		{1000, 1, 2000},
		{10, 10, 2500},
	}
	for _, c := range cases {
		if got := NumEvalPoints(c.n, c.d); got != c.want {
			t.Errorf("NumEvalPoints(%d, %d) = %d, want %d", c.n, c.d, got, c.want)
		}
	}
}
