// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"errors"
	"testing"
)

func TestPiecewise(t *testing.T) {
	pw, err := NewPiecewiseScalar(map[float64]float64{0: 0, 2.5: 10, 4: -10})
	if err != nil {
		t.Fatal(err)
	}
	if pw.Dims() != 1 || pw.Breakpoints() != 3 {
		t.Errorf("dims: %v breakpoints: %v", pw.Dims(), pw.Breakpoints())
	}
	cases := []struct{ t, want float64 }{
		{0, 0}, {1, 0}, {2.499, 0}, {2.5, 10}, {3.9, 10}, {4, -10}, {100, -10},
	}
	for _, c := range cases {
		if got := pw.Scalar(c.t); got != c.want {
			t.Errorf("t: %v value: %v, want %v", c.t, got, c.want)
		}
	}
}

func TestPiecewiseBeforeFirst(t *testing.T) {
	pw, err := NewPiecewise(map[float64][]float64{1: {5, 6}})
	if err != nil {
		t.Fatal(err)
	}
	v := pw.Value(0.5)
	if len(v) != 2 || v[0] != 0 || v[1] != 0 {
		t.Errorf("value before first breakpoint: %v", v)
	}
	if v := pw.Value(1); v[0] != 5 || v[1] != 6 {
		t.Errorf("value at breakpoint: %v", v)
	}
}

func TestPiecewiseErrors(t *testing.T) {
	if _, err := NewPiecewise(nil); err == nil {
		t.Error("expected error for no breakpoints")
	}
	_, err := NewPiecewise(map[float64][]float64{0: {1}, 1: {1, 2}})
	if !errors.Is(err, ErrDims) {
		t.Errorf("expected ErrDims, got %v", err)
	}
}
