// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plots

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emer/nef/nef"
)

func testSeries() []Series {
	t := []float64{0, 0.1, 0.2, 0.3}
	return []Series{
		{Name: "a", T: t, Y: []float64{0, 1, 0, -1}},
		{Name: "b", T: t, Y: []float64{1, 1, 2, 2}, Dashed: true},
	}
}

func TestLinesSave(t *testing.T) {
	p, err := Lines("Test", "time (s)", "value", testSeries()...)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	for _, ext := range []string{".png", ".svg"} {
		fn := filepath.Join(dir, "lines"+ext)
		if err := Save(p, fn, Width, Height); err != nil {
			t.Fatal(err)
		}
		if st, err := os.Stat(fn); err != nil || st.Size() == 0 {
			t.Errorf("%v not written: %v", fn, err)
		}
	}
	var buf bytes.Buffer
	if err := WriteTo(p, &buf, "svg", Width, Height); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Error("svg output missing <svg")
	}
	fn := filepath.Join(dir, "stack.png")
	if err := Stack(fn, Width, Height, p, p); err != nil {
		t.Fatal(err)
	}
}

func TestLinesErrors(t *testing.T) {
	bad := Series{Name: "bad", T: []float64{0, 1}, Y: []float64{0}}
	if _, err := Lines("Bad", "", "", bad); err == nil {
		t.Error("expected error for mismatched series")
	}
	if err := Stack(filepath.Join(t.TempDir(), "x.png"), Width, Height); err == nil {
		t.Error("expected error for no plots")
	}
}

func TestFromPiecewise(t *testing.T) {
	pw, err := nef.NewPiecewiseScalar(map[float64]float64{0: 0, 1: 5})
	if err != nil {
		t.Fatal(err)
	}
	s := FromPiecewise(pw, 0, []float64{0.5, 1, 1.5}, "ref")
	if s.Y[0] != 0 || s.Y[1] != 5 || s.Y[2] != 5 || !s.Dashed {
		t.Errorf("series: %+v", s)
	}
}
