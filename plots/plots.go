// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package plots renders probe data as line plots, written to PNG, SVG or PDF
files according to the file extension.
*/
package plots

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/emer/nef/nef"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Default plot size
var (
	Width  = 8 * vg.Inch
	Height = 4 * vg.Inch
)

// Series is one line of a plot: Y values over times T
type Series struct {
	Name   string
	T      []float64
	Y      []float64
	Dashed bool
}

// FromProbe returns dimension dim of the probe's data as a Series named name
// (the probe name plus index for multi-dimensional probes if name is empty)
func FromProbe(pr *nef.Probe, dim int, name string) Series {
	if name == "" {
		name = nef.ProbeColNames(pr)[dim]
	}
	return Series{Name: name, T: pr.Times, Y: pr.Col(dim)}
}

// FromPiecewise returns a Series with the value of dimension dim of the
// process at each of the given times
func FromPiecewise(pw nef.Process, dim int, times []float64, name string) Series {
	y := make([]float64, len(times))
	for i, t := range times {
		y[i] = pw.Value(t)[dim]
	}
	return Series{Name: name, T: times, Y: y, Dashed: true}
}

// XYs returns the series points in the form used by plotter
func (s *Series) XYs() (plotter.XYs, error) {
	if len(s.T) != len(s.Y) {
		return nil, fmt.Errorf("plots: series %v has %d times and %d values", s.Name, len(s.T), len(s.Y))
	}
	xys := make(plotter.XYs, len(s.T))
	for i := range s.T {
		xys[i].X = s.T[i]
		xys[i].Y = s.Y[i]
	}
	return xys, nil
}

// Lines returns a plot with one line per series, each in its own color
func Lines(title, xlabel, ylabel string, series ...Series) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	for i, s := range series {
		xys, err := s.XYs()
		if err != nil {
			return nil, err
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("plots: series %v: %w", s.Name, err)
		}
		l.Color = plotutil.Color(i)
		if s.Dashed {
			l.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}
		p.Add(l)
		p.Legend.Add(s.Name, l)
	}
	return p, nil
}

// Save writes the plot to file, in the format given by its extension
func Save(p *plot.Plot, file string, w, h vg.Length) error {
	if err := p.Save(w, h, file); err != nil {
		return fmt.Errorf("plots: save %v: %w", file, err)
	}
	return nil
}

// WriteTo writes the plot to w in the given format (png, svg, pdf, ...)
func WriteTo(p *plot.Plot, w io.Writer, format string, wd, ht vg.Length) error {
	wt, err := p.WriterTo(wd, ht, format)
	if err != nil {
		return fmt.Errorf("plots: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// Stack draws the plots in a single column and writes them to file.
// The format is given by the extension of file.
func Stack(file string, w, h vg.Length, plots ...*plot.Plot) error {
	if len(plots) == 0 {
		return fmt.Errorf("plots: Stack %v: no plots", file)
	}
	format := strings.TrimPrefix(filepath.Ext(file), ".")
	cw, err := draw.NewFormattedCanvas(w, h*vg.Length(len(plots)), format)
	if err != nil {
		return fmt.Errorf("plots: Stack %v: %w", file, err)
	}
	tiles := draw.Tiles{Rows: len(plots), Cols: 1}
	grid := make([][]*plot.Plot, len(plots))
	for i, p := range plots {
		grid[i] = []*plot.Plot{p}
	}
	cvs := plot.Align(grid, tiles, draw.New(cw))
	for i, p := range plots {
		p.Draw(cvs[i][0])
	}
	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("plots: Stack %v: %w", file, err)
	}
	if _, err := cw.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("plots: Stack %v: %w", file, err)
	}
	return f.Close()
}
