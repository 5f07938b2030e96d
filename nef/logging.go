// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"fmt"
	"log"
	"strconv"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/goki/gi/gi"
)

// LogPrec is precision for saving float values in logs
const LogPrec = 6

// ProbeColNames returns the column names for the probe's dimensions:
// the probe name for a 1D signal, and Name[k] otherwise
func ProbeColNames(pr *Probe) []string {
	sz := pr.Size()
	if sz == 1 {
		return []string{pr.Nm}
	}
	nms := make([]string, sz)
	for k := range nms {
		nms[k] = fmt.Sprintf("%s[%d]", pr.Nm, k)
	}
	return nms
}

// ConfigProbeTable configures the table with a Time column followed by a
// column for each dimension of each probe
func ConfigProbeTable(dt *etable.Table, name string, probes ...*Probe) {
	dt.SetMetaData("name", name)
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))

	sch := etable.Schema{
		{"Time", etensor.FLOAT64, nil, nil},
	}
	for _, pr := range probes {
		for _, cn := range ProbeColNames(pr) {
			sch = append(sch, etable.Column{cn, etensor.FLOAT64, nil, nil})
		}
	}
	dt.SetFromSchema(sch, 0)
}

// ProbeTable returns the data recorded by one probe as a table
func ProbeTable(pr *Probe) *etable.Table {
	dt, _ := ProbesTable(pr.Nm, pr)
	return dt
}

// ProbesTable returns the data recorded by the probes as one table, with one
// row per sample.  All probes must have been sampled at the same times.
func ProbesTable(name string, probes ...*Probe) (*etable.Table, error) {
	dt := &etable.Table{}
	ConfigProbeTable(dt, name, probes...)
	if len(probes) == 0 {
		return dt, nil
	}
	times := probes[0].Times
	for _, pr := range probes[1:] {
		if len(pr.Times) != len(times) {
			err := fmt.Errorf("ProbesTable: probe %v has %d samples, %v has %d", pr.Nm, len(pr.Times), probes[0].Nm, len(times))
			log.Println(err)
			return nil, err
		}
	}
	dt.SetNumRows(len(times))
	for row, t := range times {
		dt.SetCellFloat("Time", row, t)
	}
	for _, pr := range probes {
		nms := ProbeColNames(pr)
		for row, vals := range pr.Data {
			for k, v := range vals {
				dt.SetCellFloat(nms[k], row, v)
			}
		}
	}
	return dt, nil
}

// SaveProbesCSV saves the data of all probes sampled every step to a CSV file
func (sm *Simulator) SaveProbesCSV(filename gi.FileName) error {
	var prs []*Probe
	for _, pr := range sm.Net.Probes {
		if len(pr.Times) == len(sm.trange) {
			prs = append(prs, pr)
		}
	}
	dt, err := ProbesTable(sm.Net.Nm, prs...)
	if err != nil {
		return err
	}
	err = dt.SaveCSV(filename, etable.Comma, etable.Headers)
	if err != nil {
		log.Println(err)
	}
	return err
}
