// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goki/gi/gi"
	"github.com/goki/ki/indent"
	"gonum.org/v1/gonum/mat"
)

// DecodersJSON is the decoder state of one connection or ensemble, as saved in JSON
type DecodersJSON struct {
	Name     string
	Rows     int
	Cols     int
	Decoders [][]float64
}

// NetDecodersJSON is the decoder state of a whole network, as saved in JSON
type NetDecodersJSON struct {
	Network   string
	MetaData  map[string]string
	Conns     []DecodersJSON
	Ensembles []DecodersJSON
}

// SaveDecodersJSON saves all solved decoders to a JSON-formatted file.
// If filename has .gz extension, then file is gzip compressed.
// Errors from flushing and closing the file are returned.
func (sm *Simulator) SaveDecodersJSON(filename gi.FileName) (err error) {
	fp, err := os.Create(string(filename))
	if err != nil {
		log.Println(err)
		return err
	}
	defer func() {
		if cerr := fp.Close(); cerr != nil && err == nil {
			log.Println(cerr)
			err = cerr
		}
	}()
	ext := filepath.Ext(string(filename))
	if ext == ".gz" {
		return sm.writeDecodersGzip(fp)
	}
	return sm.WriteDecodersJSON(fp)
}

// writeDecodersGzip writes gzip compressed decoders JSON to w, including
// the final flush on close
func (sm *Simulator) writeDecodersGzip(w io.Writer) error {
	gzr := gzip.NewWriter(w)
	if err := sm.WriteDecodersJSON(gzr); err != nil {
		gzr.Close()
		return err
	}
	if err := gzr.Close(); err != nil {
		log.Println(err)
		return err
	}
	return nil
}

// OpenDecodersJSON opens decoders from a JSON-formatted file, replacing the
// solved decoders of the connections and ensembles named there.
// If filename has .gz extension, then file is gzip uncompressed.
func (sm *Simulator) OpenDecodersJSON(filename gi.FileName) error {
	fp, err := os.Open(string(filename))
	if err != nil {
		log.Println(err)
		return err
	}
	defer fp.Close()
	ext := filepath.Ext(string(filename))
	if ext == ".gz" {
		gzr, err := gzip.NewReader(fp)
		if err != nil {
			log.Println(err)
			return err
		}
		defer gzr.Close()
		return sm.ReadDecodersJSON(gzr)
	}
	return sm.ReadDecodersJSON(fp)
}

// WriteDecodersJSON writes the decoders in a JSON text format.
// We build in the indentation logic to keep the matrices compact.
func (sm *Simulator) WriteDecodersJSON(w io.Writer) error {
	nt := sm.Net
	bw := &errWriter{w: w}
	depth := 0
	bw.write(indent.TabBytes(depth), "{\n")
	depth++
	bw.write(indent.TabBytes(depth), fmt.Sprintf("\"Network\": %q,\n", nt.Nm))
	if len(nt.MetaData) > 0 {
		md, _ := json.Marshal(nt.MetaData)
		bw.write(indent.TabBytes(depth), "\"MetaData\": "+string(md)+",\n")
	}
	var cns []DecodersJSON
	for _, cn := range nt.Conns {
		if cn.Decoders != nil {
			cns = append(cns, decodersJSON(cn.Nm, cn.Decoders))
		}
	}
	var enss []DecodersJSON
	for _, ens := range nt.Ensembles {
		if ens.Decoders != nil {
			enss = append(enss, decodersJSON(ens.Nm, ens.Decoders))
		}
	}
	writeDecoderList(bw, depth, "Conns", cns, ",\n")
	writeDecoderList(bw, depth, "Ensembles", enss, "\n")
	depth--
	bw.write(indent.TabBytes(depth), "}\n")
	return bw.err
}

func writeDecoderList(bw *errWriter, depth int, name string, ds []DecodersJSON, end string) {
	if len(ds) == 0 {
		bw.write(indent.TabBytes(depth), fmt.Sprintf("%q: null%s", name, end))
		return
	}
	bw.write(indent.TabBytes(depth), fmt.Sprintf("%q: [\n", name))
	depth++
	for i, d := range ds {
		bw.write(indent.TabBytes(depth), "{\n")
		depth++
		bw.write(indent.TabBytes(depth), fmt.Sprintf("\"Name\": %q,\n", d.Name))
		bw.write(indent.TabBytes(depth), fmt.Sprintf("\"Rows\": %d,\n", d.Rows))
		bw.write(indent.TabBytes(depth), fmt.Sprintf("\"Cols\": %d,\n", d.Cols))
		bw.write(indent.TabBytes(depth), "\"Decoders\": [\n")
		depth++
		for ri, row := range d.Decoders {
			bw.write(indent.TabBytes(depth), "[")
			for ci, v := range row {
				if ci > 0 {
					bw.write(nil, ", ")
				}
				bw.write(nil, strconv.FormatFloat(v, 'g', -1, 64))
			}
			if ri == len(d.Decoders)-1 {
				bw.write(nil, "]\n")
			} else {
				bw.write(nil, "],\n")
			}
		}
		depth--
		bw.write(indent.TabBytes(depth), "]\n")
		depth--
		if i == len(ds)-1 {
			bw.write(indent.TabBytes(depth), "}\n")
		} else {
			bw.write(indent.TabBytes(depth), "},\n")
		}
	}
	depth--
	bw.write(indent.TabBytes(depth), "]"+end)
}

func decodersJSON(name string, dcd *mat.Dense) DecodersJSON {
	r, c := dcd.Dims()
	d := DecodersJSON{Name: name, Rows: r, Cols: c, Decoders: make([][]float64, r)}
	for i := 0; i < r; i++ {
		d.Decoders[i] = mat.Row(nil, i, dcd)
	}
	return d
}

// ReadDecodersJSON reads decoders in the format written by WriteDecodersJSON
// and sets them on the matching connections and ensembles.
func (sm *Simulator) ReadDecodersJSON(r io.Reader) error {
	var nd NetDecodersJSON
	if err := json.NewDecoder(r).Decode(&nd); err != nil {
		log.Println(err)
		return err
	}
	return sm.SetDecoders(&nd)
}

// SetDecoders sets decoders from a NetDecodersJSON, checking that each one
// exists in the network and has the right shape.  Nothing is set if any
// check fails.
func (sm *Simulator) SetDecoders(nd *NetDecodersJSON) error {
	nt := sm.Net
	cdcd := make([]*mat.Dense, len(nd.Conns))
	cns := make([]*Connection, len(nd.Conns))
	for i, d := range nd.Conns {
		cn := nt.ConnByName(d.Name)
		if cn == nil {
			return fmt.Errorf("SetDecoders: Connection %v not found in Network %v", d.Name, nt.Nm)
		}
		ens := cn.PreEnsemble()
		if ens == nil {
			return fmt.Errorf("SetDecoders: Connection %v does not have an ensemble pre", d.Name)
		}
		dcd, err := d.Dense(ens.N, cn.FunDims)
		if err != nil {
			return err
		}
		cns[i], cdcd[i] = cn, dcd
	}
	edcd := make([]*mat.Dense, len(nd.Ensembles))
	enss := make([]*Ensemble, len(nd.Ensembles))
	for i, d := range nd.Ensembles {
		ens := nt.EnsembleByName(d.Name)
		if ens == nil {
			return fmt.Errorf("SetDecoders: Ensemble %v not found in Network %v", d.Name, nt.Nm)
		}
		dcd, err := d.Dense(ens.N, ens.Dims)
		if err != nil {
			return err
		}
		enss[i], edcd[i] = ens, dcd
	}
	for i, cn := range cns {
		cn.Decoders = cdcd[i]
		cn.SolveRMSE = 0
	}
	for i, ens := range enss {
		ens.SetDecoders(edcd[i])
	}
	return nil
}

// Dense returns the decoders as a matrix, checking that it is rows x cols
func (d *DecodersJSON) Dense(rows, cols int) (*mat.Dense, error) {
	if d.Rows != rows || d.Cols != cols || len(d.Decoders) != rows {
		return nil, fmt.Errorf("decoders %v: shape %dx%d, need %dx%d: %w", d.Name, d.Rows, d.Cols, rows, cols, ErrDims)
	}
	dcd := mat.NewDense(rows, cols, nil)
	for i, row := range d.Decoders {
		if len(row) != cols {
			return nil, fmt.Errorf("decoders %v row %d: %d values, need %d: %w", d.Name, i, len(row), cols, ErrDims)
		}
		dcd.SetRow(i, row)
	}
	return dcd, nil
}

// errWriter keeps the first write error
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) write(ind []byte, s string) {
	if ew.err != nil {
		return
	}
	if len(ind) > 0 {
		if _, ew.err = ew.w.Write(ind); ew.err != nil {
			return
		}
	}
	_, ew.err = ew.w.Write([]byte(s))
}
