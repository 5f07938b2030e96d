// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// SolverParams are the parameters for solving decoders by L2-regularized
// least squares.  The regularization is expressed relative to the largest
// rate, as a fraction of it that acts as the standard deviation of noise
// added to the activities.
type SolverParams struct {
	Reg float32 `def:"0.1" min:"0" desc:"amount of regularization, as a fraction of the maximum activity"`
}

func (sp *SolverParams) Defaults() {
	sp.Reg = 0.1
}

// Update must be called after any changes to parameters
func (sp *SolverParams) Update() {
}

// Solve returns decoders D (neurons x target dims) minimizing
// |A D - Y|^2 + m (Reg max(A))^2 |D|^2 for activities A (points x neurons)
// and targets Y (points x dims), along with the RMS error of the fit.
func (sp *SolverParams) Solve(acts, targs *mat.Dense) (*mat.Dense, float64, error) {
	m, n := acts.Dims()
	tm, d := targs.Dims()
	if tm != m {
		return nil, 0, fmt.Errorf("SolverParams.Solve: %d activity rows vs %d target rows: %w", m, tm, ErrDims)
	}
	amax := mat.Max(acts)
	if amax <= 0 {
		return nil, 0, fmt.Errorf("SolverParams.Solve: all neurons are silent at every evaluation point")
	}
	sigma := float64(sp.Reg) * amax

	var gram mat.SymDense
	gram.SymOuterK(1, acts.T())
	reg := float64(m) * sigma * sigma
	for i := 0; i < n; i++ {
		gram.SetSym(i, i, gram.At(i, i)+reg)
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(&gram); !ok {
		return nil, 0, fmt.Errorf("SolverParams.Solve: gram matrix is not positive definite -- increase Reg")
	}
	var aty mat.Dense
	aty.Mul(acts.T(), targs)
	dcd := mat.NewDense(n, d, nil)
	if err := chol.SolveTo(dcd, &aty); err != nil {
		return nil, 0, fmt.Errorf("SolverParams.Solve: %w", err)
	}

	var res mat.Dense
	res.Mul(acts, dcd)
	res.Sub(&res, targs)
	rmse := mat.Norm(&res, 2) / math.Sqrt(float64(m*d))
	return dcd, rmse, nil
}

// DecoderKey returns a hash of everything that determines the decoders
// solved from acts and targs, for use as a DecoderCache key
func (sp *SolverParams) DecoderKey(acts, targs *mat.Dense) string {
	h := sha256.New()
	buf := make([]byte, 8)
	putMat := func(m *mat.Dense) {
		r, c := m.Dims()
		binary.LittleEndian.PutUint64(buf, uint64(r))
		h.Write(buf)
		binary.LittleEndian.PutUint64(buf, uint64(c))
		h.Write(buf)
		for i := 0; i < r; i++ {
			for _, v := range m.RawRowView(i) {
				binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
				h.Write(buf)
			}
		}
	}
	h.Write([]byte("LstsqL2"))
	binary.LittleEndian.PutUint64(buf, uint64(math.Float32bits(sp.Reg)))
	h.Write(buf)
	putMat(acts)
	putMat(targs)
	return hex.EncodeToString(h.Sum(nil))
}

// DecoderCache stores solved decoders across runs, keyed by DecoderKey
type DecoderCache interface {
	// Get returns the decoders for key, and false if not present
	Get(key string) (*mat.Dense, bool, error)

	// Put stores the decoders for key
	Put(key string, dcd *mat.Dense) error
}
