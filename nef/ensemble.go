// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"fmt"

	"github.com/emer/etable/minmax"
	"github.com/emer/emergent/params"
	"github.com/goki/mat32"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// nef.Ensemble is a population of neurons that collectively represents a
// vector of Dims values in the range [-Radius, Radius].  Each neuron
// projects the represented vector onto its encoder, and the population's
// activity is decoded back into vectors (or functions of them) by the
// decoders of its outgoing connections.
type Ensemble struct {
	Nm          string     `desc:"name of the ensemble -- must be unique within the network"`
	Cls         string     `desc:"class for applying parameter styles, can be space separated multiple tags"`
	N           int        `desc:"number of neurons"`
	Dims        int        `desc:"dimensionality of the represented vector"`
	Radius      float32    `def:"1" min:"0" desc:"representational radius -- neurons are tuned to vectors with norm up to this value"`
	Act         ActParams  `view:"inline" desc:"neuron response model"`
	MaxRates    minmax.F32 `desc:"range of firing rates at the edge of the radius, sampled uniformly per neuron (Hz)"`
	Intercepts  minmax.F32 `desc:"range of intercepts (normalized represented value where each neuron starts firing), sampled uniformly per neuron"`
	NEvalPoints int        `desc:"number of evaluation points used to solve decoders -- 0 = default from NumEvalPoints"`
	Seed        int64      `desc:"random seed for encoders, rates, intercepts and evaluation points -- 0 = drawn from the network seed at build"`
	Thr         int        `desc:"the thread number (go routine) to use in updating this ensemble"`
	Idx         int        `inactive:"+" desc:"index of this ensemble within the network's Ensembles"`
	Network     *Network   `copy:"-" json:"-" xml:"-" view:"-" desc:"our parent network"`

	EncInit   [][]float32 `view:"-" desc:"explicit encoders set by SetEncoders -- rows are tiled over the neurons at build"`
	Encoders  []float32   `view:"-" desc:"unit-length encoders, N x Dims row major"`
	Gain      []float32   `view:"-" desc:"per-neuron gain"`
	Bias      []float32   `view:"-" desc:"per-neuron bias current"`
	MaxRate   []float32   `view:"-" desc:"per-neuron sampled max rate"`
	Intercept []float32   `view:"-" desc:"per-neuron sampled intercept"`
	Neurons   []Neuron    `view:"-" desc:"neuron state"`
	Inputs    []float32   `view:"-" desc:"summed input vector on the current step"`
	EvalPts   *mat.Dense  `view:"-" desc:"evaluation points (rows) in represented-value units, used to solve decoders"`
	EvalActs  *mat.Dense  `view:"-" desc:"rates of each neuron (columns) at each evaluation point (rows)"`
	Decoders  *mat.Dense  `view:"-" desc:"identity decoders, N x Dims -- only solved when the decoded output is probed"`
	Decoded   []float32   `view:"-" desc:"decoded output on the current step, when Decoders is set"`

	RcvConns []*Connection `view:"-" desc:"connections received by this ensemble"`
	SndConns []*Connection `view:"-" desc:"connections sent by this ensemble"`

	actVec *mat.VecDense
	decVec *mat.VecDense
}

func (ens *Ensemble) Defaults() {
	ens.Radius = 1
	ens.Act.Defaults()
	ens.MaxRates.Set(200, 400)
	ens.Intercepts.Set(-1, 0.9)
}

// UpdateParams updates all params given any changes that might have been made to individual values
func (ens *Ensemble) UpdateParams() {
	ens.Act.Update()
}

func (ens *Ensemble) Name() string     { return ens.Nm }
func (ens *Ensemble) Class() string    { return ens.Act.Type.String() + " " + ens.Cls }
func (ens *Ensemble) TypeName() string { return "Ensemble" } // type category, for params..
func (ens *Ensemble) Label() string    { return ens.Nm }
func (ens *Ensemble) SizeOut() int     { return ens.Dims }
func (ens *Ensemble) SizeIn() int      { return ens.Dims }

// ApplyParams applies given parameter style Sheet to this ensemble.
// Calls UpdateParams if anything set to ensure derived parameters are all updated.
// If setMsg is true, then a message is printed to confirm each parameter that is set.
// it always prints a message if a parameter fails to be set.
// returns true if any params were set, and error if there were any errors.
func (ens *Ensemble) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	app, err := pars.Apply(ens, setMsg)
	if app {
		ens.UpdateParams()
	}
	return app, err
}

// SetEncoders sets explicit encoder directions.  Each row must have Dims
// values and a non-zero norm.  Rows are normalized to unit length, and if
// there are fewer rows than neurons they are tiled in order over the
// neurons at build.  The rows are copied.
func (ens *Ensemble) SetEncoders(encs [][]float32) error {
	if len(encs) == 0 || len(encs) > ens.N {
		return fmt.Errorf("Ensemble %v SetEncoders: need 1..%d rows, got %d", ens.Nm, ens.N, len(encs))
	}
	for i, e := range encs {
		if len(e) != ens.Dims {
			return fmt.Errorf("Ensemble %v SetEncoders: row %d has %d values, need %d: %w", ens.Nm, i, len(e), ens.Dims, ErrDims)
		}
		var nrm float32
		for _, v := range e {
			nrm += v * v
		}
		if nrm == 0 {
			return fmt.Errorf("Ensemble %v SetEncoders: row %d is a zero vector", ens.Nm, i)
		}
	}
	ens.EncInit = make([][]float32, len(encs))
	for i, e := range encs {
		ens.EncInit[i] = append([]float32(nil), e...)
	}
	return nil
}

// Encoder returns the unit-length encoder for given neuron
func (ens *Ensemble) Encoder(ni int) []float32 {
	return ens.Encoders[ni*ens.Dims : (ni+1)*ens.Dims]
}

// Build samples encoders, rates and intercepts, computes the gain and bias of
// each neuron, and samples the evaluation points used for solving decoders.
func (ens *Ensemble) Build(sm *Sampler) error {
	switch {
	case ens.N <= 0:
		return fmt.Errorf("Ensemble %v: number of neurons must be > 0, is %d", ens.Nm, ens.N)
	case ens.Dims <= 0:
		return fmt.Errorf("Ensemble %v: dimensions must be > 0, is %d", ens.Nm, ens.Dims)
	case ens.Radius <= 0:
		return fmt.Errorf("Ensemble %v: radius must be > 0, is %v", ens.Nm, ens.Radius)
	}
	ens.UpdateParams()
	nn := ens.N
	ens.Encoders = make([]float32, nn*ens.Dims)
	if len(ens.EncInit) > 0 {
		for ni := 0; ni < nn; ni++ {
			e := ens.EncInit[ni%len(ens.EncInit)]
			var nrm float32
			for _, v := range e {
				nrm += v * v
			}
			nrm = mat32.Sqrt(nrm)
			enc := ens.Encoder(ni)
			for k, v := range e {
				enc[k] = v / nrm
			}
		}
	} else {
		encs := sm.Hypersphere(nn, ens.Dims, true)
		for ni := 0; ni < nn; ni++ {
			enc := ens.Encoder(ni)
			for k := range enc {
				enc[k] = float32(encs.At(ni, k))
			}
		}
	}

	rates := sm.Uniform(nn, float64(ens.MaxRates.Min), float64(ens.MaxRates.Max))
	icpts := sm.Uniform(nn, float64(ens.Intercepts.Min), float64(ens.Intercepts.Max))
	ens.Gain = make([]float32, nn)
	ens.Bias = make([]float32, nn)
	ens.MaxRate = make([]float32, nn)
	ens.Intercept = make([]float32, nn)
	for ni := 0; ni < nn; ni++ {
		ens.MaxRate[ni] = float32(rates[ni])
		ens.Intercept[ni] = float32(icpts[ni])
		g, b, err := ens.Act.GainBias(ens.MaxRate[ni], ens.Intercept[ni])
		if err != nil {
			return fmt.Errorf("Ensemble %v neuron %d: %w", ens.Nm, ni, err)
		}
		ens.Gain[ni] = g
		ens.Bias[ni] = b
	}

	ens.Neurons = make([]Neuron, nn)
	ens.Inputs = make([]float32, ens.Dims)
	ens.Decoded = make([]float32, ens.Dims)
	ens.actVec = mat.NewVecDense(nn, nil)

	ens.EvalPts = ens.SampleEvalPoints(sm, ens.NumEvalPoints())
	ens.EvalActs = ens.Activities(ens.EvalPts)
	return nil
}

// NumEvalPoints returns the number of evaluation points to use
func (ens *Ensemble) NumEvalPoints() int {
	if ens.NEvalPoints > 0 {
		return ens.NEvalPoints
	}
	return NumEvalPoints(ens.N, ens.Dims)
}

// SampleEvalPoints returns n points uniformly distributed within the
// hyperball of the ensemble's radius, as rows
func (ens *Ensemble) SampleEvalPoints(sm *Sampler, n int) *mat.Dense {
	pts := sm.Hypersphere(n, ens.Dims, false)
	pts.Scale(float64(ens.Radius), pts)
	return pts
}

// Current returns the input current of neuron ni for represented value x
func (ens *Ensemble) Current(ni int, x []float64) float32 {
	enc := ens.Encoder(ni)
	var dot float64
	for k, v := range x {
		dot += float64(enc[k]) * v
	}
	return ens.Gain[ni]*float32(dot)/ens.Radius + ens.Bias[ni]
}

// Currents returns the input current of every neuron for represented value x
func (ens *Ensemble) Currents(x []float64) []float32 {
	j := make([]float32, ens.N)
	for ni := range j {
		j[ni] = ens.Current(ni, x)
	}
	return j
}

// Rates returns the steady-state rate of every neuron for represented value x
// -- the tuning curves evaluated at x.
func (ens *Ensemble) Rates(x []float64) []float64 {
	r := make([]float64, ens.N)
	for ni := range r {
		r[ni] = float64(ens.Act.Rate(ens.Current(ni, x)))
	}
	return r
}

// Activities returns the rates of each neuron (columns) at each point (rows)
func (ens *Ensemble) Activities(pts *mat.Dense) *mat.Dense {
	np, _ := pts.Dims()
	acts := mat.NewDense(np, ens.N, nil)
	for pi := 0; pi < np; pi++ {
		acts.SetRow(pi, ens.Rates(pts.RawRowView(pi)))
	}
	return acts
}

// InitActs initializes the neuron state and inputs
func (ens *Ensemble) InitActs() {
	for ni := range ens.Neurons {
		ens.Act.InitActs(&ens.Neurons[ni])
	}
	for i := range ens.Inputs {
		ens.Inputs[i] = 0
		ens.Decoded[i] = 0
	}
}

// AddInput adds vals into the input vector at the given indexes (all if idx is nil)
func (ens *Ensemble) AddInput(idx []int, vals []float32) {
	addInput(ens.Inputs, idx, vals)
}

// ClearInputs zeros the input vector, at the start of each step
func (ens *Ensemble) ClearInputs() {
	for i := range ens.Inputs {
		ens.Inputs[i] = 0
	}
}

// Cycle updates all neurons for one time step from the current input vector
func (ens *Ensemble) Cycle(dt float32) {
	for ni := range ens.Neurons {
		nrn := &ens.Neurons[ni]
		enc := ens.Encoder(ni)
		var dot float32
		for k, v := range ens.Inputs {
			dot += enc[k] * v
		}
		j := ens.Gain[ni]*dot/ens.Radius + ens.Bias[ni]
		ens.Act.Step(nrn, j, dt)
	}
	if ens.Decoders != nil {
		ens.Decode(ens.Decoders, ens.decVec)
		for k := range ens.Decoded {
			ens.Decoded[k] = float32(ens.decVec.AtVec(k))
		}
	}
}

// Decode computes dec = dcd^T * out, the vector decoded from the current
// neuron outputs with decoders dcd (N x len(dec))
func (ens *Ensemble) Decode(dcd *mat.Dense, dec *mat.VecDense) {
	for ni := range ens.Neurons {
		ens.actVec.SetVec(ni, float64(ens.Neurons[ni].Out))
	}
	dec.MulVec(dcd.T(), ens.actVec)
}

// SetDecoders sets the identity decoders used for the decoded output
func (ens *Ensemble) SetDecoders(dcd *mat.Dense) {
	ens.Decoders = dcd
	ens.decVec = mat.NewVecDense(ens.Dims, nil)
}

// IdentityTargets returns the evaluation points themselves, as targets for
// solving identity decoders
func (ens *Ensemble) IdentityTargets() *mat.Dense {
	return mat.DenseCopyOf(ens.EvalPts)
}

// MeanRate returns the mean output across neurons on the current step
func (ens *Ensemble) MeanRate() float32 {
	if len(ens.Neurons) == 0 {
		return 0
	}
	outs := make([]float64, len(ens.Neurons))
	for ni := range ens.Neurons {
		outs[ni] = float64(ens.Neurons[ni].Out)
	}
	return float32(floats.Sum(outs) / float64(len(outs)))
}
