// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"fmt"

	"github.com/emer/emergent/params"
	"gonum.org/v1/gonum/mat"
)

// ConnFunc is a function computed across a connection, from the (sliced)
// vector sent by the pre object to a vector of the connection's FunDims
type ConnFunc func(x []float64) []float64

// Product returns the product of all elements of x -- x[0]*x[1] for a 2D input
func Product(x []float64) []float64 {
	p := 1.0
	for _, v := range x {
		p *= v
	}
	return []float64{p}
}

// nef.Connection sends a vector from a pre object to a post object,
// optionally computing a function of it along the way.
// For an Ensemble pre, the function is computed by decoders solved at build
// time.  For a Node pre, the function is applied directly to its output.
// The result is multiplied by the transform, filtered by the synapse, and
// added into the post object's input (at PostIdx).
type Connection struct {
	Nm          string       `desc:"name of the connection -- defaults to Pre->Post"`
	Cls         string       `desc:"class for applying parameter styles, can be space separated multiple tags"`
	Pre         Object       `view:"-" desc:"sending object"`
	Post        Object       `view:"-" desc:"receiving object"`
	PreIdx      []int        `desc:"indexes of the pre output to send -- nil = all"`
	PostIdx     []int        `desc:"indexes of the post input to receive into -- nil = all"`
	FunName     string       `desc:"name of the function, for reports and the decoder cache"`
	Fun         ConnFunc     `view:"-" desc:"function computed across the connection -- nil = identity"`
	FunDims     int          `inactive:"+" desc:"output dims of Fun, or of the pre slice if no Fun"`
	Trans       *mat.Dense   `view:"-" desc:"transform matrix, post dims x FunDims -- nil = TransScale times identity"`
	TransScale  float64      `def:"1" desc:"scalar transform, used when Trans is nil"`
	Syn         SynParams    `view:"inline" desc:"synaptic filter applied to the signal"`
	Solver      SolverParams `view:"inline" desc:"decoder solver parameters"`
	NEvalPoints int          `desc:"number of evaluation points for this connection -- 0 = use the pre ensemble's points"`
	Seed        int64        `desc:"random seed for connection-specific evaluation points -- 0 = drawn from the network seed"`

	Decoders  *mat.Dense `view:"-" desc:"decoders, pre neurons x FunDims -- only for an Ensemble pre"`
	SolveRMSE float64    `inactive:"+" desc:"RMS error of the decoder fit over the evaluation points"`
	Cached    bool       `inactive:"+" desc:"true if the decoders came from the decoder cache"`

	optErr  error
	preVec  []float64
	funVec  *mat.VecDense
	postVec *mat.VecDense
	signal  []float32
	filt    []float32
	decay   float32
}

func (cn *Connection) Defaults() {
	cn.TransScale = 1
	cn.Syn.Defaults()
	cn.Solver.Defaults()
}

// UpdateParams updates all params given any changes that might have been made to individual values
func (cn *Connection) UpdateParams() {
	cn.Syn.Update()
	cn.Solver.Update()
}

func (cn *Connection) Name() string     { return cn.Nm }
func (cn *Connection) Class() string    { return cn.Pre.TypeName() + cn.Post.TypeName() + " " + cn.Cls }
func (cn *Connection) TypeName() string { return "Connection" } // type category, for params..
func (cn *Connection) Label() string    { return cn.Nm }

// ApplyParams applies given parameter style Sheet to this connection.
// Calls UpdateParams if anything set to ensure derived parameters are all updated.
// If setMsg is true, then a message is printed to confirm each parameter that is set.
// it always prints a message if a parameter fails to be set.
// returns true if any params were set, and error if there were any errors.
func (cn *Connection) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	app, err := pars.Apply(cn, setMsg)
	if app {
		cn.UpdateParams()
	}
	return app, err
}

// PreEnsemble returns the pre object as an Ensemble, or nil
func (cn *Connection) PreEnsemble() *Ensemble {
	ens, _ := cn.Pre.(*Ensemble)
	return ens
}

// PreDims returns the dimensionality of the sliced pre output
func (cn *Connection) PreDims() int {
	if cn.PreIdx != nil {
		return len(cn.PreIdx)
	}
	return cn.Pre.SizeOut()
}

// PostDims returns the dimensionality of the sliced post input
func (cn *Connection) PostDims() int {
	if cn.PostIdx != nil {
		return len(cn.PostIdx)
	}
	return cn.Post.SizeIn()
}

// Validate checks slices, function and transform dimensions, and computes FunDims
func (cn *Connection) Validate() error {
	if cn.optErr != nil {
		return fmt.Errorf("Connection %v: %w", cn.Nm, cn.optErr)
	}
	if err := checkSlice(cn.PreIdx, cn.Pre.SizeOut()); err != nil {
		return fmt.Errorf("Connection %v pre slice: %w", cn.Nm, err)
	}
	if err := checkSlice(cn.PostIdx, cn.Post.SizeIn()); err != nil {
		return fmt.Errorf("Connection %v post slice: %w", cn.Nm, err)
	}
	pd := cn.PreDims()
	if cn.Fun != nil {
		if cn.FunDims <= 0 {
			return fmt.Errorf("Connection %v: function %v must have > 0 output dims", cn.Nm, cn.FunName)
		}
		if n := len(cn.Fun(make([]float64, pd))); n != cn.FunDims {
			return fmt.Errorf("Connection %v: function %v returns %d values, declared %d: %w", cn.Nm, cn.FunName, n, cn.FunDims, ErrDims)
		}
	} else {
		cn.FunDims = pd
	}
	od := cn.PostDims()
	if cn.Trans != nil {
		r, c := cn.Trans.Dims()
		if r != od || c != cn.FunDims {
			return fmt.Errorf("Connection %v: transform is %dx%d, need %dx%d: %w", cn.Nm, r, c, od, cn.FunDims, ErrDims)
		}
	} else if cn.FunDims != od {
		return fmt.Errorf("Connection %v: function output has %d dims, post has %d: %w", cn.Nm, cn.FunDims, od, ErrDims)
	}
	return nil
}

func checkSlice(idx []int, size int) error {
	if idx == nil {
		return nil
	}
	if len(idx) == 0 {
		return fmt.Errorf("empty slice: %w", ErrDims)
	}
	for _, i := range idx {
		if i < 0 || i >= size {
			return fmt.Errorf("index %d out of range [0, %d): %w", i, size, ErrDims)
		}
	}
	return nil
}

// Targets returns the function targets (rows) for the evaluation points
// (rows) of the pre ensemble
func (cn *Connection) Targets(pts *mat.Dense) *mat.Dense {
	np, _ := pts.Dims()
	targs := mat.NewDense(np, cn.FunDims, nil)
	x := make([]float64, cn.PreDims())
	for pi := 0; pi < np; pi++ {
		cn.slicePre(pts.RawRowView(pi), x)
		if cn.Fun != nil {
			targs.SetRow(pi, cn.Fun(x))
		} else {
			targs.SetRow(pi, x)
		}
	}
	return targs
}

func (cn *Connection) slicePre(full, x []float64) {
	if cn.PreIdx == nil {
		copy(x, full)
		return
	}
	for i, pi := range cn.PreIdx {
		x[i] = full[pi]
	}
}

// Build allocates the runtime state.  Decoders for an Ensemble pre must be set
// separately (the Simulator solves them).
func (cn *Connection) Build() {
	cn.UpdateParams()
	cn.preVec = make([]float64, cn.Pre.SizeOut())
	cn.funVec = mat.NewVecDense(cn.FunDims, nil)
	od := cn.PostDims()
	cn.postVec = mat.NewVecDense(od, nil)
	cn.signal = make([]float32, od)
	cn.filt = make([]float32, od)
}

// Init resets the synaptic filter state and sets the decay for time step dt
func (cn *Connection) Init(dt float32) {
	cn.decay = cn.Syn.Decay(dt)
	for i := range cn.filt {
		cn.filt[i] = 0
	}
}

// Send computes the signal from the current pre state, filters it, and adds it
// into the post input.
func (cn *Connection) Send() {
	if ens := cn.PreEnsemble(); ens != nil {
		ens.Decode(cn.Decoders, cn.funVec)
	} else {
		nd := cn.Pre.(*Node)
		for i, v := range nd.Outputs {
			cn.preVec[i] = float64(v)
		}
		x := cn.preVec
		if cn.PreIdx != nil {
			x = make([]float64, len(cn.PreIdx))
			cn.slicePre(cn.preVec, x)
		}
		if cn.Fun != nil {
			x = cn.Fun(x)
		}
		for i, v := range x {
			cn.funVec.SetVec(i, v)
		}
	}
	if cn.Trans != nil {
		cn.postVec.MulVec(cn.Trans, cn.funVec)
	} else {
		cn.postVec.ScaleVec(cn.TransScale, cn.funVec)
	}
	for i := range cn.signal {
		cn.signal[i] = float32(cn.postVec.AtVec(i))
	}
	cn.Syn.Filter(cn.decay, cn.signal, cn.filt)
	cn.Post.AddInput(cn.PostIdx, cn.filt)
}

//////////////////////////////////////////////////////////////////////////////////////
//  Connection options

// ConnOpt sets an optional property of a Connection
type ConnOpt func(cn *Connection)

// ConnName sets the connection name
func ConnName(name string) ConnOpt {
	return func(cn *Connection) { cn.Nm = name }
}

// ConnClass sets the connection class for param styles
func ConnClass(cls string) ConnOpt {
	return func(cn *Connection) { cn.Cls = cls }
}

// PreSlice sends only the given indexes of the pre output
func PreSlice(idx ...int) ConnOpt {
	return func(cn *Connection) { cn.PreIdx = idx }
}

// PostSlice receives into only the given indexes of the post input
func PostSlice(idx ...int) ConnOpt {
	return func(cn *Connection) { cn.PostIdx = idx }
}

// Function computes fn across the connection.  fn must return dims values.
func Function(name string, dims int, fn ConnFunc) ConnOpt {
	return func(cn *Connection) {
		cn.FunName = name
		cn.Fun = fn
		cn.FunDims = dims
	}
}

// Transform sets a transform matrix given as rows (post dims) of columns (function dims)
func Transform(rows [][]float64) ConnOpt {
	return func(cn *Connection) {
		if len(rows) == 0 || len(rows[0]) == 0 {
			cn.optErr = fmt.Errorf("empty transform: %w", ErrDims)
			return
		}
		tr := mat.NewDense(len(rows), len(rows[0]), nil)
		for i, r := range rows {
			if len(r) != len(rows[0]) {
				cn.optErr = fmt.Errorf("transform row %d has %d values, need %d: %w", i, len(r), len(rows[0]), ErrDims)
				return
			}
			tr.SetRow(i, r)
		}
		cn.Trans = tr
	}
}

// Scale sets a scalar transform
func Scale(s float64) ConnOpt {
	return func(cn *Connection) { cn.TransScale = s }
}

// Synapse sets the lowpass synaptic time constant, in seconds
func Synapse(tau float32) ConnOpt {
	return func(cn *Connection) { cn.Syn.Tau = tau }
}

// NoSynapse turns off synaptic filtering
func NoSynapse() ConnOpt {
	return func(cn *Connection) { cn.Syn.Tau = 0 }
}

// Solver sets the decoder solver regularization
func Solver(reg float32) ConnOpt {
	return func(cn *Connection) { cn.Solver.Reg = reg }
}

// EvalPoints uses n connection-specific evaluation points to solve decoders
func EvalPoints(n int) ConnOpt {
	return func(cn *Connection) { cn.NEvalPoints = n }
}

// ConnSeed sets the connection seed
func ConnSeed(seed int64) ConnOpt {
	return func(cn *Connection) { cn.Seed = seed }
}
