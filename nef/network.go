// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"github.com/emer/emergent/params"
	"github.com/goki/gi/giv"
)

// nef.Network holds the ensembles, nodes, connections and probes of a model.
// It only describes the model: a Simulator builds and runs it.
type Network struct {
	Nm        string            `desc:"overall name of network -- helps discriminate if there are multiple"`
	Seed      int64             `desc:"random seed -- objects without their own seed draw one from this, in creation order"`
	Ensembles []*Ensemble       `desc:"list of ensembles"`
	Nodes     []*Node           `desc:"list of nodes"`
	Conns     []*Connection     `desc:"list of connections"`
	Probes    []*Probe          `desc:"list of probes"`
	ObjMap    map[string]Object `view:"-" desc:"map of name to ensembles and nodes -- names must be unique"`
	MetaData  map[string]string `desc:"optional metadata that is saved with decoders -- e.g., the source of the model configuration"`

	errs []error
}

// NewNetwork returns a new empty network
func NewNetwork(name string, seed int64) *Network {
	nt := &Network{Nm: name, Seed: seed}
	nt.ObjMap = make(map[string]Object)
	nt.MetaData = make(map[string]string)
	return nt
}

func (nt *Network) Name() string  { return nt.Nm }
func (nt *Network) Label() string { return nt.Nm }

// addErr records a construction error, reported again by Validate
func (nt *Network) addErr(err error) {
	log.Println(err)
	nt.errs = append(nt.errs, err)
}

func (nt *Network) addObject(obj Object) {
	if nt.ObjMap == nil {
		nt.ObjMap = make(map[string]Object)
	}
	if _, has := nt.ObjMap[obj.Name()]; has {
		nt.addErr(fmt.Errorf("Network %v: duplicate object name: %v", nt.Nm, obj.Name()))
		return
	}
	nt.ObjMap[obj.Name()] = obj
}

// AddEnsemble adds a new ensemble of n neurons representing dims values
// within radius, with default parameters.
func (nt *Network) AddEnsemble(name string, n, dims int, radius float32) *Ensemble {
	ens := &Ensemble{}
	ens.Defaults()
	ens.Nm = name
	ens.N = n
	ens.Dims = dims
	ens.Radius = radius
	ens.Network = nt
	ens.Idx = len(nt.Ensembles)
	nt.Ensembles = append(nt.Ensembles, ens)
	nt.addObject(ens)
	return ens
}

// AddNode adds a new node driven by the given process
func (nt *Network) AddNode(name string, proc Process) *Node {
	nd := &Node{Nm: name, Dims: proc.Dims(), Proc: proc}
	nd.Idx = len(nt.Nodes)
	nt.Nodes = append(nt.Nodes, nd)
	nt.addObject(nd)
	return nd
}

// AddFuncNode adds a new node whose output is fun(t), with dims values
func (nt *Network) AddFuncNode(name string, dims int, fun func(t float64) []float64) *Node {
	return nt.AddNode(name, &ProcessFunc{NDims: dims, Fun: fun})
}

// AddPassthrough adds a new node that relays the sum of its inputs
func (nt *Network) AddPassthrough(name string, dims int) *Node {
	nd := &Node{Nm: name, Dims: dims}
	nd.Idx = len(nt.Nodes)
	nt.Nodes = append(nt.Nodes, nd)
	nt.addObject(nd)
	return nd
}

// ObjectByName returns an ensemble or node by name (nil if not found)
func (nt *Network) ObjectByName(name string) Object {
	return nt.ObjMap[name]
}

// ObjectByNameTry returns an ensemble or node by name -- emits a log error message
// if not found
func (nt *Network) ObjectByNameTry(name string) (Object, error) {
	obj := nt.ObjectByName(name)
	if obj == nil {
		err := fmt.Errorf("Object named: %v not found in Network: %v", name, nt.Nm)
		log.Println(err)
		return nil, err
	}
	return obj, nil
}

// EnsembleByName returns an ensemble by name (nil if not found or not an ensemble)
func (nt *Network) EnsembleByName(name string) *Ensemble {
	ens, _ := nt.ObjMap[name].(*Ensemble)
	return ens
}

// EnsembleByNameTry returns an ensemble by name -- emits a log error message
// if not found
func (nt *Network) EnsembleByNameTry(name string) (*Ensemble, error) {
	ens := nt.EnsembleByName(name)
	if ens == nil {
		err := fmt.Errorf("Ensemble named: %v not found in Network: %v", name, nt.Nm)
		log.Println(err)
		return nil, err
	}
	return ens, nil
}

// NodeByName returns a node by name (nil if not found or not a node)
func (nt *Network) NodeByName(name string) *Node {
	nd, _ := nt.ObjMap[name].(*Node)
	return nd
}

// NodeByNameTry returns a node by name -- emits a log error message
// if not found
func (nt *Network) NodeByNameTry(name string) (*Node, error) {
	nd := nt.NodeByName(name)
	if nd == nil {
		err := fmt.Errorf("Node named: %v not found in Network: %v", name, nt.Nm)
		log.Println(err)
		return nil, err
	}
	return nd, nil
}

// ConnByName returns a connection by name (nil if not found)
func (nt *Network) ConnByName(name string) *Connection {
	for _, cn := range nt.Conns {
		if cn.Nm == name {
			return cn
		}
	}
	return nil
}

// ProbeByName returns a probe by name (nil if not found)
func (nt *Network) ProbeByName(name string) *Probe {
	for _, pr := range nt.Probes {
		if pr.Nm == name {
			return pr
		}
	}
	return nil
}

// Connect establishes a connection from pre to post, adding it to the send and
// receive lists of any ensembles involved.  Returns an error if the slices,
// function and transform do not fit the dimensions of pre and post.
// Decoders are not solved until the network is built by a Simulator.
func (nt *Network) Connect(pre, post Object, opts ...ConnOpt) (*Connection, error) {
	cn := &Connection{}
	cn.Defaults()
	cn.Pre = pre
	cn.Post = post
	for _, opt := range opts {
		opt(cn)
	}
	if cn.Nm == "" {
		cn.Nm = pre.Name() + "->" + post.Name()
		if nt.ConnByName(cn.Nm) != nil {
			cn.Nm = fmt.Sprintf("%s#%d", cn.Nm, len(nt.Conns))
		}
	}
	if post.SizeIn() == 0 {
		err := fmt.Errorf("Connect %v: %v takes no input", cn.Nm, post.Name())
		log.Println(err)
		return nil, err
	}
	if err := cn.Validate(); err != nil {
		log.Println(err)
		return nil, err
	}
	nt.Conns = append(nt.Conns, cn)
	if ens, ok := pre.(*Ensemble); ok {
		ens.SndConns = append(ens.SndConns, cn)
	}
	if ens, ok := post.(*Ensemble); ok {
		ens.RcvConns = append(ens.RcvConns, cn)
	}
	return cn, nil
}

// ConnectNames establishes a connection between two objects referenced by name.
func (nt *Network) ConnectNames(pre, post string, opts ...ConnOpt) (*Connection, error) {
	preo, err := nt.ObjectByNameTry(pre)
	if err != nil {
		return nil, err
	}
	posto, err := nt.ObjectByNameTry(post)
	if err != nil {
		return nil, err
	}
	return nt.Connect(preo, posto, opts...)
}

// Probe adds a probe recording attr of target
func (nt *Network) Probe(target Object, attr ProbeAttrs, opts ...ProbeOpt) (*Probe, error) {
	pr := &Probe{Target: target, Attr: attr}
	for _, opt := range opts {
		opt(pr)
	}
	if pr.Nm == "" {
		pr.Nm = target.Name() + "." + attr.String()
	}
	if err := pr.Validate(); err != nil {
		log.Println(err)
		return nil, err
	}
	if nt.ProbeByName(pr.Nm) != nil {
		err := fmt.Errorf("Network %v: duplicate probe name: %v", nt.Nm, pr.Nm)
		log.Println(err)
		return nil, err
	}
	nt.Probes = append(nt.Probes, pr)
	return pr, nil
}

// Validate returns any errors recorded while constructing the network
func (nt *Network) Validate() error {
	return errors.Join(nt.errs...)
}

// ApplyParams applies given parameter style Sheet to ensembles and connections.
// Calls UpdateParams on anything set to ensure derived parameters are all updated.
// If setMsg is true, then a message is printed to confirm each parameter that is set.
// it always prints a message if a parameter fails to be set.
// returns true if any params were set, and error if there were any errors.
func (nt *Network) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	applied := false
	var rerr error
	for _, ens := range nt.Ensembles {
		app, err := ens.ApplyParams(pars, setMsg)
		if app {
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	for _, cn := range nt.Conns {
		app, err := cn.ApplyParams(pars, setMsg)
		if app {
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	return applied, rerr
}

// NonDefaultParams returns a listing of all parameters in the Network that
// are not at their default values -- useful for setting param styles etc.
func (nt *Network) NonDefaultParams() string {
	nds := ""
	for _, ens := range nt.Ensembles {
		nds += giv.StructNonDefFieldsStr(ens, ens.Nm)
	}
	for _, cn := range nt.Conns {
		nds += giv.StructNonDefFieldsStr(cn, cn.Nm)
	}
	return nds
}

// AllParams returns a listing of the main parameters of every ensemble and connection
func (nt *Network) AllParams() string {
	var b strings.Builder
	for _, ens := range nt.Ensembles {
		fmt.Fprintf(&b, "Ensemble: %v\tN: %d\tDims: %d\tRadius: %g\n", ens.Nm, ens.N, ens.Dims, ens.Radius)
		fmt.Fprintf(&b, "\tAct: {Type: %v Amplitude: %g TauRC: %g TauRef: %g}\n", ens.Act.Type, ens.Act.Amplitude, ens.Act.LIF.TauRC, ens.Act.LIF.TauRef)
		fmt.Fprintf(&b, "\tMaxRates: [%g, %g]\tIntercepts: [%g, %g]\tEvalPoints: %d\n", ens.MaxRates.Min, ens.MaxRates.Max, ens.Intercepts.Min, ens.Intercepts.Max, ens.NumEvalPoints())
	}
	for _, cn := range nt.Conns {
		fun := cn.FunName
		if fun == "" {
			fun = "identity"
		}
		fmt.Fprintf(&b, "Connection: %v\tFun: %v\tSyn.Tau: %g\tSolver.Reg: %g\n", cn.Nm, fun, cn.Syn.Tau, cn.Solver.Reg)
	}
	return b.String()
}

// SizeReport returns a string reporting the size of each ensemble and connection
// in the network, and total memory footprint.
func (nt *Network) SizeReport() string {
	var b strings.Builder
	neur := 0
	neurMem := 0
	dec := 0
	decMem := 0
	for _, ens := range nt.Ensembles {
		nn := ens.N
		nmem := nn*int(unsafe.Sizeof(Neuron{})) + nn*(4*4+ens.Dims*4)
		neur += nn
		neurMem += nmem
		fmt.Fprintf(&b, "%14s:\t Neurons: %d\t NeurMem: %v \t Sends To:\n", ens.Nm, nn, (datasize.ByteSize)(nmem).HumanReadable())
		for _, cn := range ens.SndConns {
			nd := nn * cn.FunDims
			dec += nd
			pmem := nd * 8
			decMem += pmem
			fmt.Fprintf(&b, "\t%14s:\t Decoders: %d\t DecMem: %v\n", cn.Post.Name(), nd, (datasize.ByteSize)(pmem).HumanReadable())
		}
	}
	fmt.Fprintf(&b, "\n\n%14s:\t Neurons: %d\t NeurMem: %v \t Decoders: %d \t DecMem: %v\n", nt.Nm, neur, (datasize.ByteSize)(neurMem).HumanReadable(), dec, (datasize.ByteSize)(decMem).HumanReadable())
	return b.String()
}
