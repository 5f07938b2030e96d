// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/emer/emergent/timer"
	"github.com/emer/etable/etable"
	"github.com/goki/ki/ints"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// EnsFunChan is a channel that runs Ensemble functions
type EnsFunChan chan func(ens *Ensemble)

// nef.Simulator builds a Network and runs it.  Creating a Simulator solves
// all decoders and starts any worker goroutines; Close stops them.
// Recorded probe data remain available after Close.
// Building writes the sampled parameters and neuron state into the
// Network's ensembles, so only one Simulator should use a Network at a time.
type Simulator struct {
	Net      *Network     `desc:"the network being simulated"`
	Clock    Time         `desc:"simulation clock"`
	Seed     int64        `desc:"network seed actually used -- differs from Net.Seed when that is 0"`
	Cache    DecoderCache `view:"-" desc:"optional decoder cache consulted before solving"`
	CacheHit int          `inactive:"+" desc:"number of decoders loaded from the cache on build"`

	NThreads int                    `inactive:"+" desc:"number of parallel threads (go routines) used to update ensembles"`
	ThrEns   [][]*Ensemble          `view:"-" desc:"ensembles per thread"`
	ThrChans []EnsFunChan           `view:"-" desc:"ensemble function channels, per thread"`
	ThrTimes []timer.Time           `view:"-" desc:"timers for each thread, so you can see how evenly the workload is being distributed"`
	FunTimes map[string]*timer.Time `view:"-" desc:"timers for each major function (step of processing)"`
	WaitGp   sync.WaitGroup         `view:"-" desc:"wait group for synchronizing threaded ensemble calls"`

	reqThreads int
	started    bool
	closed     bool
	trange     []float64
	probeBufs  [][]float32
}

// SimOpt sets an optional property of a Simulator
type SimOpt func(sm *Simulator)

// WithDt sets the simulation time step, in seconds
func WithDt(dt float64) SimOpt {
	return func(sm *Simulator) { sm.Clock.Dt = dt }
}

// WithCache uses the given decoder cache when solving decoders
func WithCache(c DecoderCache) SimOpt {
	return func(sm *Simulator) { sm.Cache = c }
}

// WithThreads allocates ensembles to n threads, overriding their Thr settings
func WithThreads(n int) SimOpt {
	return func(sm *Simulator) { sm.reqThreads = n }
}

// NewSimulator builds the network and returns a Simulator ready to run.
func NewSimulator(net *Network, opts ...SimOpt) (*Simulator, error) {
	sm := &Simulator{Net: net}
	sm.Clock.Defaults()
	for _, opt := range opts {
		opt(sm)
	}
	if sm.Clock.Dt <= 0 {
		return nil, fmt.Errorf("NewSimulator: time step must be > 0, is %v", sm.Clock.Dt)
	}
	if err := sm.Build(); err != nil {
		return nil, err
	}
	return sm, nil
}

// Build constructs the ensemble, connection and probe state, solving decoders.
// All errors are accumulated and returned together.
func (sm *Simulator) Build() error {
	sm.StopThreads() // any existing..
	nt := sm.Net
	if err := nt.Validate(); err != nil {
		return err
	}
	if len(nt.Ensembles)+len(nt.Nodes) == 0 {
		return fmt.Errorf("Network %v: nothing to simulate", nt.Nm)
	}
	sm.Seed = nt.Seed
	if sm.Seed == 0 {
		sm.Seed = time.Now().UnixNano()
		log.Printf("Network %v: no seed set, using %d\n", nt.Nm, sm.Seed)
	}
	srng := rand.New(rand.NewSource(uint64(sm.Seed)))
	ensSeeds := make([]int64, len(nt.Ensembles))
	for i, ens := range nt.Ensembles {
		ensSeeds[i] = srng.Int63()
		if ens.Seed != 0 {
			ensSeeds[i] = ens.Seed
		}
	}
	cnSeeds := make([]int64, len(nt.Conns))
	for i, cn := range nt.Conns {
		cnSeeds[i] = srng.Int63()
		if cn.Seed != 0 {
			cnSeeds[i] = cn.Seed
		}
	}

	var errs []error
	for i, ens := range nt.Ensembles {
		if err := ens.Build(NewSampler(ensSeeds[i])); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	for _, nd := range nt.Nodes {
		nd.Build()
	}
	sm.CacheHit = 0
	for i, cn := range nt.Conns {
		cn.Build()
		pre := cn.PreEnsemble()
		if pre == nil {
			continue
		}
		pts, acts := pre.EvalPts, pre.EvalActs
		if cn.NEvalPoints > 0 {
			pts = pre.SampleEvalPoints(NewSampler(cnSeeds[i]), cn.NEvalPoints)
			acts = pre.Activities(pts)
		}
		dcd, rmse, cached, err := sm.solve(&cn.Solver, acts, cn.Targets(pts))
		if err != nil {
			errs = append(errs, fmt.Errorf("Connection %v: %w", cn.Nm, err))
			continue
		}
		cn.Decoders = dcd
		cn.SolveRMSE = rmse
		cn.Cached = cached
	}
	for _, ens := range nt.Ensembles {
		ens.Decoders = nil
	}
	for _, pr := range nt.Probes {
		ens, ok := pr.Target.(*Ensemble)
		if !ok || pr.Attr != DecodedOutput || ens.Decoders != nil {
			continue
		}
		sp := SolverParams{}
		sp.Defaults()
		dcd, _, _, err := sm.solve(&sp, ens.EvalActs, ens.IdentityTargets())
		if err != nil {
			errs = append(errs, fmt.Errorf("Ensemble %v decoded output: %w", ens.Nm, err))
			continue
		}
		ens.SetDecoders(dcd)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	sm.probeBufs = make([][]float32, len(nt.Probes))
	for i, pr := range nt.Probes {
		pr.Build(sm.Clock.Dt)
		sm.probeBufs[i] = make([]float32, pr.Size())
	}
	if sm.reqThreads > 0 {
		sm.ThreadAlloc(sm.reqThreads)
	}
	sm.BuildThreads()
	sm.StartThreads()
	sm.Reset()
	return nil
}

// solve returns decoders from the cache if present, and otherwise solves and
// stores them.
func (sm *Simulator) solve(sp *SolverParams, acts, targs *mat.Dense) (*mat.Dense, float64, bool, error) {
	key := ""
	if sm.Cache != nil {
		key = sp.DecoderKey(acts, targs)
		dcd, ok, err := sm.Cache.Get(key)
		if err != nil {
			log.Println(err)
		} else if ok {
			sm.CacheHit++
			return dcd, 0, true, nil
		}
	}
	dcd, rmse, err := sp.Solve(acts, targs)
	if err != nil {
		return nil, 0, false, err
	}
	if sm.Cache != nil {
		if err := sm.Cache.Put(key, dcd); err != nil {
			log.Println(err)
		}
	}
	return dcd, rmse, false, nil
}

// Reset sets time back to zero, reinitializes all neuron, synapse and node
// state, and clears recorded probe data.  Decoders and sampled parameters are kept.
func (sm *Simulator) Reset() {
	sm.Clock.Reset()
	sm.trange = nil
	dt := float32(sm.Clock.Dt)
	for _, ens := range sm.Net.Ensembles {
		ens.InitActs()
	}
	for _, nd := range sm.Net.Nodes {
		nd.Init()
	}
	for _, cn := range sm.Net.Conns {
		cn.Init(dt)
	}
	for _, pr := range sm.Net.Probes {
		pr.Init(sm.Clock.Dt)
	}
}

// Step advances the simulation by one time step:
// nodes compute their output at the new time, connections send the current
// state of their pre objects through their synapses, ensembles update their
// neurons, and probes record.
func (sm *Simulator) Step() error {
	if sm.closed {
		return ErrClosed
	}
	if sm.probeBufs == nil {
		return ErrNotBuilt
	}
	nt := sm.Net
	sm.Clock.StepInc()
	t := sm.Clock.Time

	sm.FunTimerStart("Nodes")
	for _, nd := range nt.Nodes {
		nd.Update(t)
	}
	sm.FunTimerStop("Nodes")

	sm.FunTimerStart("Send")
	for _, ens := range nt.Ensembles {
		ens.ClearInputs()
	}
	for _, cn := range nt.Conns {
		cn.Send()
	}
	sm.FunTimerStop("Send")

	dt := float32(sm.Clock.Dt)
	sm.ThrEnsFun(func(ens *Ensemble) { ens.Cycle(dt) }, "Cycle")

	sm.FunTimerStart("Probes")
	for i, pr := range nt.Probes {
		pr.Record(sm.Clock.Step, t, sm.probeBufs[i])
	}
	sm.FunTimerStop("Probes")
	sm.trange = append(sm.trange, t)
	return nil
}

// RunSteps runs n steps, checking the context between steps.
// On cancellation the data recorded so far remain valid.
func (sm *Simulator) RunSteps(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := sm.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Run runs the simulation for secs seconds of simulated time
func (sm *Simulator) Run(ctx context.Context, secs float64) error {
	if secs < 0 {
		return fmt.Errorf("Simulator Run: negative duration %v", secs)
	}
	return sm.RunSteps(ctx, sm.Clock.StepsFor(secs))
}

// Close stops the worker threads.  Recorded data remain readable.
func (sm *Simulator) Close() error {
	if sm.closed {
		return nil
	}
	sm.StopThreads()
	sm.closed = true
	return nil
}

// Time returns the current simulation time, in seconds
func (sm *Simulator) Time() float64 {
	return sm.Clock.Time
}

// Trange returns the time of every step taken since the last reset
func (sm *Simulator) Trange() []float64 {
	return sm.trange
}

// ProbeTrange returns the time of every sample recorded by the probe
func (sm *Simulator) ProbeTrange(pr *Probe) []float64 {
	return pr.Times
}

// Data returns the samples recorded by the probe, one row per sample.
// The rows must not be modified.
func (sm *Simulator) Data(pr *Probe) [][]float64 {
	return pr.Data
}

// ProbeTable returns the data recorded by the probe as a table
func (sm *Simulator) ProbeTable(pr *Probe) *etable.Table {
	return ProbeTable(pr)
}

// DataByName returns the samples recorded by the named probe
func (sm *Simulator) DataByName(name string) ([][]float64, error) {
	pr := sm.Net.ProbeByName(name)
	if pr == nil {
		err := fmt.Errorf("Probe named: %v not found in Network: %v", name, sm.Net.Nm)
		log.Println(err)
		return nil, err
	}
	return pr.Data, nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Threading infrastructure

// ThreadAlloc allocates ensembles to nThread threads, assigning the largest
// ensembles first to the least loaded thread.  Returns a report of the
// allocation.
func (sm *Simulator) ThreadAlloc(nThread int) string {
	if nThread < 1 {
		nThread = 1
	}
	ens := append([]*Ensemble(nil), sm.Net.Ensembles...)
	sort.SliceStable(ens, func(i, j int) bool { return ens[i].N*ens[i].Dims > ens[j].N*ens[j].Dims })
	loads := make([]int, nThread)
	for _, e := range ens {
		th := 0
		for i := range loads {
			if loads[i] < loads[th] {
				th = i
			}
		}
		e.Thr = th
		loads[th] += e.N * e.Dims
	}
	var b strings.Builder
	for th, ld := range loads {
		fmt.Fprintf(&b, "Thread: %d\t Cost: %d\n", th, ld)
	}
	return b.String()
}

// BuildThreads constructs the ensemble thread allocation based on Thr setting in the ensembles
func (sm *Simulator) BuildThreads() {
	nthr := 0
	for _, ens := range sm.Net.Ensembles {
		nthr = ints.MaxInt(nthr, ens.Thr)
	}
	sm.NThreads = nthr + 1
	sm.ThrEns = make([][]*Ensemble, sm.NThreads)
	sm.ThrChans = make([]EnsFunChan, sm.NThreads)
	sm.ThrTimes = make([]timer.Time, sm.NThreads)
	sm.FunTimes = make(map[string]*timer.Time)
	for _, ens := range sm.Net.Ensembles {
		th := ens.Thr
		sm.ThrEns[th] = append(sm.ThrEns[th], ens)
	}
	for th := 0; th < sm.NThreads; th++ {
		if len(sm.ThrEns[th]) == 0 {
			log.Printf("Simulator BuildThreads: Network %v has no ensembles for thread: %v\n", sm.Net.Nm, th)
		}
		sm.ThrChans[th] = make(EnsFunChan)
	}
}

// StartThreads starts up the computation threads, which monitor the channels for work
func (sm *Simulator) StartThreads() {
	if sm.NThreads <= 1 || sm.started {
		return
	}
	for th := 0; th < sm.NThreads; th++ {
		go sm.ThrWorker(th) // start the worker thread for this channel
	}
	sm.started = true
}

// StopThreads stops the computation threads
func (sm *Simulator) StopThreads() {
	if !sm.started {
		return
	}
	for th := 0; th < sm.NThreads; th++ {
		close(sm.ThrChans[th])
	}
	sm.started = false
}

// ThrWorker is the worker function run by the worker threads
func (sm *Simulator) ThrWorker(tt int) {
	for fun := range sm.ThrChans[tt] {
		sm.ThrTimes[tt].Start()
		for _, ens := range sm.ThrEns[tt] {
			fun(ens)
		}
		sm.ThrTimes[tt].Stop()
		sm.WaitGp.Done()
	}
}

// ThrEnsFun calls function on each ensemble, using threaded (go routine worker)
// computation if NThreads > 1 and otherwise just iterates over ensembles in the current thread.
func (sm *Simulator) ThrEnsFun(fun func(ens *Ensemble), funame string) {
	sm.FunTimerStart(funame)
	if !sm.started {
		for _, ens := range sm.Net.Ensembles {
			fun(ens)
		}
	} else {
		for th := 0; th < sm.NThreads; th++ {
			sm.WaitGp.Add(1)
			sm.ThrChans[th] <- fun
		}
		sm.WaitGp.Wait()
	}
	sm.FunTimerStop(funame)
}

// TimerReport returns the amount of time spent in each function, and in each thread
func (sm *Simulator) TimerReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "TimerReport: %v, NThreads: %v\n", sm.Net.Nm, sm.NThreads)
	fmt.Fprintf(&b, "\tFunction Name\tTotal Secs\tPct\n")
	fnms := make([]string, 0, len(sm.FunTimes))
	for k := range sm.FunTimes {
		fnms = append(fnms, k)
	}
	sort.Strings(fnms)
	pcts := make([]float64, len(fnms))
	tot := 0.0
	for i, fn := range fnms {
		pcts[i] = sm.FunTimes[fn].TotalSecs()
		tot += pcts[i]
	}
	for i, fn := range fnms {
		fmt.Fprintf(&b, "\t%v \t%6.4g\t%6.4g\n", fn, pcts[i], 100*(pcts[i]/tot))
	}
	fmt.Fprintf(&b, "\tTotal   \t%6.4g\n", tot)

	if sm.NThreads <= 1 {
		return b.String()
	}
	fmt.Fprintf(&b, "\n\tThr\tTotal Secs\tPct\n")
	pcts = make([]float64, sm.NThreads)
	tot = 0.0
	for th := 0; th < sm.NThreads; th++ {
		pcts[th] = sm.ThrTimes[th].TotalSecs()
		tot += pcts[th]
	}
	for th := 0; th < sm.NThreads; th++ {
		fmt.Fprintf(&b, "\t%v \t%6.4g\t%6.4g\n", th, pcts[th], 100*(pcts[th]/tot))
	}
	return b.String()
}

// FunTimerStart starts function timer for given function name -- ensures creation of timer
func (sm *Simulator) FunTimerStart(fun string) {
	ft, ok := sm.FunTimes[fun]
	if !ok {
		ft = &timer.Time{}
		sm.FunTimes[fun] = ft
	}
	ft.Start()
}

// FunTimerStop stops function timer -- timer must already exist
func (sm *Simulator) FunTimerStop(fun string) {
	ft := sm.FunTimes[fun]
	ft.Stop()
}
