// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the configuration of the multiplication model from
// YAML, with environment variable overrides.
package config

import (
	"bytes"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/emer/nef/nef"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config contains all settings of the multiplication model and its run.
type Config struct {
	// Seed is the network seed -- 0 draws a seed from the clock.
	Seed int64 `yaml:"seed"`

	// Dt is the simulation time step, in seconds.
	Dt float64 `yaml:"dt"`

	// RunTime is the simulated duration, in seconds.
	RunTime float64 `yaml:"run_time"`

	// Threads is the number of goroutines updating ensembles -- 0 or 1 runs serially.
	Threads int `yaml:"threads"`

	A        Population `yaml:"a"`
	B        Population `yaml:"b"`
	Combined Population `yaml:"combined"`
	Prod     Population `yaml:"prod"`

	// InputA and InputB are the breakpoints of the two input signals.
	InputA []Breakpoint `yaml:"input_a"`
	InputB []Breakpoint `yaml:"input_b"`

	// Expected is the breakpoints of the reference product.
	Expected []Breakpoint `yaml:"expected"`

	// ProbeSynapse is the time constant of the filter on decoded outputs.
	ProbeSynapse float32 `yaml:"probe_synapse"`

	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// Population sets the size of one ensemble.
type Population struct {
	Neurons int     `yaml:"neurons"`
	Radius  float32 `yaml:"radius"`
}

// Breakpoint is the value of a piecewise signal starting at time T.
type Breakpoint struct {
	T float64 `yaml:"t"`
	V float64 `yaml:"v"`
}

// OutputConfig names the files written by a run.  Empty paths are skipped.
type OutputConfig struct {
	// CSV receives the probe data.
	CSV string `yaml:"csv"`

	// Plot receives the stacked input, combined and product plots (.png or .svg).
	Plot string `yaml:"plot"`

	// Decoders receives the solved decoders as JSON (.gz compresses).
	Decoders string `yaml:"decoders"`

	// Cache is the SQLite decoder cache.
	Cache string `yaml:"cache"`
}

// LoggingConfig configures the log output.
type LoggingConfig struct {
	// Level is "trace", "debug", "info" (default), "warn" or "error".
	Level string `yaml:"level"`
}

// Default returns the configuration of the multiplication notebook.
func Default() *Config {
	return &Config{
		Seed:     1,
		Dt:       0.001,
		RunTime:  5,
		A:        Population{Neurons: 100, Radius: 10},
		B:        Population{Neurons: 100, Radius: 10},
		Combined: Population{Neurons: 220, Radius: 15},
		Prod:     Population{Neurons: 100, Radius: 20},
		InputA:   []Breakpoint{{0, 0}, {2.5, 10}, {4, -10}},
		InputB:   []Breakpoint{{0, 10}, {1.5, 2}, {3, 0}, {4.5, 2}},
		Expected: []Breakpoint{{0, 0}, {1.5, 0}, {2.5, 20}, {3, 0}, {4, 0}, {4.5, -20}},

		ProbeSynapse: 0.01,
		Output: OutputConfig{
			CSV:  "multiply.csv",
			Plot: "multiply.png",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the configuration from a YAML file, on top of the defaults,
// and applies environment overrides.  An empty path returns the defaults
// with overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "reading config file")
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, errors.Wrapf(err, "parsing config file %s", path)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return errors.Errorf("dt must be > 0, got %v", c.Dt)
	}
	if c.RunTime <= 0 {
		return errors.Errorf("run_time must be > 0, got %v", c.RunTime)
	}
	if c.Threads < 0 {
		return errors.Errorf("threads must be non-negative, got %d", c.Threads)
	}
	pops := map[string]Population{"a": c.A, "b": c.B, "combined": c.Combined, "prod": c.Prod}
	for _, nm := range []string{"a", "b", "combined", "prod"} {
		p := pops[nm]
		if p.Neurons <= 0 {
			return errors.Errorf("%s: neurons must be > 0, got %d", nm, p.Neurons)
		}
		if p.Radius <= 0 {
			return errors.Errorf("%s: radius must be > 0, got %v", nm, p.Radius)
		}
	}
	bps := map[string][]Breakpoint{"input_a": c.InputA, "input_b": c.InputB, "expected": c.Expected}
	for _, nm := range []string{"input_a", "input_b", "expected"} {
		if err := checkBreakpoints(bps[nm]); err != nil {
			return errors.Wrap(err, nm)
		}
	}
	if c.ProbeSynapse < 0 {
		return errors.Errorf("probe_synapse must be non-negative, got %v", c.ProbeSynapse)
	}
	validLevels := map[string]bool{"": true, "trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return errors.Errorf("invalid log level: %s (valid: trace, debug, info, warn, error)", c.Logging.Level)
	}
	return nil
}

func checkBreakpoints(bps []Breakpoint) error {
	if len(bps) == 0 {
		return errors.New("no breakpoints")
	}
	seen := make(map[float64]bool, len(bps))
	for _, bp := range bps {
		if seen[bp.T] {
			return errors.Errorf("duplicate breakpoint time %v", bp.T)
		}
		seen[bp.T] = true
	}
	return nil
}

// Piecewise returns the breakpoints as a scalar Piecewise process
func Piecewise(bps []Breakpoint) (*nef.Piecewise, error) {
	if err := checkBreakpoints(bps); err != nil {
		return nil, err
	}
	data := make(map[float64]float64, len(bps))
	for _, bp := range bps {
		data[bp.T] = bp.V
	}
	return nef.NewPiecewiseScalar(data)
}

// Sorted returns a copy of the breakpoints in time order
func Sorted(bps []Breakpoint) []Breakpoint {
	s := append([]Breakpoint(nil), bps...)
	sort.Slice(s, func(i, j int) bool { return s[i].T < s[j].T })
	return s
}

// YAML returns the configuration as YAML text.
func (c *Config) YAML() (string, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, "marshal config")
	}
	return string(b), nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(c *Config) {
	if v := os.Getenv("NEF_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = n
		}
	}
	if v := os.Getenv("NEF_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Threads = n
		}
	}
	if v := os.Getenv("NEF_RUN_TIME"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RunTime = f
		}
	}
	if v := os.Getenv("NEF_CACHE"); v != "" {
		c.Output.Cache = v
	}
	if v := os.Getenv("NEF_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}
