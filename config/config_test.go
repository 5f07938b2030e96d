// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.Combined.Neurons != 220 || c.Combined.Radius != 15 || c.Prod.Radius != 20 {
		t.Errorf("populations: %+v %+v", c.Combined, c.Prod)
	}
	pw, err := Piecewise(c.Expected)
	if err != nil {
		t.Fatal(err)
	}
	if pw.Scalar(2.7) != 20 || pw.Scalar(4.7) != -20 || pw.Scalar(1) != 0 {
		t.Errorf("expected product: %v %v %v", pw.Scalar(2.7), pw.Scalar(4.7), pw.Scalar(1))
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multiply.yaml")
	content := `
seed: 42
run_time: 2
prod:
  neurons: 200
  radius: 25
input_a:
  - {t: 0, v: 1}
  - {t: 1, v: -1}
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Seed != 42 || c.RunTime != 2 || c.Prod.Neurons != 200 || c.Prod.Radius != 25 {
		t.Errorf("loaded: seed %v run %v prod %+v", c.Seed, c.RunTime, c.Prod)
	}
	if len(c.InputA) != 2 || c.InputA[1].V != -1 {
		t.Errorf("input_a: %+v", c.InputA)
	}
	// untouched values keep their defaults
	if c.A.Neurons != 100 || c.Dt != 0.001 || len(c.InputB) != 4 {
		t.Errorf("defaults lost: %+v %v %v", c.A, c.Dt, len(c.InputB))
	}
	if c.Logging.Level != "debug" {
		t.Errorf("level: %v", c.Logging.Level)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("sead: 3\n"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NEF_SEED", "7")
	t.Setenv("NEF_LOG_LEVEL", "warn")
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if c.Seed != 7 || c.Logging.Level != "warn" {
		t.Errorf("overrides: %v %v", c.Seed, c.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"dt":        func(c *Config) { c.Dt = 0 },
		"neurons":   func(c *Config) { c.B.Neurons = 0 },
		"radius":    func(c *Config) { c.Combined.Radius = -1 },
		"duplicate": func(c *Config) { c.InputB = append(c.InputB, Breakpoint{T: 0, V: 1}) },
		"empty":     func(c *Config) { c.Expected = nil },
		"level":     func(c *Config) { c.Logging.Level = "loud" },
	}
	for nm, mod := range cases {
		c := Default()
		mod(c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected validation error", nm)
		}
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	c := Default()
	s, err := c.YAML()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "rt.yaml")
	os.WriteFile(path, []byte(s), 0644)
	c2, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c2.Prod != c.Prod || len(c2.Expected) != len(c.Expected) || c2.Output != c.Output {
		t.Errorf("round trip: %+v", c2)
	}
}
