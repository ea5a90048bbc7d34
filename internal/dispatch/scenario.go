package dispatch

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/vmap/internal/registry"
	"github.com/born-ml/vmap/internal/tensor"
	"github.com/born-ml/vmap/internal/vmap"
)

// Scenario is a single vmapped call described in YAML.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Op is the operation key, e.g. "add.Tensor".
	Op string `yaml:"op"`

	// Params are decoded into the operation's parameter struct on top of
	// its defaults.
	Params yaml.Node `yaml:"params,omitempty"`

	Randomness vmap.Randomness `yaml:"randomness,omitempty"`

	// InDims holds one entry per input; null marks an unbatched input.
	// Omitted means every input is batched at 0.
	InDims []*int `yaml:"in_dims,omitempty"`

	OutDim int `yaml:"out_dim,omitempty"`

	Inputs []ArraySpec `yaml:"inputs"`

	Expect Expectation `yaml:"expect"`
}

// ArraySpec describes an input array.
type ArraySpec struct {
	DType tensor.DataType `yaml:"dtype"`
	Shape []int           `yaml:"shape"`

	// Data lists the values in row-major order. Arange fills 0, 1, 2, ...
	// instead.
	Data   []float64 `yaml:"data,omitempty"`
	Arange bool      `yaml:"arange,omitempty"`
}

// Expectation is the expected outcome of a scenario.
type Expectation struct {
	DType string    `yaml:"dtype,omitempty"`
	Shape []int     `yaml:"shape,omitempty"`
	Data  []float64 `yaml:"data,omitempty"`

	// Mutated is the content of the first input after the call.
	Mutated []float64 `yaml:"mutated,omitempty"`

	// Error is a UsageError code, or a substring of the error message.
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &s, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Op == "" {
		return fmt.Errorf("op is required")
	}
	if len(s.Inputs) == 0 {
		return fmt.Errorf("inputs list is required and must be non-empty")
	}
	if s.InDims != nil && len(s.InDims) != len(s.Inputs) {
		return fmt.Errorf("in_dims has %d entries for %d inputs", len(s.InDims), len(s.Inputs))
	}
	return nil
}

// Config returns the level the scenario runs under.
func (s *Scenario) Config() Config {
	cfg := Config{OutDim: s.OutDim, Randomness: s.Randomness}
	if s.InDims != nil {
		cfg.InDims = make([]vmap.BatchDim, len(s.InDims))
		for i, d := range s.InDims {
			cfg.InDims[i] = vmap.NoBatchDim
			if d != nil {
				cfg.InDims[i] = vmap.BatchDim(*d)
			}
		}
	}
	return cfg
}

// Arrays builds the scenario inputs.
func (s *Scenario) Arrays() ([]*tensor.RawTensor, error) {
	arrays := make([]*tensor.RawTensor, len(s.Inputs))
	for i, spec := range s.Inputs {
		shape := tensor.Shape(spec.Shape)
		data := spec.Data
		if spec.Arange {
			data = make([]float64, shape.NumElements())
			for j := range data {
				data[j] = float64(j)
			}
		}
		raw, err := tensor.FromFloat64s(data, shape, spec.DType)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		arrays[i] = raw
	}
	return arrays, nil
}

// Run maps the scenario's operation over inputs with reg.
func (s *Scenario) Run(reg *registry.Registry, inputs []*tensor.RawTensor, opts ...Option) (*tensor.RawTensor, error) {
	if reg == nil {
		reg = registry.Default()
	}
	key := registry.ParseOpKey(s.Op)
	e, ok := reg.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOp, key)
	}

	var params any
	if !s.Params.IsZero() {
		p, err := e.DecodeParams(s.Params.Decode)
		if err != nil {
			return nil, fmt.Errorf("params of %s: %w", key, err)
		}
		params = p
	}

	fn := func(in *Interpreter, args ...vmap.Value) (vmap.Value, error) {
		return in.Call(key.Name, key.Overload, params, args...)
	}
	return Map(fn, s.Config(), reg, opts...)(inputs...)
}
