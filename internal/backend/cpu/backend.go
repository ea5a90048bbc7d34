// Package cpu implements the tensor primitives the batching rules delegate to.
//
// Every primitive follows framework broadcasting and type promotion and
// reports failures as errors. The backend never needs to know that an
// operand originated from a batched computation.
package cpu

import (
	"math/rand/v2"
	"sync"

	"github.com/born-ml/vmap/internal/parallel"
)

// Config configures the CPU backend.
type Config struct {
	// Parallel controls how elementwise kernels are split across goroutines.
	Parallel parallel.Config

	// Seed for the sampling primitives. -1 seeds from the runtime source.
	Seed int64
}

// DefaultConfig returns the default backend configuration.
func DefaultConfig() Config {
	return Config{
		Parallel: parallel.DefaultConfig(),
		Seed:     -1,
	}
}

// CPUBackend implements the primitive library on the CPU.
type CPUBackend struct {
	cfg Config

	mu  sync.Mutex // guards src
	src *rand.PCG
}

// New creates a CPU backend with the default configuration.
func New() *CPUBackend {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a CPU backend with cfg.
func NewWithConfig(cfg Config) *CPUBackend {
	seed := uint64(cfg.Seed) //nolint:gosec // seed bits are reinterpreted
	if cfg.Seed < 0 {
		seed = rand.Uint64()
	}
	return &CPUBackend{
		cfg: cfg,
		src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Config returns the configuration the backend was created with.
func (cpu *CPUBackend) Config() Config {
	return cpu.cfg
}
