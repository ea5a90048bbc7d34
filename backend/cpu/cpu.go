// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/vmap/internal/backend/cpu"
	"github.com/born-ml/vmap/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Config controls kernel parallelism and the random seed.
type Config = internalcpu.Config

// Rounding modes of Div.
const (
	RoundNone  = internalcpu.RoundNone
	RoundTrunc = internalcpu.RoundTrunc
	RoundFloor = internalcpu.RoundFloor
)

// DefaultConfig returns parallel kernels and a random seed.
func DefaultConfig() Config {
	return internalcpu.DefaultConfig()
}

// New creates a new CPU backend with DefaultConfig.
//
// Example:
//
//	backend := cpu.New()
//	mask, _ := backend.Gt(x, tensor.Scalar(float32(0)))
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend. A non-negative Seed makes sampling
// reproducible.
func NewWithConfig(cfg Config) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// WrapScalar turns a number into a zero-dim operand for x, so that it can be
// passed where a tensor operand is expected. A whole s acts as an integer
// literal.
func WrapScalar(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	return internalcpu.WrapScalar(x, s)
}

// WrapFloat is WrapScalar for a floating literal, which promotes integral
// and bool x even when s is whole.
func WrapFloat(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	return internalcpu.WrapFloat(x, s)
}
