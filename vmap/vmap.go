// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package vmap

import (
	"github.com/born-ml/vmap/internal/dispatch"
	"github.com/born-ml/vmap/internal/registry"
	"github.com/born-ml/vmap/internal/tensor"
	"github.com/born-ml/vmap/internal/vmap"
)

// BatchDim is the position of the batch axis, or NoBatchDim.
type BatchDim = vmap.BatchDim

// NoBatchDim marks an unbatched input.
const NoBatchDim = vmap.NoBatchDim

// Value is a plain array or a BatchedTensor.
type Value = vmap.Value

// BatchedTensor is an array carrying a batch axis at some level.
type BatchedTensor = vmap.BatchedTensor

// Randomness selects how random operations behave under Map.
type Randomness = vmap.Randomness

// Randomness modes.
const (
	RandomnessError     = vmap.RandomnessError
	RandomnessSame      = vmap.RandomnessSame
	RandomnessDifferent = vmap.RandomnessDifferent
)

// Interpreter dispatches operations at one vmap level.
type Interpreter = dispatch.Interpreter

// Func is a per-example function run by Map.
type Func = dispatch.Func

// Config describes the batch axes of the inputs and output of Map.
type Config = dispatch.Config

// Option configures the interpreter Map creates.
type Option = dispatch.Option

// WithLogger is an Option that sets the interpreter's logger.
var WithLogger = dispatch.WithLogger

// DefaultConfig batches every input and the output at axis 0.
func DefaultConfig() Config {
	return dispatch.DefaultConfig()
}

// Map vectorizes fn over the batch axes named by cfg using the default
// operation table.
func Map(fn Func, cfg Config, opts ...Option) func(args ...*tensor.RawTensor) (*tensor.RawTensor, error) {
	return dispatch.Map(fn, cfg, registry.Default(), opts...)
}

// Ops returns the name of every operation Interpreter.Call accepts, as
// "name.overload".
func Ops() []string {
	keys := registry.Default().Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return names
}
