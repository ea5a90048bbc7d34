// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package vmap vectorizes per-example functions over a batch axis.
//
// # Overview
//
// A function written for a single example calls operations through an
// Interpreter. Map runs it once over the whole batch: every operation is
// dispatched to a batching rule that moves batch axes to the front, aligns
// logical ranks and calls the underlying primitive a single time.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/vmap/tensor"
//	    "github.com/born-ml/vmap/vmap"
//	)
//
//	func main() {
//	    // f(x, w) = x * w, with w shared across the batch.
//	    f := func(in *vmap.Interpreter, args ...vmap.Value) (vmap.Value, error) {
//	        return in.Call("mul", "Tensor", nil, args[0], args[1])
//	    }
//	    cfg := vmap.DefaultConfig()
//	    cfg.InDims = []vmap.BatchDim{0, vmap.NoBatchDim}
//
//	    x, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2})
//	    w, _ := tensor.FromSlice([]float32{10, 100}, tensor.Shape{2})
//	    out, _ := vmap.Map(f, cfg)(x, w) // shape [3 2]
//	}
//
// # Randomness
//
// Random operations fail unless Config.Randomness is RandomnessSame (one
// draw shared by the batch) or RandomnessDifferent (one draw per example).
//
// # Errors
//
// Invalid vmap usage returns a *UsageError whose Code names the violation;
// errors.Is matches ErrIncompatibleInplace, ErrBatchedMask and
// ErrRandomness. Errors raised by primitives are returned unchanged.
package vmap
