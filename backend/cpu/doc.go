// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go primitives the batching rules call.
//
// # Overview
//
// This package implements the primitive numeric library with:
//   - Pure Go implementation (no CGO)
//   - Elementwise arithmetic, comparison and logical operations
//   - In-place variants that write through views
//   - where, masked_select and masked_fill
//   - Seeded normal and binomial sampling (gonum distuv)
//   - Pairwise distances and their gradient (gonum floats)
//   - NumPy-compatible broadcasting and host type promotion
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/vmap/backend/cpu"
//	    "github.com/born-ml/vmap/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3})
//	    y, _ := backend.Add(x, tensor.Scalar(float32(1)), 1)
//	}
//
// # Errors
//
// Primitives return errors for invalid input (mismatched shapes, unsupported
// dtypes, integer division by zero) instead of panicking.
//
// # Thread Safety
//
// The backend is safe for concurrent use. Sampling serializes on the
// backend's random source.
package cpu
