// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public array API of the vmap module.
//
// # Overview
//
// Arrays are strided views over shared storage. This package provides:
//   - RawTensor with shape, stride and offset
//   - NumPy-style broadcasting
//   - Type promotion that mirrors the host library (PromoteTypes, ResultType)
//   - Zero-copy views (Permute, MoveAxis, Unsqueeze, Expand, Select)
//
// # Basic Usage
//
//	import "github.com/born-ml/vmap/tensor"
//
//	func main() {
//	    x, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	    y, _ := x.Permute(1, 0) // shares storage with x
//	    fmt.Println(y.Shape())  // [3 2]
//	}
//
// Views alias their source, so in-place operations on a view are visible
// through every other view of the same storage.
package tensor
