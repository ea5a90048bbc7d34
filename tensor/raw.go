// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/vmap/internal/tensor"
)

// RawTensor is the low-level tensor representation.
//
// RawTensor provides:
//   - Shape and type information via Shape(), DType(), Rank()
//   - Logical-order value access via Float64s(), Int64s(), Bools()
//   - Type-specific access to contiguous data via AsFloat32(), AsInt64(), etc.
//   - Views that share storage (Permute, MoveAxis, Unsqueeze, Expand, Select)
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
//	col, _ := raw.Select(1, 0)        // view of the first column
//	_ = col.SetFloat64s([]float64{1, 2})
//	data := raw.AsFloat32()           // [1 0 0 2 0 0]
type RawTensor = tensor.RawTensor
