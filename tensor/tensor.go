// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/vmap/internal/tensor"
)

// DType is a constraint for tensor element types.
// Supported types: float32, float64, int32, int64, uint8, bool.
type DType = tensor.DType

// DataType represents the element type of a tensor at runtime.
type DataType = tensor.DataType

// Data type constants, in promotion order.
const (
	Bool    DataType = tensor.Bool
	Uint8   DataType = tensor.Uint8
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// DefaultFloat is the type integer operands are promoted to by operations
// that always produce floating output.
const DefaultFloat = tensor.DefaultFloat

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// NewRaw creates a zero-filled contiguous tensor.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// FromSlice creates a contiguous tensor holding a copy of data.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// Scalar creates a 0-dimensional tensor holding v.
func Scalar[T DType](v T) *RawTensor {
	return tensor.Scalar(v)
}

// ParseDataType converts a name such as "float32" to its DataType.
func ParseDataType(name string) (DataType, error) {
	return tensor.ParseDataType(name)
}

// BroadcastShapes returns the shape all of shapes broadcast to.
func BroadcastShapes(shapes ...Shape) (Shape, error) {
	return tensor.BroadcastShapes(shapes...)
}

// PromoteTypes returns the type two operands of types a and b compute in.
func PromoteTypes(a, b DataType) DataType {
	return tensor.PromoteTypes(a, b)
}

// ResultType returns the type operands compute in. Zero-dim operands only
// take part when they belong to a higher category (bool < integral <
// floating) than every dimensioned operand.
func ResultType(operands ...*RawTensor) DataType {
	return tensor.ResultType(operands...)
}
