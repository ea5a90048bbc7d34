package vmap

import (
	"slices"

	"github.com/born-ml/vmap/internal/tensor"
)

// BinaryOp is an unbatched primitive of two arrays with fixed parameters P.
type BinaryOp[P any] func(a, b *tensor.RawTensor, params P) (*tensor.RawTensor, error)

// UnaryOp is an unbatched primitive of one array with fixed parameters P.
type UnaryOp[P any] func(x *tensor.RawTensor, params P) (*tensor.RawTensor, error)

// BinaryRule is the batching rule of a BinaryOp.
type BinaryRule[P any] func(a, b Operand, params P) (Operand, error)

// UnaryRule is the batching rule of a UnaryOp.
type UnaryRule[P any] func(x Operand, params P) (Operand, error)

// BinaryPointwise derives the batching rule of an elementwise primitive.
//
// It promotes a logical scalar operand, aligns both operands so the batch
// axes are in front and the logical ranks match, and calls op once. Errors
// from op are returned unchanged.
func BinaryPointwise[P any](op BinaryOp[P]) BinaryRule[P] {
	return func(a, b Operand, params P) (Operand, error) {
		a, b = PromoteLogicalScalar(a, b)
		x, y, err := AlignPair(a, b)
		if err != nil {
			return Operand{}, err
		}
		out, err := op(x, y, params)
		if err != nil {
			return Operand{}, err
		}
		return result(out, a, b), nil
	}
}

// ComparisonPointwise derives the batching rule of a predicate such as gt.
// It aligns like BinaryPointwise but leaves dtypes to the primitive.
func ComparisonPointwise[P any](op BinaryOp[P]) BinaryRule[P] {
	return func(a, b Operand, params P) (Operand, error) {
		x, y, err := AlignPair(a, b)
		if err != nil {
			return Operand{}, err
		}
		out, err := op(x, y, params)
		if err != nil {
			return Operand{}, err
		}
		return result(out, a, b), nil
	}
}

// UnaryPointwise derives the batching rule of an elementwise primitive of a
// single array, such as the tensor-scalar overloads. The batch axis stays
// where it is.
func UnaryPointwise[P any](op UnaryOp[P]) UnaryRule[P] {
	return func(x Operand, params P) (Operand, error) {
		out, err := op(x.Tensor, params)
		if err != nil {
			return Operand{}, err
		}
		return Operand{Tensor: out, BDim: x.BDim}, nil
	}
}

// VariadicOp is an unbatched elementwise primitive of any number of arrays,
// such as addcmul or clamp with tensor bounds.
type VariadicOp[P any] func(args []*tensor.RawTensor, params P) (*tensor.RawTensor, error)

// VariadicRule is the batching rule of a VariadicOp.
type VariadicRule[P any] func(args []Operand, params P) (Operand, error)

// VariadicPointwise is BinaryPointwise for any number of operands: logical
// scalars are promoted, every batch axis moves to the front, every operand
// is padded to the largest logical rank and op runs once.
func VariadicPointwise[P any](op VariadicOp[P]) VariadicRule[P] {
	return func(args []Operand, params P) (Operand, error) {
		args = promoteLogicalScalars(slices.Clone(args))
		ts, err := alignAll(args...)
		if err != nil {
			return Operand{}, err
		}
		out, err := op(ts, params)
		if err != nil {
			return Operand{}, err
		}
		return result(out, args...), nil
	}
}
