package vmap

import "github.com/born-ml/vmap/internal/tensor"

// InplaceOp is an unbatched primitive that mutates self using other.
type InplaceOp[P any] func(self, other *tensor.RawTensor, params P) error

// UnaryInplaceOp is an unbatched primitive that mutates self.
type UnaryInplaceOp[P any] func(self *tensor.RawTensor, params P) error

// InplaceRule is the batching rule of an InplaceOp.
type InplaceRule[P any] func(self, other Operand, params P) error

// UnaryInplaceRule is the batching rule of a UnaryInplaceOp.
type UnaryInplaceRule[P any] func(self Operand, params P) error

// BinaryPointwiseInplace derives the batching rule of an in-place primitive.
//
// An unbatched receiver cannot take a batched operand: the rule fails with
// ErrIncompatibleInplace before anything is written. Otherwise both operands
// are aligned without promotion and op mutates a view of the receiver, so the
// caller's array sees the result.
func BinaryPointwiseInplace[P any](name string, op InplaceOp[P]) InplaceRule[P] {
	return func(self, other Operand, params P) error {
		if !self.IsBatched() && other.IsBatched() {
			return usageError(CodeIncompatibleInplace, name,
				"%s(self, other) is not possible because `other` is batched but `self` is not; "+
					"an in-place operation cannot add a batch axis to its receiver", name)
		}
		x, y, err := AlignPair(self, other)
		if err != nil {
			return err
		}
		return op(x, y, params)
	}
}

// UnaryInplace derives the batching rule of an in-place primitive with no
// other array operand. No batch axis can be introduced, so op runs on the
// receiver as is.
func UnaryInplace[P any](op UnaryInplaceOp[P]) UnaryInplaceRule[P] {
	return func(self Operand, params P) error {
		return op(self.Tensor, params)
	}
}
