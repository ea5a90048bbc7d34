package vmap

import "github.com/born-ml/vmap/internal/tensor"

// MaskedSelectRule is the batching rule of masked_select.
type MaskedSelectRule func(self, mask Operand) (Operand, error)

// MaskedSelect derives the batching rule of masked_select(self, mask).
//
// Batched masks select a different number of elements per batch element and
// are rejected with ErrBatchedMask. A batched self is padded to the rank of
// the mask, and the flat result is viewed as (batch, -1).
func MaskedSelect(op func(self, mask *tensor.RawTensor) (*tensor.RawTensor, error)) MaskedSelectRule {
	return func(self, mask Operand) (Operand, error) {
		if mask.IsBatched() {
			return Operand{}, usageError(CodeBatchedMask, "masked_select",
				"the mask cannot be batched: the result would have a different length per batch element")
		}
		if !self.IsBatched() {
			out, err := op(self.Tensor, mask.Tensor)
			if err != nil {
				return Operand{}, err
			}
			return Unbatched(out), nil
		}

		x, err := MoveBatchDimToFront(self.Tensor, self.BDim)
		if err != nil {
			return Operand{}, err
		}
		rank := max(self.LogicalRank(), mask.Tensor.Rank())
		if x, err = MaybePadToLogicalRank(x, 0, rank); err != nil {
			return Operand{}, err
		}
		out, err := op(x, mask.Tensor)
		if err != nil {
			return Operand{}, err
		}
		out, err = out.Reshape(tensor.Shape{x.Size(0), -1})
		if err != nil {
			return Operand{}, err
		}
		return Operand{Tensor: out, BDim: 0}, nil
	}
}
