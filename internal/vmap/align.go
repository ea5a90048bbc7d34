package vmap

import (
	"github.com/born-ml/vmap/internal/tensor"
)

// RankWithoutBatchDim returns the logical rank of t.
func RankWithoutBatchDim(t *tensor.RawTensor, bdim BatchDim) int {
	if bdim.IsBatched() {
		return t.Rank() - 1
	}
	return t.Rank()
}

// MoveBatchDimToFront returns a view of t with its batch axis at position 0.
// Unbatched arrays are returned unchanged.
func MoveBatchDimToFront(t *tensor.RawTensor, bdim BatchDim) (*tensor.RawTensor, error) {
	if !bdim.IsBatched() {
		return t, nil
	}
	return t.MoveAxis(int(bdim), 0)
}

// MaybePadToLogicalRank inserts singleton axes until t has logicalRank
// logical dimensions. The axes go right after the batch axis, which must
// already be at the front, or at the front of an unbatched array. Arrays that
// already have enough dimensions are returned unchanged.
func MaybePadToLogicalRank(t *tensor.RawTensor, bdim BatchDim, logicalRank int) (*tensor.RawTensor, error) {
	pos := 0
	if bdim.IsBatched() {
		pos = 1
	}
	var err error
	for rank := RankWithoutBatchDim(t, bdim); rank < logicalRank; rank++ {
		if t, err = t.Unsqueeze(pos); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AlignPair moves the batch axes of a and b to the front and pads the
// operand of lower logical rank so that the primitive's broadcasting lines up
// the logical dimensions. The returned arrays are views of the inputs.
func AlignPair(a, b Operand) (*tensor.RawTensor, *tensor.RawTensor, error) {
	ts, err := alignAll(a, b)
	if err != nil {
		return nil, nil, err
	}
	return ts[0], ts[1], nil
}

// alignAll is AlignPair over any number of operands: every batch axis moves
// to the front and every operand is padded to the largest logical rank.
func alignAll(ops ...Operand) ([]*tensor.RawTensor, error) {
	maxRank := 0
	for _, o := range ops {
		maxRank = max(maxRank, o.LogicalRank())
	}
	ts := make([]*tensor.RawTensor, len(ops))
	for i, o := range ops {
		t, err := alignTo(o, maxRank)
		if err != nil {
			return nil, err
		}
		ts[i] = t
	}
	return ts, nil
}

func alignTo(o Operand, logicalRank int) (*tensor.RawTensor, error) {
	t, err := MoveBatchDimToFront(o.Tensor, o.BDim)
	if err != nil {
		return nil, err
	}
	front := NoBatchDim
	if o.IsBatched() {
		front = 0
	}
	return MaybePadToLogicalRank(t, front, logicalRank)
}

// EnsureHasBatchDim gives an unbatched operand a leading batch axis of
// batchSize by broadcasting. Batched operands are returned unchanged.
func EnsureHasBatchDim(o Operand, batchSize int) (Operand, error) {
	if o.IsBatched() {
		return o, nil
	}
	t, err := o.Tensor.Unsqueeze(0)
	if err != nil {
		return Operand{}, err
	}
	shape := t.Shape().Clone()
	shape[0] = batchSize
	if t, err = t.Expand(shape); err != nil {
		return Operand{}, err
	}
	return Operand{Tensor: t, BDim: 0}, nil
}

// UnsqueezeLogical inserts a singleton axis at logical position dim,
// keeping track of where the batch axis ends up.
func UnsqueezeLogical(o Operand, dim int) (Operand, error) {
	dim, err := tensor.NormalizeDim(dim, o.LogicalRank()+1)
	if err != nil {
		return Operand{}, err
	}
	phys, bdim := dim, o.BDim
	if o.IsBatched() {
		if int(bdim) <= dim {
			phys++
		} else {
			bdim++
		}
	}
	t, err := o.Tensor.Unsqueeze(phys)
	if err != nil {
		return Operand{}, err
	}
	return Operand{Tensor: t, BDim: bdim}, nil
}

// ExpandToLogicalShape broadcasts the operand to the logical shape. A batched
// operand keeps its batch axis, moved to the front.
func ExpandToLogicalShape(o Operand, shape tensor.Shape) (Operand, error) {
	t, err := MoveBatchDimToFront(o.Tensor, o.BDim)
	if err != nil {
		return Operand{}, err
	}
	target := shape
	bdim := NoBatchDim
	if o.IsBatched() {
		target = append(tensor.Shape{t.Size(0)}, shape...)
		if t, err = MaybePadToLogicalRank(t, 0, len(shape)); err != nil {
			return Operand{}, err
		}
		bdim = 0
	}
	if t, err = t.Expand(target); err != nil {
		return Operand{}, err
	}
	return Operand{Tensor: t, BDim: bdim}, nil
}
