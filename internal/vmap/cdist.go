package vmap

import "github.com/born-ml/vmap/internal/tensor"

// CdistBackwardOp is the unbatched backward primitive of the pairwise
// distance: it returns the gradient with respect to x1.
type CdistBackwardOp func(grad, x1, x2 *tensor.RawTensor, p float64, dist *tensor.RawTensor) (*tensor.RawTensor, error)

// CdistBackwardRule is the batching rule of a CdistBackwardOp.
type CdistBackwardRule func(grad, x1, x2 Operand, p float64, dist Operand) (Operand, error)

// CdistBackward derives the batching rule of the pairwise-distance backward.
//
// The primitive expects grad and dist to have exactly the batched forward
// shape. x1 gets a batch axis whenever dist has one, and grad and dist get
// one whenever x1 or x2 has one, each broadcast to the batch size and made
// contiguous. Without this the primitive sees an unbatched grad against a
// batched forward pass.
func CdistBackward(op CdistBackwardOp) CdistBackwardRule {
	return func(grad, x1, x2 Operand, p float64, dist Operand) (Operand, error) {
		var err error
		if dist.IsBatched() && !x1.IsBatched() {
			if x1, err = ensureContiguousBatch(x1, dist.BatchSize()); err != nil {
				return Operand{}, err
			}
		}

		a, b, err := AlignPair(x1, x2)
		if err != nil {
			return Operand{}, err
		}
		if !anyBatched(x1, x2) {
			out, err := op(grad.Tensor, a, b, p, dist.Tensor)
			if err != nil {
				return Operand{}, err
			}
			return Unbatched(out), nil
		}

		size := x1.BatchSize()
		if !x1.IsBatched() {
			size = x2.BatchSize()
		}
		g, err := ensureContiguousBatch(grad, size)
		if err != nil {
			return Operand{}, err
		}
		d, err := ensureContiguousBatch(dist, size)
		if err != nil {
			return Operand{}, err
		}
		out, err := op(g.Tensor, a, b, p, d.Tensor)
		if err != nil {
			return Operand{}, err
		}
		return Operand{Tensor: out, BDim: 0}, nil
	}
}

// ensureContiguousBatch moves the batch axis of o to the front, adding one of
// batchSize if missing, and materializes the result.
func ensureContiguousBatch(o Operand, batchSize int) (Operand, error) {
	if o.IsBatched() {
		t, err := MoveBatchDimToFront(o.Tensor, o.BDim)
		if err != nil {
			return Operand{}, err
		}
		return Operand{Tensor: t, BDim: 0}, nil
	}
	o, err := EnsureHasBatchDim(o, batchSize)
	if err != nil {
		return Operand{}, err
	}
	o.Tensor = o.Tensor.Contiguous()
	return o, nil
}
