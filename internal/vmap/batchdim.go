// Package vmap implements the batching rules of the vectorizing map.
//
// A rule receives every operand unwrapped into an Operand, a raw array paired
// with the position of its batch axis at the current level. It aligns the
// operands so that the unbatched primitive can be called once for the whole
// batch, calls it, and reports where the batch axis of the result lives.
// Every rule that sees a batched input returns its result with the batch axis
// at position 0.
package vmap

import (
	"strconv"

	"github.com/born-ml/vmap/internal/tensor"
)

// BatchDim is the physical position of the batch axis of an array, or
// NoBatchDim when the array is not batched at the current level.
type BatchDim int

// NoBatchDim marks an array without a batch axis.
const NoBatchDim BatchDim = -1

// IsBatched reports whether a batch axis is present.
func (d BatchDim) IsBatched() bool {
	return d >= 0
}

func (d BatchDim) String() string {
	if !d.IsBatched() {
		return "none"
	}
	return strconv.Itoa(int(d))
}

// Operand is an unwrapped array together with its batch axis.
type Operand struct {
	Tensor *tensor.RawTensor
	BDim   BatchDim
}

// Batched pairs t with the batch axis bdim.
func Batched(t *tensor.RawTensor, bdim int) Operand {
	return Operand{Tensor: t, BDim: BatchDim(bdim)}
}

// Unbatched wraps t as an operand without a batch axis.
func Unbatched(t *tensor.RawTensor) Operand {
	return Operand{Tensor: t, BDim: NoBatchDim}
}

// IsBatched reports whether the operand carries a batch axis.
func (o Operand) IsBatched() bool {
	return o.BDim.IsBatched()
}

// LogicalRank is the rank of the operand as the user program sees it.
func (o Operand) LogicalRank() int {
	return RankWithoutBatchDim(o.Tensor, o.BDim)
}

// LogicalShape is the shape of the operand without its batch axis.
func (o Operand) LogicalShape() tensor.Shape {
	shape := o.Tensor.Shape()
	if !o.IsBatched() {
		return shape
	}
	out := make(tensor.Shape, 0, len(shape)-1)
	out = append(out, shape[:o.BDim]...)
	return append(out, shape[o.BDim+1:]...)
}

// BatchSize returns the size of the batch axis, or 0 for unbatched operands.
func (o Operand) BatchSize() int {
	if !o.IsBatched() {
		return 0
	}
	return o.Tensor.Size(int(o.BDim))
}

// anyBatched reports whether at least one operand is batched.
func anyBatched(ops ...Operand) bool {
	for _, o := range ops {
		if o.IsBatched() {
			return true
		}
	}
	return false
}

// result pairs out with batch axis 0 when any input was batched.
func result(out *tensor.RawTensor, inputs ...Operand) Operand {
	if anyBatched(inputs...) {
		return Operand{Tensor: out, BDim: 0}
	}
	return Unbatched(out)
}
