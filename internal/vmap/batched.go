package vmap

import (
	"fmt"

	"github.com/born-ml/vmap/internal/tensor"
)

// Value is what user code holds under vmap: a plain array or an array
// batched at some level. Shape is always the logical shape.
type Value interface {
	Shape() tensor.Shape
	DType() tensor.DataType
}

// BatchedTensor is an array whose batch axis belongs to a vmap level.
type BatchedTensor struct {
	value *tensor.RawTensor
	bdim  int
	level int
}

// MakeBatched wraps t as batched along bdim at level. Unbatched arrays are
// returned as they are.
func MakeBatched(t *tensor.RawTensor, bdim BatchDim, level int) Value {
	if !bdim.IsBatched() {
		return t
	}
	return &BatchedTensor{value: t, bdim: int(bdim), level: level}
}

// Value returns the physical array, batch axis included.
func (b *BatchedTensor) Value() *tensor.RawTensor { return b.value }

// BatchDim returns the physical position of the batch axis.
func (b *BatchedTensor) BatchDim() BatchDim { return BatchDim(b.bdim) }

// Level returns the vmap level the batch axis belongs to.
func (b *BatchedTensor) Level() int { return b.level }

// BatchSize returns the size of the batch axis.
func (b *BatchedTensor) BatchSize() int { return b.value.Size(b.bdim) }

// Shape returns the logical shape.
func (b *BatchedTensor) Shape() tensor.Shape {
	return Operand{Tensor: b.value, BDim: BatchDim(b.bdim)}.LogicalShape()
}

// DType returns the element type.
func (b *BatchedTensor) DType() tensor.DataType { return b.value.DType() }

func (b *BatchedTensor) String() string {
	return fmt.Sprintf("BatchedTensor(lvl=%d, bdim=%d, value=%v)", b.level, b.bdim, b.value)
}

// Unwrap strips the batching of v at level. Plain arrays come back
// unbatched. Only a single level is supported: a value batched at another
// level is a usage error.
func Unwrap(v Value, level int) (Operand, error) {
	switch v := v.(type) {
	case *tensor.RawTensor:
		return Unbatched(v), nil
	case *BatchedTensor:
		if v.level != level {
			return Operand{}, usageError(CodeLevelMismatch, "",
				"value is batched at level %d but the current level is %d; nested vmap is not supported", v.level, level)
		}
		return Operand{Tensor: v.value, BDim: BatchDim(v.bdim)}, nil
	case nil:
		return Operand{}, fmt.Errorf("vmap: unwrap of nil value")
	default:
		return Operand{}, fmt.Errorf("vmap: cannot unwrap %T", v)
	}
}
