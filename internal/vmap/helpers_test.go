package vmap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/vmap/internal/backend/cpu"
	"github.com/born-ml/vmap/internal/parallel"
	"github.com/born-ml/vmap/internal/tensor"
)

func newBackend() *cpu.CPUBackend {
	return cpu.NewWithConfig(cpu.Config{Parallel: parallel.Sequential(), Seed: 7})
}

func arange(t *testing.T, dtype tensor.DataType, shape ...int) *tensor.RawTensor {
	t.Helper()
	s := tensor.Shape(shape)
	vals := make([]float64, s.NumElements())
	for i := range vals {
		vals[i] = float64(i)
	}
	raw, err := tensor.FromFloat64s(vals, s, dtype)
	require.NoError(t, err)
	return raw
}

func fromSlice[T tensor.DType](t *testing.T, data []T, shape ...int) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromSlice(data, tensor.Shape(shape))
	require.NoError(t, err)
	return raw
}

// slice returns batch element i of a batched operand, or the operand itself
// when it is unbatched.
func slice(t *testing.T, o Operand, i int) *tensor.RawTensor {
	t.Helper()
	if !o.IsBatched() {
		return o.Tensor
	}
	s, err := o.Tensor.Select(int(o.BDim), i)
	require.NoError(t, err)
	return s
}

type noParams = struct{}

func binary(f func(a, b *tensor.RawTensor) (*tensor.RawTensor, error)) BinaryOp[noParams] {
	return func(a, b *tensor.RawTensor, _ noParams) (*tensor.RawTensor, error) {
		return f(a, b)
	}
}
