package cpu

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/born-ml/vmap/internal/parallel"
	"github.com/born-ml/vmap/internal/tensor"
)

// binaryKernel describes one elementwise binary operation. Each function
// covers one dtype category; a nil function means the category is not
// supported.
type binaryKernel struct {
	name  string
	float func(x, y float64) float64
	f32   func(x, y float32) float32 // overrides float for Float32 results
	int   func(x, y int64) (int64, error)
	bool  func(x, y bool) bool

	// floatOnly promotes integral and bool results to tensor.DefaultFloat.
	floatOnly bool
}

func (k binaryKernel) resultType(a, b *tensor.RawTensor) tensor.DataType {
	dtype := tensor.ResultType(a, b)
	if k.floatOnly && !dtype.IsFloating() {
		return tensor.DefaultFloat
	}
	return dtype
}

func unsupported(op string, dtype tensor.DataType) error {
	return errors.Errorf("%s: not implemented for %s", op, dtype)
}

// binary broadcasts a and b, promotes them to a common dtype and applies k.
func (cpu *CPUBackend) binary(k binaryKernel, a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	shape, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		return nil, errors.Wrap(err, k.name)
	}
	return cpu.compute(k, k.resultType(a, b), shape, a, b)
}

func (cpu *CPUBackend) compute(k binaryKernel, dtype tensor.DataType, shape tensor.Shape, a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	av, err := a.Cast(dtype).Expand(shape)
	if err != nil {
		return nil, errors.Wrap(err, k.name)
	}
	bv, err := b.Cast(dtype).Expand(shape)
	if err != nil {
		return nil, errors.Wrap(err, k.name)
	}

	switch {
	case dtype == tensor.Float32 && k.f32 != nil:
		x, y := av.Contiguous().AsFloat32(), bv.Contiguous().AsFloat32()
		out := make([]float32, len(x))
		parallel.Range(len(out), func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = k.f32(x[i], y[i])
			}
		}, cpu.cfg.Parallel)
		return tensor.FromSlice(out, shape)

	case dtype.IsFloating():
		if k.float == nil {
			return nil, unsupported(k.name, dtype)
		}
		x, y := av.Float64s(), bv.Float64s()
		out := make([]float64, len(x))
		parallel.Range(len(out), func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = k.float(x[i], y[i])
			}
		}, cpu.cfg.Parallel)
		return tensor.FromFloat64s(out, shape, dtype)

	case dtype == tensor.Bool:
		if k.bool == nil {
			return nil, unsupported(k.name, dtype)
		}
		x, y := av.Bools(), bv.Bools()
		out := make([]bool, len(x))
		parallel.Range(len(out), func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = k.bool(x[i], y[i])
			}
		}, cpu.cfg.Parallel)
		return tensor.FromBools(out, shape, dtype)

	default:
		if k.int == nil {
			return nil, unsupported(k.name, dtype)
		}
		x, y := av.Int64s(), bv.Int64s()
		out := make([]int64, len(x))
		err := cpu.rangeErr(len(out), func(i int) error {
			v, err := k.int(x[i], y[i])
			out[i] = v
			return err
		})
		if err != nil {
			return nil, errors.Wrap(err, k.name)
		}
		return tensor.FromInt64s(out, shape, dtype)
	}
}

// rangeErr runs f for every index in [0, n) and returns the first error seen.
// A chunk stops at its first error.
func (cpu *CPUBackend) rangeErr(n int, f func(i int) error) error {
	var (
		mu    sync.Mutex
		first error
	)
	parallel.Range(n, func(start, end int) {
		for i := start; i < end; i++ {
			if err := f(i); err != nil {
				mu.Lock()
				if first == nil {
					first = err
				}
				mu.Unlock()
				return
			}
		}
	}, cpu.cfg.Parallel)
	return first
}

// WrapScalar turns a plain number into a zero-dim operand for x, so
// that the tensor-scalar overloads can reuse the tensor-tensor primitives.
// A number without a fractional part is taken as an integer literal.
//
// Integral numbers never change the dtype of a floating or integral x; a
// fractional number promotes integral and bool x to tensor.DefaultFloat; any
// number promotes bool x.
func WrapScalar(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	return wrapNumber(x, s, s == float64(int64(s)))
}

// WrapFloat is WrapScalar for a floating literal: even a whole number such
// as 2.0 promotes integral and bool x to tensor.DefaultFloat.
func WrapFloat(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	return wrapNumber(x, s, false)
}

func wrapNumber(x *tensor.RawTensor, s float64, integral bool) *tensor.RawTensor {
	switch {
	case x.DType().IsFloating():
		return tensor.Scalar(s)
	case integral:
		return tensor.Scalar(int64(s))
	default:
		return tensor.Scalar(float32(s))
	}
}
