package cpu

import (
	"github.com/pkg/errors"

	"github.com/born-ml/vmap/internal/parallel"
	"github.com/born-ml/vmap/internal/tensor"
)

// compareKernel is an elementwise predicate evaluated in the promoted dtype of
// its operands. Bool operands are compared as integers.
type compareKernel struct {
	name  string
	float func(x, y float64) bool
	int   func(x, y int64) bool
}

func (cpu *CPUBackend) compare(k compareKernel, a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	shape, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		return nil, errors.Wrap(err, k.name)
	}
	dtype := tensor.ResultType(a, b)
	av, err := a.Cast(dtype).Expand(shape)
	if err != nil {
		return nil, errors.Wrap(err, k.name)
	}
	bv, err := b.Cast(dtype).Expand(shape)
	if err != nil {
		return nil, errors.Wrap(err, k.name)
	}

	out := make([]bool, shape.NumElements())
	if dtype.IsFloating() {
		x, y := av.Float64s(), bv.Float64s()
		parallel.Range(len(out), func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = k.float(x[i], y[i])
			}
		}, cpu.cfg.Parallel)
	} else {
		x, y := av.Int64s(), bv.Int64s()
		parallel.Range(len(out), func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = k.int(x[i], y[i])
			}
		}, cpu.cfg.Parallel)
	}
	return tensor.FromBools(out, shape, tensor.Bool)
}

var (
	eqKernel = compareKernel{
		name:  "eq",
		float: func(x, y float64) bool { return x == y },
		int:   func(x, y int64) bool { return x == y },
	}
	neKernel = compareKernel{
		name:  "ne",
		float: func(x, y float64) bool { return x != y },
		int:   func(x, y int64) bool { return x != y },
	}
	gtKernel = compareKernel{
		name:  "gt",
		float: func(x, y float64) bool { return x > y },
		int:   func(x, y int64) bool { return x > y },
	}
	geKernel = compareKernel{
		name:  "ge",
		float: func(x, y float64) bool { return x >= y },
		int:   func(x, y int64) bool { return x >= y },
	}
	ltKernel = compareKernel{
		name:  "lt",
		float: func(x, y float64) bool { return x < y },
		int:   func(x, y int64) bool { return x < y },
	}
	leKernel = compareKernel{
		name:  "le",
		float: func(x, y float64) bool { return x <= y },
		int:   func(x, y int64) bool { return x <= y },
	}
)

// Eq computes a == b.
func (cpu *CPUBackend) Eq(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.compare(eqKernel, a, b)
}

// Ne computes a != b.
func (cpu *CPUBackend) Ne(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.compare(neKernel, a, b)
}

// Gt computes a > b.
func (cpu *CPUBackend) Gt(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.compare(gtKernel, a, b)
}

// Ge computes a >= b.
func (cpu *CPUBackend) Ge(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.compare(geKernel, a, b)
}

// Lt computes a < b.
func (cpu *CPUBackend) Lt(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.compare(ltKernel, a, b)
}

// Le computes a <= b.
func (cpu *CPUBackend) Le(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.compare(leKernel, a, b)
}

// logical applies f to the truth values of a and b. The result is always
// Bool.
func (cpu *CPUBackend) logical(name string, f func(x, y bool) bool, a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	shape, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	av, err := a.Expand(shape)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	bv, err := b.Expand(shape)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	x, y := av.Bools(), bv.Bools()
	out := make([]bool, len(x))
	parallel.Range(len(out), func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = f(x[i], y[i])
		}
	}, cpu.cfg.Parallel)
	return tensor.FromBools(out, shape, tensor.Bool)
}

// LogicalAnd computes a && b on the truth values of the operands.
func (cpu *CPUBackend) LogicalAnd(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.logical("logical_and", func(x, y bool) bool { return x && y }, a, b)
}

// LogicalOr computes a || b on the truth values of the operands.
func (cpu *CPUBackend) LogicalOr(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.logical("logical_or", func(x, y bool) bool { return x || y }, a, b)
}

// LogicalXor computes a != b on the truth values of the operands.
func (cpu *CPUBackend) LogicalXor(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.logical("logical_xor", func(x, y bool) bool { return x != y }, a, b)
}
