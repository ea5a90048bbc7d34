package cpu

import (
	"math"

	"github.com/pkg/errors"

	"github.com/born-ml/vmap/internal/parallel"
	"github.com/born-ml/vmap/internal/tensor"
)

// ternaryKernel describes one elementwise operation of three operands. Bool
// results are not supported.
type ternaryKernel struct {
	name  string
	float func(x, y, z float64) float64
	int   func(x, y, z int64) (int64, error)
}

// ternary broadcasts a, b and c, promotes them to a common dtype and applies k.
func (cpu *CPUBackend) ternary(k ternaryKernel, a, b, c *tensor.RawTensor) (*tensor.RawTensor, error) {
	shape, err := tensor.BroadcastShapes(a.Shape(), b.Shape(), c.Shape())
	if err != nil {
		return nil, errors.Wrap(err, k.name)
	}
	dtype := tensor.ResultType(a, b, c)
	vs, err := expandAll(k.name, shape, a.Cast(dtype), b.Cast(dtype), c.Cast(dtype))
	if err != nil {
		return nil, err
	}

	switch {
	case dtype.IsFloating():
		if k.float == nil {
			return nil, unsupported(k.name, dtype)
		}
		x, y, z := vs[0].Float64s(), vs[1].Float64s(), vs[2].Float64s()
		out := make([]float64, len(x))
		parallel.For(len(out), func(i int) {
			out[i] = k.float(x[i], y[i], z[i])
		}, cpu.cfg.Parallel)
		return tensor.FromFloat64s(out, shape, dtype)

	case dtype.IsIntegral():
		if k.int == nil {
			return nil, unsupported(k.name, dtype)
		}
		x, y, z := vs[0].Int64s(), vs[1].Int64s(), vs[2].Int64s()
		out := make([]int64, len(x))
		err := cpu.rangeErr(len(out), func(i int) error {
			v, err := k.int(x[i], y[i], z[i])
			out[i] = v
			return err
		})
		if err != nil {
			return nil, errors.Wrap(err, k.name)
		}
		return tensor.FromInt64s(out, shape, dtype)
	}
	return nil, unsupported(k.name, dtype)
}

// Addcmul computes self + value * t1 * t2.
func (cpu *CPUBackend) Addcmul(self, t1, t2 *tensor.RawTensor, value float64) (*tensor.RawTensor, error) {
	if !tensor.ResultType(self, t1, t2).IsFloating() && value != math.Trunc(value) {
		return nil, errors.New("addcmul: for integral input tensors, argument value must not be a floating point number")
	}
	iv := int64(value)
	return cpu.ternary(ternaryKernel{
		name:  "addcmul",
		float: func(s, x, y float64) float64 { return s + value*x*y },
		int:   func(s, x, y int64) (int64, error) { return s + iv*x*y, nil },
	}, self, t1, t2)
}

// Addcdiv computes self + value * t1 / t2. Integer division is rejected.
func (cpu *CPUBackend) Addcdiv(self, t1, t2 *tensor.RawTensor, value float64) (*tensor.RawTensor, error) {
	if !tensor.ResultType(t1, t2).IsFloating() {
		return nil, errors.New("addcdiv: integer division with addcdiv is not supported, use floor_divide or div with a rounding mode")
	}
	return cpu.ternary(ternaryKernel{
		name:  "addcdiv",
		float: func(s, x, y float64) float64 { return s + value*x/y },
	}, self, t1, t2)
}

func lerp(start, end, weight float64) float64 {
	if math.Abs(weight) < 0.5 {
		return start + weight*(end-start)
	}
	return end - (end-start)*(1-weight)
}

var lerpKernel = ternaryKernel{name: "lerp", float: lerp}

// Lerp interpolates linearly from start towards end by weight. Only
// floating operands are supported.
func (cpu *CPUBackend) Lerp(start, end, weight *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.ternary(lerpKernel, start, end, weight)
}

var clampKernel = ternaryKernel{
	name:  "clamp",
	float: func(x, lo, hi float64) float64 { return math.Min(math.Max(x, lo), hi) },
	int:   func(x, lo, hi int64) (int64, error) { return min(max(x, lo), hi), nil },
}

// Clamp clamps x into [lo, hi] element-wise. Where lo > hi the result is hi.
func (cpu *CPUBackend) Clamp(x, lo, hi *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.ternary(clampKernel, x, lo, hi)
}
