package cpu

import (
	"github.com/pkg/errors"

	"github.com/born-ml/vmap/internal/tensor"
)

func pick[T any](cond []bool, x, y []T) []T {
	out := make([]T, len(cond))
	for i, c := range cond {
		if c {
			out[i] = x[i]
		} else {
			out[i] = y[i]
		}
	}
	return out
}

func filter[T any](mask []bool, x []T) []T {
	out := make([]T, 0, len(x))
	for i, m := range mask {
		if m {
			out = append(out, x[i])
		}
	}
	return out
}

func expandAll(op string, shape tensor.Shape, ts ...*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	out := make([]*tensor.RawTensor, len(ts))
	for i, t := range ts {
		v, err := t.Expand(shape)
		if err != nil {
			return nil, errors.Wrap(err, op)
		}
		out[i] = v
	}
	return out, nil
}

// Where selects x where cond is true and y elsewhere. All three operands
// broadcast together; x and y are promoted to a common dtype.
func (cpu *CPUBackend) Where(cond, x, y *tensor.RawTensor) (*tensor.RawTensor, error) {
	if cond.DType() != tensor.Bool {
		return nil, errors.Errorf("where expected condition to be a boolean tensor, but got a tensor with dtype %s", cond.DType())
	}
	shape, err := tensor.BroadcastShapes(cond.Shape(), x.Shape(), y.Shape())
	if err != nil {
		return nil, errors.Wrap(err, "where")
	}
	dtype := tensor.ResultType(x, y)
	vs, err := expandAll("where", shape, cond, x.Cast(dtype), y.Cast(dtype))
	if err != nil {
		return nil, err
	}

	c := vs[0].Bools()
	switch {
	case dtype.IsFloating():
		return tensor.FromFloat64s(pick(c, vs[1].Float64s(), vs[2].Float64s()), shape, dtype)
	case dtype == tensor.Bool:
		return tensor.FromBools(pick(c, vs[1].Bools(), vs[2].Bools()), shape, dtype)
	default:
		return tensor.FromInt64s(pick(c, vs[1].Int64s(), vs[2].Int64s()), shape, dtype)
	}
}

// MaskedSelect returns a new 1-D tensor with the elements of x where mask is
// true. x and mask broadcast together.
func (cpu *CPUBackend) MaskedSelect(x, mask *tensor.RawTensor) (*tensor.RawTensor, error) {
	if mask.DType() != tensor.Bool {
		return nil, errors.Errorf("masked_select: expected BoolTensor for mask, got %s", mask.DType())
	}
	shape, err := tensor.BroadcastShapes(x.Shape(), mask.Shape())
	if err != nil {
		return nil, errors.Wrap(err, "masked_select")
	}
	vs, err := expandAll("masked_select", shape, x, mask)
	if err != nil {
		return nil, err
	}

	m := vs[1].Bools()
	switch dtype := x.DType(); {
	case dtype.IsFloating():
		vals := filter(m, vs[0].Float64s())
		return tensor.FromFloat64s(vals, tensor.Shape{len(vals)}, dtype)
	case dtype == tensor.Bool:
		vals := filter(m, vs[0].Bools())
		return tensor.FromBools(vals, tensor.Shape{len(vals)}, dtype)
	default:
		vals := filter(m, vs[0].Int64s())
		return tensor.FromInt64s(vals, tensor.Shape{len(vals)}, dtype)
	}
}

// MaskedFill writes value into self wherever mask is true. mask must
// broadcast to the shape of self.
func (cpu *CPUBackend) MaskedFill(self, mask *tensor.RawTensor, value float64) error {
	if mask.DType() != tensor.Bool {
		return errors.Errorf("masked_fill_ only supports boolean masks, but got mask with dtype %s", mask.DType())
	}
	m, err := mask.Expand(self.Shape())
	if err != nil {
		return errors.Wrap(err, "masked_fill_")
	}
	fill, err := tensor.FromFloat64s([]float64{value}, tensor.Shape{}, tensor.Float64)
	if err != nil {
		return err
	}
	src, err := fill.Cast(self.DType()).Expand(self.Shape())
	if err != nil {
		return errors.Wrap(err, "masked_fill_")
	}

	cond := m.Bools()
	switch dtype := self.DType(); {
	case dtype.IsFloating():
		err = self.SetFloat64s(pick(cond, src.Float64s(), self.Float64s()))
	case dtype == tensor.Bool:
		err = self.SetBools(pick(cond, src.Bools(), self.Bools()))
	default:
		err = self.SetInt64s(pick(cond, src.Int64s(), self.Int64s()))
	}
	return errors.Wrap(err, "masked_fill_")
}
