package cpu

import (
	"github.com/pkg/errors"

	"github.com/born-ml/vmap/internal/tensor"
)

// inplace applies k to self and other and writes the result back into self.
// other must broadcast to self's shape and the promoted result type must be
// castable to self's dtype.
func (cpu *CPUBackend) inplace(k binaryKernel, self, other *tensor.RawTensor) error {
	shape, err := tensor.BroadcastShapes(self.Shape(), other.Shape())
	if err != nil {
		return errors.Wrap(err, k.name)
	}
	if !shape.Equal(self.Shape()) {
		return errors.Errorf("%s: output with shape %v doesn't match the broadcast shape %v", k.name, self.Shape(), shape)
	}
	dtype := k.resultType(self, other)
	if !tensor.CanCast(dtype, self.DType()) {
		return errors.Errorf("%s: result type %s can't be cast to the desired output type %s", k.name, dtype, self.DType())
	}
	res, err := cpu.compute(k, dtype, shape, self, other)
	if err != nil {
		return err
	}
	return errors.Wrap(self.CopyFrom(res), k.name)
}

// AddInplace computes self += alpha*other.
func (cpu *CPUBackend) AddInplace(self, other *tensor.RawTensor, alpha float64) error {
	k := addKernel("add_", alpha)
	if err := checkAlpha(k.name, k.resultType(self, other), alpha); err != nil {
		return err
	}
	return cpu.inplace(k, self, other)
}

// SubInplace computes self -= alpha*other.
func (cpu *CPUBackend) SubInplace(self, other *tensor.RawTensor, alpha float64) error {
	k := subKernel("sub_", alpha)
	if err := checkAlpha(k.name, k.resultType(self, other), alpha); err != nil {
		return err
	}
	return cpu.inplace(k, self, other)
}

// MulInplace computes self *= other.
func (cpu *CPUBackend) MulInplace(self, other *tensor.RawTensor) error {
	k := mulKernel
	k.name = "mul_"
	return cpu.inplace(k, self, other)
}

// DivInplace computes self /= other with the given rounding mode.
func (cpu *CPUBackend) DivInplace(self, other *tensor.RawTensor, rounding string) error {
	k, err := divKernel("div_", rounding)
	if err != nil {
		return err
	}
	return cpu.inplace(k, self, other)
}

// ClampMinInplace clamps self from below by other.
func (cpu *CPUBackend) ClampMinInplace(self, other *tensor.RawTensor) error {
	k := maximumKernel
	k.name = "clamp_min_"
	return cpu.inplace(k, self, other)
}

// ClampMaxInplace clamps self from above by other.
func (cpu *CPUBackend) ClampMaxInplace(self, other *tensor.RawTensor) error {
	k := minimumKernel
	k.name = "clamp_max_"
	return cpu.inplace(k, self, other)
}

func (cpu *CPUBackend) logicalInplace(name string, op func(a, b *tensor.RawTensor) (*tensor.RawTensor, error), self, other *tensor.RawTensor) error {
	res, err := op(self, other)
	if err != nil {
		return errors.Wrap(err, name)
	}
	if !res.Shape().Equal(self.Shape()) {
		return errors.Errorf("%s: output with shape %v doesn't match the broadcast shape %v", name, self.Shape(), res.Shape())
	}
	return errors.Wrap(self.CopyFrom(res), name)
}

// LogicalAndInplace stores logical_and(self, other) into self.
func (cpu *CPUBackend) LogicalAndInplace(self, other *tensor.RawTensor) error {
	return cpu.logicalInplace("logical_and_", cpu.LogicalAnd, self, other)
}

// LogicalOrInplace stores logical_or(self, other) into self.
func (cpu *CPUBackend) LogicalOrInplace(self, other *tensor.RawTensor) error {
	return cpu.logicalInplace("logical_or_", cpu.LogicalOr, self, other)
}

// LogicalXorInplace stores logical_xor(self, other) into self.
func (cpu *CPUBackend) LogicalXorInplace(self, other *tensor.RawTensor) error {
	return cpu.logicalInplace("logical_xor_", cpu.LogicalXor, self, other)
}

// CopyInto copies src into self, broadcasting src and converting its dtype.
func (cpu *CPUBackend) CopyInto(self, src *tensor.RawTensor) error {
	v, err := src.Expand(self.Shape())
	if err != nil {
		return errors.Wrap(err, "copy_")
	}
	return errors.Wrap(self.CopyFrom(v), "copy_")
}
