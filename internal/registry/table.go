package registry

import (
	"github.com/pkg/errors"

	"github.com/born-ml/vmap/internal/backend/cpu"
	"github.com/born-ml/vmap/internal/tensor"
	"github.com/born-ml/vmap/internal/vmap"
)

type pairFunc func(a, b *tensor.RawTensor) (*tensor.RawTensor, error)

type pairInplaceFunc func(self, other *tensor.RawTensor) error

type tripleFunc func(a, b, c *tensor.RawTensor) (*tensor.RawTensor, error)

// wrapNumber wraps v as an integer literal when it is whole and float is
// unset, and as a floating literal otherwise.
func wrapNumber(x *tensor.RawTensor, v float64, float bool) *tensor.RawTensor {
	if float {
		return cpu.WrapFloat(x, v)
	}
	return cpu.WrapScalar(x, v)
}

func plain(f pairFunc) vmap.BinaryOp[NoParams] {
	return func(a, b *tensor.RawTensor, _ NoParams) (*tensor.RawTensor, error) {
		return f(a, b)
	}
}

// tensorScalar binds the number as the second operand.
func tensorScalar(f pairFunc) vmap.UnaryOp[Scalar] {
	return func(x *tensor.RawTensor, p Scalar) (*tensor.RawTensor, error) {
		return f(x, wrapNumber(x, p.Value, p.Float))
	}
}

// scalarTensor binds the number as the first operand.
func scalarTensor(f pairFunc) vmap.UnaryOp[Scalar] {
	return func(x *tensor.RawTensor, p Scalar) (*tensor.RawTensor, error) {
		return f(wrapNumber(x, p.Value, p.Float), x)
	}
}

func triple(f tripleFunc) vmap.VariadicOp[NoParams] {
	return func(ts []*tensor.RawTensor, _ NoParams) (*tensor.RawTensor, error) {
		return f(ts[0], ts[1], ts[2])
	}
}

func plainInplace(f pairInplaceFunc) vmap.InplaceOp[NoParams] {
	return func(self, other *tensor.RawTensor, _ NoParams) error {
		return f(self, other)
	}
}

func scalarInplace(f pairInplaceFunc) vmap.UnaryInplaceOp[Scalar] {
	return func(self *tensor.RawTensor, p Scalar) error {
		return f(self, wrapNumber(self, p.Value, p.Float))
	}
}

func registerArithmetic(r *Registry, b *cpu.CPUBackend) {
	alpha := Alpha{Alpha: 1}
	scalarAlpha := ScalarAlpha{Alpha: 1}

	binary[Alpha](r, "add.Tensor", alpha, func(x, y *tensor.RawTensor, p Alpha) (*tensor.RawTensor, error) {
		return b.Add(x, y, p.Alpha)
	})
	unary[ScalarAlpha](r, "add.Scalar", scalarAlpha, func(x *tensor.RawTensor, p ScalarAlpha) (*tensor.RawTensor, error) {
		return b.Add(x, wrapNumber(x, p.Value, p.Float), p.Alpha)
	})
	binary[Alpha](r, "sub.Tensor", alpha, func(x, y *tensor.RawTensor, p Alpha) (*tensor.RawTensor, error) {
		return b.Sub(x, y, p.Alpha)
	})
	unary[ScalarAlpha](r, "sub.Scalar", scalarAlpha, func(x *tensor.RawTensor, p ScalarAlpha) (*tensor.RawTensor, error) {
		return b.Sub(x, wrapNumber(x, p.Value, p.Float), p.Alpha)
	})
	binary[Alpha](r, "rsub.Tensor", alpha, func(x, y *tensor.RawTensor, p Alpha) (*tensor.RawTensor, error) {
		return b.Rsub(x, y, p.Alpha)
	})
	unary[ScalarAlpha](r, "rsub.Scalar", scalarAlpha, func(x *tensor.RawTensor, p ScalarAlpha) (*tensor.RawTensor, error) {
		return b.Rsub(x, wrapNumber(x, p.Value, p.Float), p.Alpha)
	})

	binary(r, "mul.Tensor", NoParams{}, plain(b.Mul))
	unary(r, "mul.Scalar", Scalar{}, tensorScalar(b.Mul))

	binary[NoParams](r, "div.Tensor", NoParams{}, func(x, y *tensor.RawTensor, _ NoParams) (*tensor.RawTensor, error) {
		return b.Div(x, y, cpu.RoundNone)
	})
	binary[Rounding](r, "div.Tensor_mode", Rounding{}, func(x, y *tensor.RawTensor, p Rounding) (*tensor.RawTensor, error) {
		return b.Div(x, y, p.Mode)
	})
	unary[Scalar](r, "div.Scalar", Scalar{}, func(x *tensor.RawTensor, p Scalar) (*tensor.RawTensor, error) {
		return b.Div(x, wrapNumber(x, p.Value, p.Float), cpu.RoundNone)
	})
	unary[ScalarRounding](r, "div.Scalar_mode", ScalarRounding{}, func(x *tensor.RawTensor, p ScalarRounding) (*tensor.RawTensor, error) {
		return b.Div(x, wrapNumber(x, p.Value, p.Float), p.Mode)
	})

	binary(r, "floor_divide", NoParams{}, plain(b.FloorDivide))
	unary(r, "floor_divide.Scalar", Scalar{}, tensorScalar(b.FloorDivide))
	binary(r, "fmod.Tensor", NoParams{}, plain(b.Fmod))
	unary(r, "fmod.Scalar", Scalar{}, tensorScalar(b.Fmod))
	binary(r, "remainder.Tensor", NoParams{}, plain(b.Remainder))
	unary(r, "remainder.Scalar", Scalar{}, tensorScalar(b.Remainder))
	unary(r, "remainder.Scalar_Tensor", Scalar{}, scalarTensor(b.Remainder))
	binary(r, "pow.Tensor_Tensor", NoParams{}, plain(b.Pow))
	unary(r, "pow.Tensor_Scalar", Scalar{}, tensorScalar(b.Pow))
	unary(r, "pow.Scalar", Scalar{}, scalarTensor(b.Pow))

	binary(r, "atan2", NoParams{}, plain(b.Atan2))
	binary(r, "maximum", NoParams{}, plain(b.Maximum))
	binary(r, "minimum", NoParams{}, plain(b.Minimum))
	binary(r, "fmax", NoParams{}, plain(b.Fmax))
	binary(r, "fmin", NoParams{}, plain(b.Fmin))
	binary(r, "clamp_min.Tensor", NoParams{}, plain(b.ClampMin))
	unary(r, "clamp_min", Scalar{}, tensorScalar(b.ClampMin))
	binary(r, "clamp_max.Tensor", NoParams{}, plain(b.ClampMax))
	unary(r, "clamp_max", Scalar{}, tensorScalar(b.ClampMax))
	unary[ClampBounds](r, "clamp", ClampBounds{}, func(x *tensor.RawTensor, p ClampBounds) (*tensor.RawTensor, error) {
		if p.Min == nil && p.Max == nil {
			return nil, errors.New("clamp: at least one of 'min' or 'max' must not be None")
		}
		out := x
		var err error
		if p.Min != nil {
			if out, err = b.ClampMin(out, wrapNumber(x, *p.Min, p.Float)); err != nil {
				return nil, err
			}
		}
		if p.Max != nil {
			if out, err = b.ClampMax(out, wrapNumber(out, *p.Max, p.Float)); err != nil {
				return nil, err
			}
		}
		return out, nil
	})
	binary(r, "hypot", NoParams{}, plain(b.Hypot))
	binary(r, "logaddexp", NoParams{}, plain(b.Logaddexp))
	binary(r, "logaddexp2", NoParams{}, plain(b.Logaddexp2))
	binary(r, "copysign.Tensor", NoParams{}, plain(b.Copysign))
	unary(r, "copysign.Scalar", Scalar{}, tensorScalar(b.Copysign))
	binary(r, "nextafter", NoParams{}, plain(b.Nextafter))
	binary(r, "heaviside", NoParams{}, plain(b.Heaviside))
	binary(r, "gcd", NoParams{}, plain(b.Gcd))
	binary(r, "lcm", NoParams{}, plain(b.Lcm))
	binary(r, "xlogy.Tensor", NoParams{}, plain(b.Xlogy))
	unary(r, "xlogy.Scalar_Other", Scalar{}, tensorScalar(b.Xlogy))
	unary(r, "xlogy.Scalar_Self", Scalar{}, scalarTensor(b.Xlogy))

	binary(r, "bitwise_and.Tensor", NoParams{}, plain(b.BitwiseAnd))
	unary(r, "bitwise_and.Scalar", Scalar{}, tensorScalar(b.BitwiseAnd))
	binary(r, "bitwise_or.Tensor", NoParams{}, plain(b.BitwiseOr))
	unary(r, "bitwise_or.Scalar", Scalar{}, tensorScalar(b.BitwiseOr))
	binary(r, "bitwise_xor.Tensor", NoParams{}, plain(b.BitwiseXor))
	unary(r, "bitwise_xor.Scalar", Scalar{}, tensorScalar(b.BitwiseXor))
	for _, sh := range []struct {
		name string
		op   pairFunc
	}{
		{"bitwise_left_shift", b.BitwiseLeftShift},
		{"bitwise_right_shift", b.BitwiseRightShift},
	} {
		binary(r, sh.name+".Tensor", NoParams{}, plain(sh.op))
		unary(r, sh.name+".Tensor_Scalar", Scalar{}, tensorScalar(sh.op))
		unary(r, sh.name+".Scalar_Tensor", Scalar{}, scalarTensor(sh.op))
	}
	binary(r, "__lshift__.Tensor", NoParams{}, plain(b.BitwiseLeftShift))
	unary(r, "__lshift__.Scalar", Scalar{}, tensorScalar(b.BitwiseLeftShift))
	binary(r, "__rshift__.Tensor", NoParams{}, plain(b.BitwiseRightShift))
	unary(r, "__rshift__.Scalar", Scalar{}, tensorScalar(b.BitwiseRightShift))

	binary(r, "sigmoid_backward", NoParams{}, plain(b.SigmoidBackward))
	binary(r, "tanh_backward", NoParams{}, plain(b.TanhBackward))
	binary[Threshold](r, "threshold_backward", Threshold{}, func(grad, input *tensor.RawTensor, p Threshold) (*tensor.RawTensor, error) {
		return b.ThresholdBackward(grad, input, p.Threshold)
	})
	binary[Slope](r, "leaky_relu_backward", Slope{Slope: 0.01}, func(grad, input *tensor.RawTensor, p Slope) (*tensor.RawTensor, error) {
		return b.LeakyReluBackward(grad, input, p.Slope)
	})
	binary[Bounds](r, "hardtanh_backward", Bounds{Min: -1, Max: 1}, func(grad, input *tensor.RawTensor, p Bounds) (*tensor.RawTensor, error) {
		return b.HardtanhBackward(grad, input, p.Min, p.Max)
	})

	binary(r, "hardsigmoid_backward", NoParams{}, plain(b.HardsigmoidBackward))
	binary(r, "hardswish_backward", NoParams{}, plain(b.HardswishBackward))
	binary[Lambda](r, "hardshrink_backward", Lambda{Lambd: 0.5}, func(grad, input *tensor.RawTensor, p Lambda) (*tensor.RawTensor, error) {
		return b.HardshrinkBackward(grad, input, p.Lambd)
	})
	binary[Lambda](r, "softshrink_backward", Lambda{Lambd: 0.5}, func(grad, input *tensor.RawTensor, p Lambda) (*tensor.RawTensor, error) {
		return b.SoftshrinkBackward(grad, input, p.Lambd)
	})
	binary[Gelu](r, "gelu_backward", Gelu{Approximate: "none"}, func(grad, input *tensor.RawTensor, p Gelu) (*tensor.RawTensor, error) {
		return b.GeluBackward(grad, input, p.Approximate)
	})
	binary[Logit](r, "logit_backward", Logit{}, func(grad, input *tensor.RawTensor, p Logit) (*tensor.RawTensor, error) {
		return b.LogitBackward(grad, input, p.Eps)
	})

	binary[PNorm](r, "_cdist_forward", PNorm{P: 2}, func(x1, x2 *tensor.RawTensor, p PNorm) (*tensor.RawTensor, error) {
		return b.Cdist(x1, x2, p.P)
	})
}

func registerComparisons(r *Registry, b *cpu.CPUBackend) {
	for _, c := range []struct {
		name string
		op   pairFunc
	}{
		{"eq", b.Eq},
		{"ne", b.Ne},
		{"gt", b.Gt},
		{"ge", b.Ge},
		{"lt", b.Lt},
		{"le", b.Le},
	} {
		comparison(r, c.name+".Tensor", NoParams{}, plain(c.op))
		unary(r, c.name+".Scalar", Scalar{}, tensorScalar(c.op))
	}

	comparison(r, "logical_and", NoParams{}, plain(b.LogicalAnd))
	comparison(r, "logical_or", NoParams{}, plain(b.LogicalOr))
	comparison(r, "logical_xor", NoParams{}, plain(b.LogicalXor))
}

func registerInplace(r *Registry, b *cpu.CPUBackend) {
	alpha := Alpha{Alpha: 1}
	scalarAlpha := ScalarAlpha{Alpha: 1}

	inplace[Alpha](r, "add_.Tensor", alpha, func(self, other *tensor.RawTensor, p Alpha) error {
		return b.AddInplace(self, other, p.Alpha)
	})
	unaryInplace[ScalarAlpha](r, "add_.Scalar", scalarAlpha, func(self *tensor.RawTensor, p ScalarAlpha) error {
		return b.AddInplace(self, wrapNumber(self, p.Value, p.Float), p.Alpha)
	})
	inplace[Alpha](r, "sub_.Tensor", alpha, func(self, other *tensor.RawTensor, p Alpha) error {
		return b.SubInplace(self, other, p.Alpha)
	})
	unaryInplace[ScalarAlpha](r, "sub_.Scalar", scalarAlpha, func(self *tensor.RawTensor, p ScalarAlpha) error {
		return b.SubInplace(self, wrapNumber(self, p.Value, p.Float), p.Alpha)
	})
	inplace(r, "mul_.Tensor", NoParams{}, plainInplace(b.MulInplace))
	unaryInplace(r, "mul_.Scalar", Scalar{}, scalarInplace(b.MulInplace))

	inplace[NoParams](r, "div_.Tensor", NoParams{}, func(self, other *tensor.RawTensor, _ NoParams) error {
		return b.DivInplace(self, other, cpu.RoundNone)
	})
	inplace[Rounding](r, "div_.Tensor_mode", Rounding{}, func(self, other *tensor.RawTensor, p Rounding) error {
		return b.DivInplace(self, other, p.Mode)
	})
	unaryInplace[Scalar](r, "div_.Scalar", Scalar{}, func(self *tensor.RawTensor, p Scalar) error {
		return b.DivInplace(self, wrapNumber(self, p.Value, p.Float), cpu.RoundNone)
	})
	unaryInplace[ScalarRounding](r, "div_.Scalar_mode", ScalarRounding{}, func(self *tensor.RawTensor, p ScalarRounding) error {
		return b.DivInplace(self, wrapNumber(self, p.Value, p.Float), p.Mode)
	})

	inplace(r, "clamp_min_.Tensor", NoParams{}, plainInplace(b.ClampMinInplace))
	unaryInplace(r, "clamp_min_", Scalar{}, scalarInplace(b.ClampMinInplace))
	inplace(r, "clamp_max_.Tensor", NoParams{}, plainInplace(b.ClampMaxInplace))
	unaryInplace(r, "clamp_max_", Scalar{}, scalarInplace(b.ClampMaxInplace))

	inplace(r, "logical_and_", NoParams{}, plainInplace(b.LogicalAndInplace))
	inplace(r, "logical_or_", NoParams{}, plainInplace(b.LogicalOrInplace))
	inplace(r, "logical_xor_", NoParams{}, plainInplace(b.LogicalXorInplace))

	inplace[Scalar](r, "masked_fill_.Scalar", Scalar{}, func(self, mask *tensor.RawTensor, p Scalar) error {
		return b.MaskedFill(self, mask, p.Value)
	})
	inplace(r, "copy_", NoParams{}, plainInplace(b.CopyInto))
}

func registerSpecial(r *Registry, b *cpu.CPUBackend) {
	random(r, "normal.Tensor_Tensor", NoParams{}, plain(b.Normal))
	random(r, "binomial", NoParams{}, plain(b.Binomial))

	ternary(r, "_s_where", KindWhere, b.Where, vmap.Where(b.Where))
	ternary(r, "where.self", KindDecomposition, b.Where, vmap.WhereBroadcast(b.Where))

	selectRule := vmap.MaskedSelect(b.MaskedSelect)
	e := newEntry("masked_select", KindMaskedSelect, 2, NoParams{})
	e.Rule = func(c Call) (vmap.Operand, error) {
		return selectRule(c.Args[0], c.Args[1])
	}
	e.Primitive = func(args []*tensor.RawTensor, _ any) (*tensor.RawTensor, error) {
		return b.MaskedSelect(args[0], args[1])
	}
	r.add(e)

	registerCdistBackward(r, b)
	registerAddr(r, b)
}

// registerVariadic binds the pointwise operations whose rule aligns any
// number of array operands.
func registerVariadic(r *Registry, b *cpu.CPUBackend) {
	variadic[Coefficient](r, "addcmul", 3, Coefficient{Value: 1}, func(ts []*tensor.RawTensor, p Coefficient) (*tensor.RawTensor, error) {
		return b.Addcmul(ts[0], ts[1], ts[2], p.Value)
	})
	variadic[Coefficient](r, "addcdiv", 3, Coefficient{Value: 1}, func(ts []*tensor.RawTensor, p Coefficient) (*tensor.RawTensor, error) {
		return b.Addcdiv(ts[0], ts[1], ts[2], p.Value)
	})
	variadic(r, "lerp.Tensor", 3, NoParams{}, triple(b.Lerp))
	variadic[Weight](r, "lerp.Scalar", 2, Weight{}, func(ts []*tensor.RawTensor, p Weight) (*tensor.RawTensor, error) {
		return b.Lerp(ts[0], ts[1], tensor.Scalar(p.Weight))
	})
	variadic(r, "clamp.Tensor", 3, NoParams{}, triple(b.Clamp))

	elu := Elu{Alpha: 1, Scale: 1, InputScale: 1}
	variadic[Elu](r, "elu_backward", 2, elu, func(ts []*tensor.RawTensor, p Elu) (*tensor.RawTensor, error) {
		return b.EluBackward(ts[0], ts[1], p.Alpha, p.Scale, p.InputScale, p.IsResult)
	})
	variadic[Softplus](r, "softplus_backward", 2, Softplus{Beta: 1, Threshold: 20}, func(ts []*tensor.RawTensor, p Softplus) (*tensor.RawTensor, error) {
		return b.SoftplusBackward(ts[0], ts[1], p.Beta, p.Threshold)
	})
}

// _cdist_backward(grad, x1, x2, cdist; p)
func registerCdistBackward(r *Registry, b *cpu.CPUBackend) {
	defaults := PNorm{P: 2}
	rule := vmap.CdistBackward(b.CdistBackward)
	e := newEntry("_cdist_backward", KindCdistBackward, 4, defaults)
	e.Rule = func(c Call) (vmap.Operand, error) {
		p, err := paramsAs(e.Key, c.Params, defaults)
		if err != nil {
			return vmap.Operand{}, err
		}
		return rule(c.Args[0], c.Args[1], c.Args[2], p.P, c.Args[3])
	}
	e.Primitive = func(args []*tensor.RawTensor, params any) (*tensor.RawTensor, error) {
		p, err := paramsAs(e.Key, params, defaults)
		if err != nil {
			return nil, err
		}
		return b.CdistBackward(args[0], args[1], args[2], p.P, args[3])
	}
	r.add(e)
}

// addr(self, vec1, vec2; beta, alpha)
func registerAddr(r *Registry, b *cpu.CPUBackend) {
	defaults := Addr{Beta: 1, Alpha: 1}
	add := func(x, y *tensor.RawTensor) (*tensor.RawTensor, error) { return b.Add(x, y, 1) }
	scale := func(x *tensor.RawTensor, s float64) (*tensor.RawTensor, error) {
		return b.Mul(x, cpu.WrapScalar(x, s))
	}
	rule := vmap.Addr(vmap.AddrOps{Mul: b.Mul, Add: add, Scale: scale})

	e := newEntry("addr", KindDecomposition, 3, defaults)
	e.Rule = func(c Call) (vmap.Operand, error) {
		p, err := paramsAs(e.Key, c.Params, defaults)
		if err != nil {
			return vmap.Operand{}, err
		}
		return rule(c.Args[0], c.Args[1], c.Args[2], p.Beta, p.Alpha)
	}
	e.Primitive = func(args []*tensor.RawTensor, params any) (*tensor.RawTensor, error) {
		p, err := paramsAs(e.Key, params, defaults)
		if err != nil {
			return nil, err
		}
		out, err := rule(vmap.Unbatched(args[0]), vmap.Unbatched(args[1]), vmap.Unbatched(args[2]), p.Beta, p.Alpha)
		if err != nil {
			return nil, err
		}
		return out.Tensor, nil
	}
	r.add(e)
}
