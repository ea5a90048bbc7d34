package cpu

import (
	"math"

	"github.com/pkg/errors"

	"github.com/born-ml/vmap/internal/tensor"
)

// Division rounding modes accepted by Div.
const (
	RoundNone  = ""
	RoundTrunc = "trunc"
	RoundFloor = "floor"
)

var errZeroDivision = errors.New("ZeroDivisionError")

func checkAlpha(op string, dtype tensor.DataType, alpha float64) error {
	if !dtype.IsFloating() && alpha != math.Trunc(alpha) {
		return errors.Errorf("%s: for integral input tensors, argument alpha must not be a floating point number", op)
	}
	return nil
}

func addKernel(name string, alpha float64) binaryKernel {
	ia := int64(alpha)
	return binaryKernel{
		name:  name,
		float: func(x, y float64) float64 { return x + alpha*y },
		int:   func(x, y int64) (int64, error) { return x + ia*y, nil },
		bool:  func(x, y bool) bool { return x || (alpha != 0 && y) },
	}
}

// Add computes a + alpha*b.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor, alpha float64) (*tensor.RawTensor, error) {
	k := addKernel("add", alpha)
	if err := checkAlpha(k.name, k.resultType(a, b), alpha); err != nil {
		return nil, err
	}
	return cpu.binary(k, a, b)
}

func subKernel(name string, alpha float64) binaryKernel {
	ia := int64(alpha)
	return binaryKernel{
		name:  name,
		float: func(x, y float64) float64 { return x - alpha*y },
		int:   func(x, y int64) (int64, error) { return x - ia*y, nil },
	}
}

// Sub computes a - alpha*b. Bool operands are rejected.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor, alpha float64) (*tensor.RawTensor, error) {
	k := subKernel("sub", alpha)
	if err := checkAlpha(k.name, k.resultType(a, b), alpha); err != nil {
		return nil, err
	}
	return cpu.binary(k, a, b)
}

// Rsub computes b - alpha*a.
func (cpu *CPUBackend) Rsub(a, b *tensor.RawTensor, alpha float64) (*tensor.RawTensor, error) {
	k := subKernel("rsub", alpha)
	if err := checkAlpha(k.name, k.resultType(b, a), alpha); err != nil {
		return nil, err
	}
	return cpu.binary(k, b, a)
}

var mulKernel = binaryKernel{
	name:  "mul",
	float: func(x, y float64) float64 { return x * y },
	int:   func(x, y int64) (int64, error) { return x * y, nil },
	bool:  func(x, y bool) bool { return x && y },
}

// Mul computes a * b.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(mulKernel, a, b)
}

func truncDiv(x, y int64) (int64, error) {
	if y == 0 {
		return 0, errZeroDivision
	}
	return x / y, nil
}

func floorDiv(x, y int64) (int64, error) {
	if y == 0 {
		return 0, errZeroDivision
	}
	q := x / y
	if x%y != 0 && (x < 0) != (y < 0) {
		q--
	}
	return q, nil
}

func divKernel(name, rounding string) (binaryKernel, error) {
	switch rounding {
	case RoundNone:
		return binaryKernel{
			name:      name,
			float:     func(x, y float64) float64 { return x / y },
			floatOnly: true,
		}, nil
	case RoundTrunc:
		return binaryKernel{
			name:  name,
			float: func(x, y float64) float64 { return math.Trunc(x / y) },
			int:   truncDiv,
		}, nil
	case RoundFloor:
		return binaryKernel{
			name:  name,
			float: func(x, y float64) float64 { return math.Floor(x / y) },
			int:   floorDiv,
		}, nil
	}
	return binaryKernel{}, errors.Errorf("%s expected rounding_mode to be one of None, 'trunc', or 'floor' but found '%s'", name, rounding)
}

// Div computes a / b. rounding is RoundNone for true division, which always
// produces a floating result, or RoundTrunc / RoundFloor.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor, rounding string) (*tensor.RawTensor, error) {
	k, err := divKernel("div", rounding)
	if err != nil {
		return nil, err
	}
	return cpu.binary(k, a, b)
}

// FloorDivide computes floor(a / b).
func (cpu *CPUBackend) FloorDivide(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	k, _ := divKernel("floor_divide", RoundFloor)
	return cpu.binary(k, a, b)
}

var fmodKernel = binaryKernel{
	name:  "fmod",
	float: math.Mod,
	int: func(x, y int64) (int64, error) {
		if y == 0 {
			return 0, errZeroDivision
		}
		return x % y, nil
	},
}

// Fmod computes the remainder of a / b with the sign of a.
func (cpu *CPUBackend) Fmod(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(fmodKernel, a, b)
}

var remainderKernel = binaryKernel{
	name: "remainder",
	float: func(x, y float64) float64 {
		m := math.Mod(x, y)
		if m != 0 && (m < 0) != (y < 0) {
			m += y
		}
		return m
	},
	int: func(x, y int64) (int64, error) {
		if y == 0 {
			return 0, errZeroDivision
		}
		m := x % y
		if m != 0 && (m < 0) != (y < 0) {
			m += y
		}
		return m, nil
	},
}

// Remainder computes the remainder of a / b with the sign of b.
func (cpu *CPUBackend) Remainder(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(remainderKernel, a, b)
}

func intPow(base, exp int64) (int64, error) {
	if exp < 0 {
		switch base {
		case 1:
			return 1, nil
		case -1:
			if exp%2 == 0 {
				return 1, nil
			}
			return -1, nil
		}
		return 0, errors.New("integers to negative integer powers are not allowed")
	}
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result, nil
}

var powKernel = binaryKernel{
	name:  "pow",
	float: math.Pow,
	int:   intPow,
}

// Pow computes a raised to b.
func (cpu *CPUBackend) Pow(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(powKernel, a, b)
}

var atan2Kernel = binaryKernel{name: "atan2", float: math.Atan2, floatOnly: true}

// Atan2 computes the element-wise arctangent of a / b.
func (cpu *CPUBackend) Atan2(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(atan2Kernel, a, b)
}

func minMaxKernel(name string, pickMax bool) binaryKernel {
	float := math.Min
	if pickMax {
		float = math.Max
	}
	return binaryKernel{
		name:  name,
		float: float,
		int: func(x, y int64) (int64, error) {
			if pickMax {
				return max(x, y), nil
			}
			return min(x, y), nil
		},
		bool: func(x, y bool) bool {
			if pickMax {
				return x || y
			}
			return x && y
		},
	}
}

var (
	maximumKernel = minMaxKernel("maximum", true)
	minimumKernel = minMaxKernel("minimum", false)
)

// Maximum computes the element-wise maximum, propagating NaN.
func (cpu *CPUBackend) Maximum(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(maximumKernel, a, b)
}

// Minimum computes the element-wise minimum, propagating NaN.
func (cpu *CPUBackend) Minimum(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(minimumKernel, a, b)
}

func ignoreNaN(k binaryKernel, name string) binaryKernel {
	f := k.float
	k.name = name
	k.float = func(x, y float64) float64 {
		switch {
		case math.IsNaN(x):
			return y
		case math.IsNaN(y):
			return x
		}
		return f(x, y)
	}
	return k
}

var (
	fmaxKernel = ignoreNaN(maximumKernel, "fmax")
	fminKernel = ignoreNaN(minimumKernel, "fmin")
)

// Fmax computes the element-wise maximum, ignoring NaN.
func (cpu *CPUBackend) Fmax(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(fmaxKernel, a, b)
}

// Fmin computes the element-wise minimum, ignoring NaN.
func (cpu *CPUBackend) Fmin(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(fminKernel, a, b)
}

// ClampMin clamps a from below by b.
func (cpu *CPUBackend) ClampMin(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	k := maximumKernel
	k.name = "clamp_min"
	return cpu.binary(k, a, b)
}

// ClampMax clamps a from above by b.
func (cpu *CPUBackend) ClampMax(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	k := minimumKernel
	k.name = "clamp_max"
	return cpu.binary(k, a, b)
}

var hypotKernel = binaryKernel{name: "hypot", float: math.Hypot, floatOnly: true}

// Hypot computes sqrt(a^2 + b^2).
func (cpu *CPUBackend) Hypot(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(hypotKernel, a, b)
}

func logaddexp(x, y float64) float64 {
	if math.IsInf(x, 0) && x == y {
		return x
	}
	return math.Max(x, y) + math.Log1p(math.Exp(-math.Abs(x-y)))
}

func logaddexp2(x, y float64) float64 {
	if math.IsInf(x, 0) && x == y {
		return x
	}
	return math.Max(x, y) + math.Log1p(math.Exp2(-math.Abs(x-y)))/math.Ln2
}

var (
	logaddexpKernel  = binaryKernel{name: "logaddexp", float: logaddexp, floatOnly: true}
	logaddexp2Kernel = binaryKernel{name: "logaddexp2", float: logaddexp2, floatOnly: true}
)

// Logaddexp computes log(exp(a) + exp(b)).
func (cpu *CPUBackend) Logaddexp(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(logaddexpKernel, a, b)
}

// Logaddexp2 computes log2(2^a + 2^b).
func (cpu *CPUBackend) Logaddexp2(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(logaddexp2Kernel, a, b)
}

var copysignKernel = binaryKernel{name: "copysign", float: math.Copysign, floatOnly: true}

// Copysign returns the magnitude of a with the sign of b.
func (cpu *CPUBackend) Copysign(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(copysignKernel, a, b)
}

var nextafterKernel = binaryKernel{
	name:      "nextafter",
	float:     math.Nextafter,
	f32:       math.Nextafter32,
	floatOnly: true,
}

// Nextafter returns the next representable value after a towards b.
func (cpu *CPUBackend) Nextafter(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(nextafterKernel, a, b)
}

var heavisideKernel = binaryKernel{
	name: "heaviside",
	float: func(x, y float64) float64 {
		switch {
		case x == 0:
			return y
		case x > 0:
			return 1
		}
		return 0
	},
	int: func(x, y int64) (int64, error) {
		switch {
		case x == 0:
			return y, nil
		case x > 0:
			return 1, nil
		}
		return 0, nil
	},
	bool: func(x, y bool) bool { return x || y },
}

// Heaviside computes the step function of a, using b where a is zero.
func (cpu *CPUBackend) Heaviside(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(heavisideKernel, a, b)
}

func gcd(x, y int64) int64 {
	x, y = absInt(x), absInt(y)
	for y != 0 {
		x, y = y, x%y
	}
	return x
}

func absInt(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

var (
	gcdKernel = binaryKernel{
		name: "gcd",
		int:  func(x, y int64) (int64, error) { return gcd(x, y), nil },
	}
	lcmKernel = binaryKernel{
		name: "lcm",
		int: func(x, y int64) (int64, error) {
			g := gcd(x, y)
			if g == 0 {
				return 0, nil
			}
			return absInt(x / g * y), nil
		},
	}
)

// Gcd computes the greatest common divisor of integral operands.
func (cpu *CPUBackend) Gcd(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(gcdKernel, a, b)
}

// Lcm computes the least common multiple of integral operands.
func (cpu *CPUBackend) Lcm(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(lcmKernel, a, b)
}

var xlogyKernel = binaryKernel{
	name: "xlogy",
	float: func(x, y float64) float64 {
		switch {
		case math.IsNaN(y):
			return math.NaN()
		case x == 0:
			return 0
		}
		return x * math.Log(y)
	},
	floatOnly: true,
}

// Xlogy computes a * log(b), defined as zero where a is zero.
func (cpu *CPUBackend) Xlogy(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(xlogyKernel, a, b)
}

var (
	bitwiseAndKernel = binaryKernel{
		name: "bitwise_and",
		int:  func(x, y int64) (int64, error) { return x & y, nil },
		bool: func(x, y bool) bool { return x && y },
	}
	bitwiseOrKernel = binaryKernel{
		name: "bitwise_or",
		int:  func(x, y int64) (int64, error) { return x | y, nil },
		bool: func(x, y bool) bool { return x || y },
	}
	bitwiseXorKernel = binaryKernel{
		name: "bitwise_xor",
		int:  func(x, y int64) (int64, error) { return x ^ y, nil },
		bool: func(x, y bool) bool { return x != y },
	}
	leftShiftKernel = binaryKernel{
		name: "bitwise_left_shift",
		int: func(x, y int64) (int64, error) {
			if y < 0 || y >= 64 {
				return 0, nil
			}
			return x << y, nil
		},
	}
	rightShiftKernel = binaryKernel{
		name: "bitwise_right_shift",
		int: func(x, y int64) (int64, error) {
			if y < 0 || y >= 64 {
				if x < 0 {
					return -1, nil
				}
				return 0, nil
			}
			return x >> y, nil
		},
	}
)

// BitwiseAnd computes a & b for integral and bool operands.
func (cpu *CPUBackend) BitwiseAnd(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(bitwiseAndKernel, a, b)
}

// BitwiseOr computes a | b for integral and bool operands.
func (cpu *CPUBackend) BitwiseOr(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(bitwiseOrKernel, a, b)
}

// BitwiseXor computes a ^ b for integral and bool operands.
func (cpu *CPUBackend) BitwiseXor(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(bitwiseXorKernel, a, b)
}

// BitwiseLeftShift computes a << b.
func (cpu *CPUBackend) BitwiseLeftShift(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(leftShiftKernel, a, b)
}

// BitwiseRightShift computes the arithmetic shift a >> b.
func (cpu *CPUBackend) BitwiseRightShift(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(rightShiftKernel, a, b)
}
