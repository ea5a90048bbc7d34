package cpu

import (
	"math"

	"github.com/pkg/errors"

	"github.com/born-ml/vmap/internal/tensor"
)

// Backward kernels of pointwise activations. The first operand is always the
// incoming gradient.

var (
	sigmoidBackwardKernel = binaryKernel{
		name:      "sigmoid_backward",
		float:     func(grad, out float64) float64 { return grad * (1 - out) * out },
		floatOnly: true,
	}
	tanhBackwardKernel = binaryKernel{
		name:      "tanh_backward",
		float:     func(grad, out float64) float64 { return grad * (1 - out*out) },
		floatOnly: true,
	}
)

// SigmoidBackward computes grad * (1 - out) * out.
func (cpu *CPUBackend) SigmoidBackward(grad, out *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(sigmoidBackwardKernel, grad, out)
}

// TanhBackward computes grad * (1 - out^2).
func (cpu *CPUBackend) TanhBackward(grad, out *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(tanhBackwardKernel, grad, out)
}

// ThresholdBackward passes grad through where input > threshold.
func (cpu *CPUBackend) ThresholdBackward(grad, input *tensor.RawTensor, threshold float64) (*tensor.RawTensor, error) {
	return cpu.binary(binaryKernel{
		name: "threshold_backward",
		float: func(g, x float64) float64 {
			if x <= threshold {
				return 0
			}
			return g
		},
		int: func(g, x int64) (int64, error) {
			if float64(x) <= threshold {
				return 0, nil
			}
			return g, nil
		},
	}, grad, input)
}

// LeakyReluBackward scales grad by slope where input <= 0.
func (cpu *CPUBackend) LeakyReluBackward(grad, input *tensor.RawTensor, slope float64) (*tensor.RawTensor, error) {
	return cpu.binary(binaryKernel{
		name: "leaky_relu_backward",
		float: func(g, x float64) float64 {
			if x > 0 {
				return g
			}
			return g * slope
		},
		floatOnly: true,
	}, grad, input)
}

// HardtanhBackward passes grad through where min < input < max.
func (cpu *CPUBackend) HardtanhBackward(grad, input *tensor.RawTensor, minVal, maxVal float64) (*tensor.RawTensor, error) {
	return cpu.binary(binaryKernel{
		name: "hardtanh_backward",
		float: func(g, x float64) float64 {
			if x <= minVal || x >= maxVal {
				return 0
			}
			return g
		},
		floatOnly: true,
	}, grad, input)
}

// HardsigmoidBackward passes grad / 6 through where -3 < input < 3.
func (cpu *CPUBackend) HardsigmoidBackward(grad, input *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(binaryKernel{
		name: "hardsigmoid_backward",
		float: func(g, x float64) float64 {
			if x > -3 && x < 3 {
				return g / 6
			}
			return 0
		},
		floatOnly: true,
	}, grad, input)
}

// HardswishBackward computes the gradient of x * relu6(x + 3) / 6.
func (cpu *CPUBackend) HardswishBackward(grad, input *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(binaryKernel{
		name: "hardswish_backward",
		float: func(g, x float64) float64 {
			switch {
			case x < -3:
				return 0
			case x <= 3:
				return g * (x/3 + 0.5)
			}
			return g
		},
		floatOnly: true,
	}, grad, input)
}

func shrinkBackward(name string, lambd float64) binaryKernel {
	return binaryKernel{
		name: name,
		float: func(g, x float64) float64 {
			if x >= -lambd && x <= lambd {
				return 0
			}
			return g
		},
		floatOnly: true,
	}
}

// HardshrinkBackward zeroes grad where |input| <= lambd.
func (cpu *CPUBackend) HardshrinkBackward(grad, input *tensor.RawTensor, lambd float64) (*tensor.RawTensor, error) {
	return cpu.binary(shrinkBackward("hardshrink_backward", lambd), grad, input)
}

// SoftshrinkBackward zeroes grad where |input| <= lambd.
func (cpu *CPUBackend) SoftshrinkBackward(grad, input *tensor.RawTensor, lambd float64) (*tensor.RawTensor, error) {
	return cpu.binary(shrinkBackward("softshrink_backward", lambd), grad, input)
}

// GeluBackward computes the gradient of gelu. approximate is "none" for the
// exact erf form or "tanh".
func (cpu *CPUBackend) GeluBackward(grad, input *tensor.RawTensor, approximate string) (*tensor.RawTensor, error) {
	var f func(g, x float64) float64
	switch approximate {
	case "none":
		f = func(g, x float64) float64 {
			cdf := 0.5 * (1 + math.Erf(x/math.Sqrt2))
			pdf := math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
			return g * (cdf + x*pdf)
		}
	case "tanh":
		const kappa = 0.044715
		beta := math.Sqrt(2 / math.Pi)
		f = func(g, x float64) float64 {
			inner := math.Tanh(beta * (x + kappa*x*x*x))
			left := 0.5 * x
			right := 1 + inner
			dright := left * (1 - inner*inner) * beta * (1 + 3*kappa*x*x)
			return g * (0.5*right + dright)
		}
	default:
		return nil, errors.Errorf("gelu_backward: approximate argument must be either none or tanh, got %q", approximate)
	}
	return cpu.binary(binaryKernel{name: "gelu_backward", float: f, floatOnly: true}, grad, input)
}

// LogitBackward computes grad / (x * (1 - x)). Without eps, inputs outside
// [0, 1] give NaN; with eps, inputs outside [eps, 1-eps] give zero.
func (cpu *CPUBackend) LogitBackward(grad, input *tensor.RawTensor, eps *float64) (*tensor.RawTensor, error) {
	lo, hi, outside := 0.0, 1.0, math.NaN()
	if eps != nil {
		lo, hi, outside = *eps, 1-*eps, 0
	}
	return cpu.binary(binaryKernel{
		name: "logit_backward",
		float: func(g, x float64) float64 {
			if x < lo || x > hi {
				return outside
			}
			return g / (x * (1 - x))
		},
		floatOnly: true,
	}, grad, input)
}

// EluBackward computes the gradient of elu. With isResult the second operand
// is the forward output rather than the input.
func (cpu *CPUBackend) EluBackward(grad, x *tensor.RawTensor, alpha, scale, inputScale float64, isResult bool) (*tensor.RawTensor, error) {
	if isResult && alpha < 0 {
		return nil, errors.Errorf("elu_backward: in-place elu backward calculation is triggered with a negative slope which is not supported, alpha is %v", alpha)
	}
	negcoef := alpha * scale
	return cpu.binary(binaryKernel{
		name: "elu_backward",
		float: func(g, v float64) float64 {
			switch {
			case v > 0:
				return g * scale
			case isResult:
				return g * inputScale * (v + negcoef)
			}
			return g * inputScale * negcoef * math.Exp(v*inputScale)
		},
		floatOnly: true,
	}, grad, x)
}

// SoftplusBackward computes the gradient of log(1 + exp(beta*x)) / beta,
// which is linear above threshold.
func (cpu *CPUBackend) SoftplusBackward(grad, input *tensor.RawTensor, beta, threshold float64) (*tensor.RawTensor, error) {
	return cpu.binary(binaryKernel{
		name: "softplus_backward",
		float: func(g, x float64) float64 {
			if x*beta > threshold {
				return g
			}
			z := math.Exp(x * beta)
			return g * z / (z + 1)
		},
		floatOnly: true,
	}, grad, input)
}
