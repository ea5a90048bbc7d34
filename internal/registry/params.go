package registry

// Fixed non-array parameters of the registered operations. Each operation
// takes exactly one of these types; NoParams when it has none.

// NoParams is the parameter type of operations without fixed parameters.
type NoParams = struct{}

// Alpha scales the second operand of add, sub and rsub.
type Alpha struct {
	Alpha float64 `yaml:"alpha"`
}

// Rounding selects the rounding mode of div: "", "trunc" or "floor".
type Rounding struct {
	Mode string `yaml:"rounding_mode"`
}

// Scalar is the number of a tensor-scalar overload. A whole Value acts as an
// integer literal unless Float is set, so that 2 keeps an int32 array int32
// while a floating 2.0 promotes it.
type Scalar struct {
	Value float64 `yaml:"value"`
	Float bool    `yaml:"float"`
}

// ScalarAlpha is the number and scale of add.Scalar, sub.Scalar and rsub.Scalar.
type ScalarAlpha struct {
	Value float64 `yaml:"value"`
	Float bool    `yaml:"float"`
	Alpha float64 `yaml:"alpha"`
}

// ScalarRounding is the number and rounding mode of div.Scalar_mode.
type ScalarRounding struct {
	Value float64 `yaml:"value"`
	Float bool    `yaml:"float"`
	Mode  string  `yaml:"rounding_mode"`
}

// ClampBounds are the optional scalar bounds of clamp. At least one must be
// set.
type ClampBounds struct {
	Min   *float64 `yaml:"min"`
	Max   *float64 `yaml:"max"`
	Float bool     `yaml:"float"`
}

// Coefficient scales the product or quotient of addcmul and addcdiv.
type Coefficient struct {
	Value float64 `yaml:"value"`
}

// Weight is the interpolation weight of lerp.Scalar.
type Weight struct {
	Weight float64 `yaml:"weight"`
}

// PNorm is the exponent of the pairwise distance.
type PNorm struct {
	P float64 `yaml:"p"`
}

// Threshold is the cut-off of threshold_backward.
type Threshold struct {
	Threshold float64 `yaml:"threshold"`
}

// Slope is the negative slope of leaky_relu_backward.
type Slope struct {
	Slope float64 `yaml:"negative_slope"`
}

// Bounds are the clamp bounds of hardtanh_backward.
type Bounds struct {
	Min float64 `yaml:"min_val"`
	Max float64 `yaml:"max_val"`
}

// Addr holds the scales of addr: beta*self + alpha*outer(vec1, vec2).
type Addr struct {
	Beta  float64 `yaml:"beta"`
	Alpha float64 `yaml:"alpha"`
}

// Lambda is the cut-off of hardshrink_backward and softshrink_backward.
type Lambda struct {
	Lambd float64 `yaml:"lambd"`
}

// Gelu selects the gelu_backward form: "none" or "tanh".
type Gelu struct {
	Approximate string `yaml:"approximate"`
}

// Logit is the optional clamping epsilon of logit_backward.
type Logit struct {
	Eps *float64 `yaml:"eps"`
}

// Elu holds the coefficients of elu_backward. With IsResult the second
// operand is the forward output.
type Elu struct {
	Alpha      float64 `yaml:"alpha"`
	Scale      float64 `yaml:"scale"`
	InputScale float64 `yaml:"input_scale"`
	IsResult   bool    `yaml:"is_result"`
}

// Softplus holds beta and the linear threshold of softplus_backward.
type Softplus struct {
	Beta      float64 `yaml:"beta"`
	Threshold float64 `yaml:"threshold"`
}
