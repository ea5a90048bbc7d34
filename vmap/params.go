// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package vmap

import "github.com/born-ml/vmap/internal/registry"

// Operation parameters passed to Interpreter.Call. A nil params argument
// selects the operation's defaults.
type (
	Alpha          = registry.Alpha
	Rounding       = registry.Rounding
	Scalar         = registry.Scalar
	ScalarAlpha    = registry.ScalarAlpha
	ScalarRounding = registry.ScalarRounding
	PNorm          = registry.PNorm
	Threshold      = registry.Threshold
	Slope          = registry.Slope
	Bounds         = registry.Bounds
	Addr           = registry.Addr
	ClampBounds    = registry.ClampBounds
	Coefficient    = registry.Coefficient
	Weight         = registry.Weight
	Lambda         = registry.Lambda
	Gelu           = registry.Gelu
	Logit          = registry.Logit
	Elu            = registry.Elu
	Softplus       = registry.Softplus
)
