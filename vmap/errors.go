// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package vmap

import (
	"github.com/born-ml/vmap/internal/dispatch"
	"github.com/born-ml/vmap/internal/vmap"
)

// UsageError reports invalid vmap usage.
type UsageError = vmap.UsageError

// ErrorCode classifies a UsageError.
type ErrorCode = vmap.ErrorCode

// Usage error codes.
const (
	CodeIncompatibleInplace = vmap.CodeIncompatibleInplace
	CodeBatchedMask         = vmap.CodeBatchedMask
	CodeRandomness          = vmap.CodeRandomness
	CodeLevelMismatch       = vmap.CodeLevelMismatch
	CodeBatchSizeMismatch   = vmap.CodeBatchSizeMismatch
)

// Sentinel errors matched by UsageError through errors.Is.
var (
	ErrIncompatibleInplace = vmap.ErrIncompatibleInplace
	ErrBatchedMask         = vmap.ErrBatchedMask
	ErrRandomness          = vmap.ErrRandomness

	// ErrUnknownOp is returned by Interpreter.Call for unregistered operations.
	ErrUnknownOp = dispatch.ErrUnknownOp
)
