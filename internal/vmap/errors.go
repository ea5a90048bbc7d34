package vmap

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a UsageError.
type ErrorCode string

// Usage error codes.
const (
	CodeIncompatibleInplace ErrorCode = "incompatible_inplace"
	CodeBatchedMask         ErrorCode = "batched_mask"
	CodeRandomness          ErrorCode = "randomness_error"
	CodeLevelMismatch       ErrorCode = "level_mismatch"
	CodeBatchSizeMismatch   ErrorCode = "batch_size_mismatch"
)

// Sentinels matched by errors.Is against a UsageError of the same code.
var (
	ErrIncompatibleInplace = errors.New("in-place operation would add a batch axis to its receiver")
	ErrBatchedMask         = errors.New("mask of masked_select is batched")
	ErrRandomness          = errors.New("random operation not allowed under the randomness mode")
)

// UsageError is returned when a program uses an operation in a way vmap
// cannot support. Errors raised by the primitives themselves are returned
// unchanged and are never UsageErrors.
type UsageError struct {
	Code    ErrorCode // e.g. "incompatible_inplace"
	Op      string    // operation name, may be empty
	Message string
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("vmap: %s: %s", e.Op, e.Message)
	}
	return "vmap: " + e.Message
}

// Is reports whether target is the sentinel for e's code.
func (e *UsageError) Is(target error) bool {
	switch target {
	case ErrIncompatibleInplace:
		return e.Code == CodeIncompatibleInplace
	case ErrBatchedMask:
		return e.Code == CodeBatchedMask
	case ErrRandomness:
		return e.Code == CodeRandomness
	}
	return false
}

func usageError(code ErrorCode, op, format string, args ...any) *UsageError {
	return &UsageError{Code: code, Op: op, Message: fmt.Sprintf(format, args...)}
}
