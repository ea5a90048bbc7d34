// Package tensor provides the array substrate the batching rules operate on.
package tensor

import "fmt"

// DType is a constraint for supported element types.
type DType interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint8 | ~bool
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
//
// The declaration order is also the promotion order: PromoteTypes of two
// types is the later of the two.
const (
	Bool DataType = iota
	Uint8
	Int32
	Int64
	Float32
	Float64
)

// DefaultFloat is the floating type integer operands are promoted to by
// operations that always produce floating output (true division, sampling).
const DefaultFloat = Float32

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	case Uint8, Bool:
		return 1
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// IsFloating reports whether dt is a floating point type.
func (dt DataType) IsFloating() bool {
	return dt == Float32 || dt == Float64
}

// IsIntegral reports whether dt is an integer type. Bool is not integral.
func (dt DataType) IsIntegral() bool {
	return dt == Uint8 || dt == Int32 || dt == Int64
}

// MarshalText implements encoding.TextMarshaler.
func (dt DataType) MarshalText() ([]byte, error) {
	return []byte(dt.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (dt *DataType) UnmarshalText(text []byte) error {
	parsed, err := ParseDataType(string(text))
	if err != nil {
		return err
	}
	*dt = parsed
	return nil
}

// ParseDataType converts a name such as "float32" to its DataType.
func ParseDataType(name string) (DataType, error) {
	for _, dt := range []DataType{Bool, Uint8, Int32, Int64, Float32, Float64} {
		if dt.String() == name {
			return dt, nil
		}
	}
	return 0, fmt.Errorf("unknown data type %q", name)
}

// inferDataType infers DataType from a generic type T.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case bool:
		return Bool
	default:
		panic("unsupported type")
	}
}
