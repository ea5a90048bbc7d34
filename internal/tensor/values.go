package tensor

import "fmt"

// Offsets returns the storage offset of every element of the view, in
// row-major logical order.
func (r *RawTensor) Offsets() []int {
	n := r.NumElements()
	offs := make([]int, n)
	if n == 0 {
		return offs
	}

	idx := make([]int, len(r.shape))
	pos := r.offset
	for i := 0; i < n; i++ {
		offs[i] = pos
		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			pos += r.stride[d]
			if idx[d] < r.shape[d] {
				break
			}
			pos -= idx[d] * r.stride[d]
			idx[d] = 0
		}
	}
	return offs
}

func gather[T DType, U any](src []T, offs []int, conv func(T) U) []U {
	out := make([]U, len(offs))
	for i, o := range offs {
		out[i] = conv(src[o])
	}
	return out
}

func scatter[T DType, U any](dst []T, offs []int, vals []U, conv func(U) T) {
	for i, o := range offs {
		dst[o] = conv(vals[i])
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Float64s returns the elements in logical order converted to float64.
func (r *RawTensor) Float64s() []float64 {
	offs := r.Offsets()
	switch r.dtype {
	case Float32:
		return gather(storageOf[float32](r), offs, func(v float32) float64 { return float64(v) })
	case Float64:
		return gather(storageOf[float64](r), offs, func(v float64) float64 { return v })
	case Int32:
		return gather(storageOf[int32](r), offs, func(v int32) float64 { return float64(v) })
	case Int64:
		return gather(storageOf[int64](r), offs, func(v int64) float64 { return float64(v) })
	case Uint8:
		return gather(storageOf[uint8](r), offs, func(v uint8) float64 { return float64(v) })
	case Bool:
		return gather(storageOf[bool](r), offs, boolToFloat)
	default:
		panic(fmt.Sprintf("float64s: unsupported dtype %s", r.dtype))
	}
}

// Int64s returns the elements in logical order converted to int64.
// Floating values are truncated toward zero.
func (r *RawTensor) Int64s() []int64 {
	offs := r.Offsets()
	switch r.dtype {
	case Float32:
		return gather(storageOf[float32](r), offs, func(v float32) int64 { return int64(v) })
	case Float64:
		return gather(storageOf[float64](r), offs, func(v float64) int64 { return int64(v) })
	case Int32:
		return gather(storageOf[int32](r), offs, func(v int32) int64 { return int64(v) })
	case Int64:
		return gather(storageOf[int64](r), offs, func(v int64) int64 { return v })
	case Uint8:
		return gather(storageOf[uint8](r), offs, func(v uint8) int64 { return int64(v) })
	case Bool:
		return gather(storageOf[bool](r), offs, boolToInt)
	default:
		panic(fmt.Sprintf("int64s: unsupported dtype %s", r.dtype))
	}
}

// Bools returns the elements in logical order; non-zero values are true.
func (r *RawTensor) Bools() []bool {
	offs := r.Offsets()
	switch r.dtype {
	case Float32:
		return gather(storageOf[float32](r), offs, func(v float32) bool { return v != 0 })
	case Float64:
		return gather(storageOf[float64](r), offs, func(v float64) bool { return v != 0 })
	case Int32:
		return gather(storageOf[int32](r), offs, func(v int32) bool { return v != 0 })
	case Int64:
		return gather(storageOf[int64](r), offs, func(v int64) bool { return v != 0 })
	case Uint8:
		return gather(storageOf[uint8](r), offs, func(v uint8) bool { return v != 0 })
	case Bool:
		return gather(storageOf[bool](r), offs, func(v bool) bool { return v })
	default:
		panic(fmt.Sprintf("bools: unsupported dtype %s", r.dtype))
	}
}

// SetFloat64s writes vals, in logical order, through the view.
func (r *RawTensor) SetFloat64s(vals []float64) error {
	offs, err := r.writeOffsets(len(vals))
	if err != nil {
		return err
	}
	switch r.dtype {
	case Float32:
		scatter(storageOf[float32](r), offs, vals, func(v float64) float32 { return float32(v) })
	case Float64:
		scatter(storageOf[float64](r), offs, vals, func(v float64) float64 { return v })
	case Int32:
		scatter(storageOf[int32](r), offs, vals, func(v float64) int32 { return int32(v) })
	case Int64:
		scatter(storageOf[int64](r), offs, vals, func(v float64) int64 { return int64(v) })
	case Uint8:
		scatter(storageOf[uint8](r), offs, vals, func(v float64) uint8 { return uint8(int64(v)) })
	case Bool:
		scatter(storageOf[bool](r), offs, vals, func(v float64) bool { return v != 0 })
	}
	return nil
}

// SetInt64s writes vals, in logical order, through the view.
func (r *RawTensor) SetInt64s(vals []int64) error {
	offs, err := r.writeOffsets(len(vals))
	if err != nil {
		return err
	}
	switch r.dtype {
	case Float32:
		scatter(storageOf[float32](r), offs, vals, func(v int64) float32 { return float32(v) })
	case Float64:
		scatter(storageOf[float64](r), offs, vals, func(v int64) float64 { return float64(v) })
	case Int32:
		scatter(storageOf[int32](r), offs, vals, func(v int64) int32 { return int32(v) })
	case Int64:
		scatter(storageOf[int64](r), offs, vals, func(v int64) int64 { return v })
	case Uint8:
		scatter(storageOf[uint8](r), offs, vals, func(v int64) uint8 { return uint8(v) })
	case Bool:
		scatter(storageOf[bool](r), offs, vals, func(v int64) bool { return v != 0 })
	}
	return nil
}

// SetBools writes vals, in logical order, through the view.
func (r *RawTensor) SetBools(vals []bool) error {
	offs, err := r.writeOffsets(len(vals))
	if err != nil {
		return err
	}
	switch r.dtype {
	case Float32:
		scatter(storageOf[float32](r), offs, vals, func(v bool) float32 { return float32(boolToFloat(v)) })
	case Float64:
		scatter(storageOf[float64](r), offs, vals, boolToFloat)
	case Int32:
		scatter(storageOf[int32](r), offs, vals, func(v bool) int32 { return int32(boolToInt(v)) })
	case Int64:
		scatter(storageOf[int64](r), offs, vals, boolToInt)
	case Uint8:
		scatter(storageOf[uint8](r), offs, vals, func(v bool) uint8 { return uint8(boolToInt(v)) })
	case Bool:
		scatter(storageOf[bool](r), offs, vals, func(v bool) bool { return v })
	}
	return nil
}

func (r *RawTensor) writeOffsets(n int) ([]int, error) {
	if n != r.NumElements() {
		return nil, fmt.Errorf("write: %d values for tensor of shape %v", n, r.shape)
	}
	if r.HasInternalOverlap() {
		return nil, fmt.Errorf("write: tensor of shape %v has elements sharing one memory location", r.shape)
	}
	return r.Offsets(), nil
}

// copyFrom writes the elements of src into r, converting to r's dtype.
// Shapes must have the same number of elements.
func (r *RawTensor) copyFrom(src *RawTensor) {
	var err error
	switch {
	case r.dtype == Bool:
		err = r.SetBools(src.Bools())
	case r.dtype.IsFloating() || src.dtype.IsFloating():
		err = r.SetFloat64s(src.Float64s())
	default:
		err = r.SetInt64s(src.Int64s())
	}
	if err != nil {
		panic(fmt.Sprintf("copy: %v", err))
	}
}

// CopyFrom writes src into r in logical order, converting dtypes. The shapes
// must be equal.
func (r *RawTensor) CopyFrom(src *RawTensor) error {
	if !r.shape.Equal(src.shape) {
		return fmt.Errorf("copy: shape %v does not match destination %v", src.shape, r.shape)
	}
	if r.HasInternalOverlap() {
		return fmt.Errorf("copy: destination of shape %v has elements sharing one memory location", r.shape)
	}
	r.copyFrom(src)
	return nil
}

// Cast returns r converted to dtype. r itself is returned when no conversion
// is needed.
func (r *RawTensor) Cast(dtype DataType) *RawTensor {
	if r.dtype == dtype {
		return r
	}
	out, _ := NewRaw(r.shape, dtype)
	out.copyFrom(r)
	return out
}

// FromFloat64s creates a contiguous tensor of dtype from float64 values.
func FromFloat64s(vals []float64, shape Shape, dtype DataType) (*RawTensor, error) {
	out, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	if err := out.SetFloat64s(vals); err != nil {
		return nil, err
	}
	return out, nil
}

// FromInt64s creates a contiguous tensor of dtype from int64 values.
func FromInt64s(vals []int64, shape Shape, dtype DataType) (*RawTensor, error) {
	out, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	if err := out.SetInt64s(vals); err != nil {
		return nil, err
	}
	return out, nil
}

// FromBools creates a contiguous tensor of dtype from bool values.
func FromBools(vals []bool, shape Shape, dtype DataType) (*RawTensor, error) {
	out, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	if err := out.SetBools(vals); err != nil {
		return nil, err
	}
	return out, nil
}
