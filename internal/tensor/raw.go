package tensor

import (
	"fmt"
	"unsafe"
)

// storage is the byte buffer shared by a tensor and all of its views.
type storage struct {
	data []byte
}

// RawTensor is the low-level tensor representation.
//
// A RawTensor is a strided view over shared storage: views created by
// Permute, Unsqueeze, Expand, Select and Reshape alias their source, so writes
// through one are visible through the other.
type RawTensor struct {
	buf    *storage
	shape  Shape
	stride []int
	dtype  DataType
	offset int // in elements
}

// NewRaw creates a new contiguous RawTensor with the given shape and type.
// Memory is zero-initialized.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		buf:    &storage{data: make([]byte, shape.NumElements()*dtype.Size())},
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
	}, nil
}

// FromSlice creates a contiguous tensor holding a copy of data.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy))
	if err != nil {
		return nil, err
	}
	copy(storageOf[T](raw), data)
	return raw, nil
}

// Scalar creates a 0-dimensional tensor holding v.
func Scalar[T DType](v T) *RawTensor {
	raw, _ := FromSlice([]T{v}, Shape{})
	return raw
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's strides, in elements.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// Offset returns the element offset of the view into its storage.
func (r *RawTensor) Offset() int {
	return r.offset
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Rank returns the number of dimensions.
func (r *RawTensor) Rank() int {
	return len(r.shape)
}

// Size returns the size of dimension dim (negative dims count from the end).
func (r *RawTensor) Size(dim int) int {
	d, err := NormalizeDim(dim, len(r.shape))
	if err != nil {
		panic(fmt.Sprintf("size: %v", err))
	}
	return r.shape[d]
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// SharesStorage reports whether r and other are views over the same buffer.
func (r *RawTensor) SharesStorage(other *RawTensor) bool {
	return r.buf == other.buf
}

// IsContiguous reports whether the view is laid out row-major without gaps.
func (r *RawTensor) IsContiguous() bool {
	expected := 1
	for i := len(r.shape) - 1; i >= 0; i-- {
		if r.shape[i] == 1 {
			continue
		}
		if r.stride[i] != expected {
			return false
		}
		expected *= r.shape[i]
	}
	return true
}

// HasInternalOverlap reports whether two distinct elements of the view map to
// the same storage location (an expanded, stride-0 dimension).
func (r *RawTensor) HasInternalOverlap() bool {
	for i, s := range r.stride {
		if s == 0 && r.shape[i] > 1 {
			return true
		}
	}
	return false
}

// AsFloat32 interprets the data of a contiguous tensor as []float32.
// Panics if the tensor's dtype is not Float32 or the tensor is not contiguous.
func (r *RawTensor) AsFloat32() []float32 {
	return contiguousData[float32](r, Float32)
}

// AsFloat64 interprets the data of a contiguous tensor as []float64.
func (r *RawTensor) AsFloat64() []float64 {
	return contiguousData[float64](r, Float64)
}

// AsInt32 interprets the data of a contiguous tensor as []int32.
func (r *RawTensor) AsInt32() []int32 {
	return contiguousData[int32](r, Int32)
}

// AsInt64 interprets the data of a contiguous tensor as []int64.
func (r *RawTensor) AsInt64() []int64 {
	return contiguousData[int64](r, Int64)
}

// AsUint8 interprets the data of a contiguous tensor as []uint8.
func (r *RawTensor) AsUint8() []uint8 {
	return contiguousData[uint8](r, Uint8)
}

// AsBool interprets the data of a contiguous tensor as []bool.
func (r *RawTensor) AsBool() []bool {
	return contiguousData[bool](r, Bool)
}

func contiguousData[T DType](r *RawTensor, want DataType) []T {
	if r.dtype != want {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", r.dtype, want))
	}
	if !r.IsContiguous() {
		panic("tensor is not contiguous; call Contiguous first")
	}
	s := storageOf[T](r)
	return s[r.offset : r.offset+r.NumElements()]
}

// storageOf returns the whole storage buffer reinterpreted as []T.
func storageOf[T DType](r *RawTensor) []T {
	data := r.buf.data
	if len(data) == 0 {
		return nil
	}
	var zero T
	//nolint:gosec // unsafe.Slice for zero-copy access, length derived from the buffer size
	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), len(data)/int(unsafe.Sizeof(zero)))
}

func (r *RawTensor) withLayout(shape Shape, stride []int, offset int) *RawTensor {
	return &RawTensor{
		buf:    r.buf,
		shape:  shape,
		stride: stride,
		dtype:  r.dtype,
		offset: offset,
	}
}

// String returns a human-readable representation of the tensor.
func (r *RawTensor) String() string {
	return fmt.Sprintf("Tensor[%s]%v", r.dtype, r.shape)
}
