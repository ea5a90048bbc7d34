package tensor

import "fmt"

// Permute returns a view with dimensions reordered so that dimension i of the
// result is dimension axes[i] of r.
func (r *RawTensor) Permute(axes ...int) (*RawTensor, error) {
	ndim := len(r.shape)
	if len(axes) != ndim {
		return nil, fmt.Errorf("permute: axes length %d != ndim %d", len(axes), ndim)
	}

	seen := make([]bool, ndim)
	shape := make(Shape, ndim)
	stride := make([]int, ndim)
	for i, ax := range axes {
		d, err := NormalizeDim(ax, ndim)
		if err != nil {
			return nil, fmt.Errorf("permute: %w", err)
		}
		if seen[d] {
			return nil, fmt.Errorf("permute: duplicate axis %d", d)
		}
		seen[d] = true
		shape[i] = r.shape[d]
		stride[i] = r.stride[d]
	}

	return r.withLayout(shape, stride, r.offset), nil
}

// MoveAxis returns a view with dimension src moved to position dst and the
// remaining dimensions kept in their relative order.
func (r *RawTensor) MoveAxis(src, dst int) (*RawTensor, error) {
	ndim := len(r.shape)
	s, err := NormalizeDim(src, ndim)
	if err != nil {
		return nil, fmt.Errorf("moveaxis: %w", err)
	}
	d, err := NormalizeDim(dst, ndim)
	if err != nil {
		return nil, fmt.Errorf("moveaxis: %w", err)
	}
	if s == d {
		return r, nil
	}

	rest := make([]int, 0, ndim-1)
	for i := 0; i < ndim; i++ {
		if i != s {
			rest = append(rest, i)
		}
	}
	axes := make([]int, 0, ndim)
	axes = append(axes, rest[:d]...)
	axes = append(axes, s)
	axes = append(axes, rest[d:]...)
	return r.Permute(axes...)
}

// Unsqueeze returns a view with a dimension of size 1 inserted at dim.
// dim may be negative and ranges over [-(rank+1), rank].
func (r *RawTensor) Unsqueeze(dim int) (*RawTensor, error) {
	ndim := len(r.shape)
	d, err := NormalizeDim(dim, ndim+1)
	if err != nil {
		return nil, fmt.Errorf("unsqueeze: %w", err)
	}

	stride := 1
	if d < ndim {
		stride = r.stride[d] * r.shape[d]
	}

	shape := make(Shape, 0, ndim+1)
	shape = append(shape, r.shape[:d]...)
	shape = append(shape, 1)
	shape = append(shape, r.shape[d:]...)

	strides := make([]int, 0, ndim+1)
	strides = append(strides, r.stride[:d]...)
	strides = append(strides, stride)
	strides = append(strides, r.stride[d:]...)

	return r.withLayout(shape, strides, r.offset), nil
}

// Expand returns a broadcast view of r with the given shape. New dimensions
// are prepended; size-1 dimensions are repeated with stride 0. A target size
// of -1 keeps the existing size.
func (r *RawTensor) Expand(shape Shape) (*RawTensor, error) {
	ndim := len(r.shape)
	if len(shape) < ndim {
		return nil, fmt.Errorf("expand: target shape %v has fewer dimensions than %v", shape, r.shape)
	}

	lead := len(shape) - ndim
	outShape := make(Shape, len(shape))
	stride := make([]int, len(shape))
	for i, size := range shape {
		if i < lead {
			if size < 0 {
				return nil, fmt.Errorf("expand: size -1 is not allowed in leading, non-existing dimension %d", i)
			}
			outShape[i] = size
			continue
		}
		src := r.shape[i-lead]
		switch {
		case size < -1:
			return nil, fmt.Errorf("expand: invalid size %d at dimension %d", size, i)
		case size == -1 || size == src:
			outShape[i] = src
			stride[i] = r.stride[i-lead]
		case src == 1:
			outShape[i] = size
		default:
			return nil, fmt.Errorf("expand: size %d at dimension %d does not match %d in %v", size, i, src, r.shape)
		}
	}

	return r.withLayout(outShape, stride, r.offset), nil
}

// Select returns a view of the index-th slice along dim, with dim removed.
func (r *RawTensor) Select(dim, index int) (*RawTensor, error) {
	ndim := len(r.shape)
	d, err := NormalizeDim(dim, ndim)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	if index < -r.shape[d] || index >= r.shape[d] {
		return nil, fmt.Errorf("select: index %d out of range for dimension %d of size %d", index, d, r.shape[d])
	}
	if index < 0 {
		index += r.shape[d]
	}

	shape := append(r.shape[:d:d], r.shape[d+1:]...)
	stride := append(r.stride[:d:d], r.stride[d+1:]...)
	return r.withLayout(shape, stride, r.offset+index*r.stride[d]), nil
}

// Reshape returns a tensor with the same elements in a new shape. One
// dimension may be -1 and is inferred. Contiguous inputs are viewed;
// strided inputs are copied first.
func (r *RawTensor) Reshape(shape Shape) (*RawTensor, error) {
	target, err := inferShape(shape, r.NumElements())
	if err != nil {
		return nil, fmt.Errorf("reshape: %v -> %v: %w", r.shape, shape, err)
	}

	src := r.Contiguous()
	return src.withLayout(target, target.ComputeStrides(), src.offset), nil
}

func inferShape(shape Shape, numElements int) (Shape, error) {
	out := shape.Clone()
	inferred := -1
	known := 1
	for i, dim := range out {
		switch {
		case dim == -1:
			if inferred >= 0 {
				return nil, fmt.Errorf("only one dimension can be inferred")
			}
			inferred = i
		case dim < 0:
			return nil, fmt.Errorf("invalid dimension %d", dim)
		default:
			known *= dim
		}
	}

	if inferred >= 0 {
		if known == 0 || numElements%known != 0 {
			return nil, fmt.Errorf("cannot infer dimension for %d elements", numElements)
		}
		out[inferred] = numElements / known
		return out, nil
	}
	if known != numElements {
		return nil, fmt.Errorf("shape requires %d elements, tensor has %d", known, numElements)
	}
	return out, nil
}

// Contiguous returns r if it is already contiguous, otherwise a row-major copy.
func (r *RawTensor) Contiguous() *RawTensor {
	if r.IsContiguous() {
		return r
	}
	return r.Copy()
}

// Copy returns a contiguous deep copy of r.
func (r *RawTensor) Copy() *RawTensor {
	out, _ := NewRaw(r.shape, r.dtype)
	out.copyFrom(r)
	return out
}
