package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arange(t *testing.T, shape Shape) *RawTensor {
	t.Helper()
	vals := make([]float32, shape.NumElements())
	for i := range vals {
		vals[i] = float32(i)
	}
	raw, err := FromSlice(vals, shape)
	require.NoError(t, err)
	return raw
}

func TestPermute(t *testing.T) {
	x := arange(t, Shape{2, 3})

	y, err := x.Permute(1, 0)
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2}, y.Shape())
	assert.True(t, y.SharesStorage(x))
	assert.False(t, y.IsContiguous())
	assert.Equal(t, []float64{0, 3, 1, 4, 2, 5}, y.Float64s())

	_, err = x.Permute(0, 0)
	assert.Error(t, err)
	_, err = x.Permute(0)
	assert.Error(t, err)
}

func TestMoveAxis(t *testing.T) {
	x := arange(t, Shape{2, 3, 4})

	y, err := x.MoveAxis(2, 0)
	require.NoError(t, err)
	assert.Equal(t, Shape{4, 2, 3}, y.Shape())

	z, err := x.MoveAxis(0, -1)
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 4, 2}, z.Shape())

	same, err := x.MoveAxis(1, 1)
	require.NoError(t, err)
	assert.Same(t, x, same)

	// Moving back restores the logical order.
	back, err := y.MoveAxis(0, 2)
	require.NoError(t, err)
	assert.Equal(t, x.Float64s(), back.Float64s())
}

func TestUnsqueeze(t *testing.T) {
	x := arange(t, Shape{2, 3})

	tests := []struct {
		dim  int
		want Shape
	}{
		{0, Shape{1, 2, 3}},
		{1, Shape{2, 1, 3}},
		{2, Shape{2, 3, 1}},
		{-1, Shape{2, 3, 1}},
		{-3, Shape{1, 2, 3}},
	}
	for _, tt := range tests {
		y, err := x.Unsqueeze(tt.dim)
		require.NoError(t, err)
		assert.Equal(t, tt.want, y.Shape(), "dim %d", tt.dim)
		assert.Equal(t, x.Float64s(), y.Float64s())
	}

	_, err := x.Unsqueeze(3)
	assert.Error(t, err)
}

func TestExpand(t *testing.T) {
	x := arange(t, Shape{1, 3})

	y, err := x.Expand(Shape{2, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 2, 3}, y.Shape())
	assert.True(t, y.HasInternalOverlap())
	assert.Equal(t, []float64{0, 1, 2, 0, 1, 2, 0, 1, 2, 0, 1, 2}, y.Float64s())

	z, err := x.Expand(Shape{4, -1})
	require.NoError(t, err)
	assert.Equal(t, Shape{4, 3}, z.Shape())

	_, err = x.Expand(Shape{2, 4})
	assert.Error(t, err)
	_, err = x.Expand(Shape{3})
	assert.Error(t, err)
	_, err = x.Expand(Shape{-1, 1, 3})
	assert.Error(t, err)
}

func TestSelect(t *testing.T) {
	x := arange(t, Shape{2, 3})

	row, err := x.Select(0, 1)
	require.NoError(t, err)
	assert.Equal(t, Shape{3}, row.Shape())
	assert.Equal(t, []float64{3, 4, 5}, row.Float64s())

	col, err := x.Select(1, -1)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 5}, col.Float64s())

	_, err = x.Select(0, 2)
	assert.Error(t, err)
}

func TestReshape(t *testing.T) {
	x := arange(t, Shape{2, 3})

	y, err := x.Reshape(Shape{3, -1})
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2}, y.Shape())
	assert.True(t, y.SharesStorage(x))

	// Strided input is copied before reshaping.
	tr, err := x.Permute(1, 0)
	require.NoError(t, err)
	flat, err := tr.Reshape(Shape{-1})
	require.NoError(t, err)
	assert.False(t, flat.SharesStorage(x))
	assert.Equal(t, []float64{0, 3, 1, 4, 2, 5}, flat.Float64s())

	empty, err := NewRaw(Shape{4, 0}, Float32)
	require.NoError(t, err)
	out, err := empty.Reshape(Shape{4, -1})
	require.NoError(t, err)
	assert.Equal(t, Shape{4, 0}, out.Shape())

	_, err = x.Reshape(Shape{4, -1})
	assert.Error(t, err)
	_, err = x.Reshape(Shape{-1, -1})
	assert.Error(t, err)
}

func TestContiguous(t *testing.T) {
	x := arange(t, Shape{2, 3})
	assert.Same(t, x, x.Contiguous())

	tr, err := x.Permute(1, 0)
	require.NoError(t, err)
	c := tr.Contiguous()
	assert.True(t, c.IsContiguous())
	assert.Equal(t, tr.Float64s(), c.Float64s())
	assert.Equal(t, []float32{0, 3, 1, 4, 2, 5}, c.AsFloat32())
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name    string
		shapes  []Shape
		want    Shape
		wantErr bool
	}{
		{"column", []Shape{{3, 1}, {3, 5}}, Shape{3, 5}, false},
		{"row", []Shape{{1, 5}, {3, 5}}, Shape{3, 5}, false},
		{"rank", []Shape{{4}, {2, 3, 4}}, Shape{2, 3, 4}, false},
		{"scalar", []Shape{{}, {2, 2}}, Shape{2, 2}, false},
		{"three", []Shape{{2, 1, 1}, {1, 3, 1}, {4}}, Shape{2, 3, 4}, false},
		{"mismatch", []Shape{{3, 4}, {3, 5}}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BroadcastShapes(tt.shapes...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
