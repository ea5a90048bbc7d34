package tensor

import (
	"testing"
)

// RawTensor Tests

func TestRawTensorAsInt64(t *testing.T) {
	raw, _ := NewRaw(Shape{3, 2}, Int64)
	data := raw.AsInt64()

	if len(data) != 6 {
		t.Errorf("AsInt64 length = %d, want 6", len(data))
	}

	// Modify and verify zero-copy
	data[0] = 42
	if raw.AsInt64()[0] != 42 {
		t.Error("AsInt64 should return zero-copy slice")
	}
}

func TestRawTensorAsUint8(t *testing.T) {
	raw, _ := NewRaw(Shape{4, 4}, Uint8)
	data := raw.AsUint8()

	if len(data) != 16 {
		t.Errorf("AsUint8 length = %d, want 16", len(data))
	}

	data[0] = 255
	if raw.AsUint8()[0] != 255 {
		t.Error("AsUint8 should return zero-copy slice")
	}
}

func TestRawTensorAsBool(t *testing.T) {
	raw, _ := NewRaw(Shape{2, 2}, Bool)
	data := raw.AsBool()

	if len(data) != 4 {
		t.Errorf("AsBool length = %d, want 4", len(data))
	}

	data[0] = true
	if !raw.AsBool()[0] {
		t.Error("AsBool should return zero-copy slice")
	}
}

func TestNewRawAllTypes(t *testing.T) {
	types := []struct {
		dtype       DataType
		elementSize int
	}{
		{Float32, 4},
		{Float64, 8},
		{Int32, 4},
		{Int64, 8},
		{Uint8, 1},
		{Bool, 1},
	}

	shape := Shape{2, 3}
	for _, tt := range types {
		raw, err := NewRaw(shape, tt.dtype)
		if err != nil {
			t.Fatalf("NewRaw(%v, %v) failed: %v", shape, tt.dtype, err)
		}

		if raw.DType() != tt.dtype {
			t.Errorf("DType = %v, want %v", raw.DType(), tt.dtype)
		}
		if len(raw.buf.data) != 6*tt.elementSize {
			t.Errorf("buffer size = %d, want %d for type %v", len(raw.buf.data), 6*tt.elementSize, tt.dtype)
		}
	}
}

func TestNewRawInvalidShape(t *testing.T) {
	for _, shape := range []Shape{{-1}, {2, -3}} {
		if _, err := NewRaw(shape, Float32); err == nil {
			t.Errorf("NewRaw(%v) should fail", shape)
		}
	}
}

func TestNewRawZeroSizedDimension(t *testing.T) {
	raw, err := NewRaw(Shape{3, 0}, Float32)
	if err != nil {
		t.Fatalf("NewRaw with a zero-sized dimension failed: %v", err)
	}
	if raw.NumElements() != 0 {
		t.Errorf("NumElements = %d, want 0", raw.NumElements())
	}
	if len(raw.AsFloat32()) != 0 {
		t.Error("AsFloat32 of an empty tensor should be empty")
	}
}

func TestScalarTensor(t *testing.T) {
	s := Scalar(int64(7))
	if s.Rank() != 0 {
		t.Errorf("Rank = %d, want 0", s.Rank())
	}
	if s.NumElements() != 1 {
		t.Errorf("NumElements = %d, want 1", s.NumElements())
	}
	if s.AsInt64()[0] != 7 {
		t.Errorf("value = %d, want 7", s.AsInt64()[0])
	}
}

func TestFromSliceShapeMismatch(t *testing.T) {
	if _, err := FromSlice([]float32{1, 2, 3}, Shape{2, 2}); err == nil {
		t.Error("FromSlice should reject a shape with a different element count")
	}
}

func TestRawTensorSize(t *testing.T) {
	raw, _ := NewRaw(Shape{2, 3, 4}, Float32)
	if raw.Size(0) != 2 || raw.Size(-1) != 4 {
		t.Errorf("Size(0), Size(-1) = %d, %d; want 2, 4", raw.Size(0), raw.Size(-1))
	}
}

func TestDataTypeText(t *testing.T) {
	var dt DataType
	if err := dt.UnmarshalText([]byte("int32")); err != nil {
		t.Fatal(err)
	}
	if dt != Int32 {
		t.Errorf("UnmarshalText = %v, want int32", dt)
	}
	if err := dt.UnmarshalText([]byte("complex64")); err == nil {
		t.Error("UnmarshalText should reject unknown names")
	}
}
