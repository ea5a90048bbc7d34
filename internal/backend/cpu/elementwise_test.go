package cpu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/vmap/internal/parallel"
	"github.com/born-ml/vmap/internal/tensor"
)

func newTestBackend() *CPUBackend {
	cfg := DefaultConfig()
	cfg.Seed = 42
	return NewWithConfig(cfg)
}

func fromSlice[T tensor.DType](t *testing.T, data []T, shape ...int) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromSlice(data, tensor.Shape(shape))
	require.NoError(t, err)
	return raw
}

func TestAddBroadcastsAndPromotes(t *testing.T) {
	cpu := newTestBackend()
	a := fromSlice(t, []int32{1, 2, 3, 4, 5, 6}, 2, 3)
	b := fromSlice(t, []float32{10, 20, 30}, 3)

	out, err := cpu.Add(a, b, 1)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
	assert.Equal(t, tensor.Float32, out.DType())
	assert.Equal(t, []float32{11, 22, 33, 14, 25, 36}, out.AsFloat32())

	out, err = cpu.Add(a, fromSlice(t, []int32{1, 1, 1}, 3), 2)
	require.NoError(t, err)
	assert.Equal(t, []int32{3, 4, 5, 6, 7, 8}, out.AsInt32())
}

func TestAddZeroDimDoesNotWiden(t *testing.T) {
	cpu := newTestBackend()
	a := fromSlice(t, []float32{1, 2}, 2)

	out, err := cpu.Add(a, tensor.Scalar(0.5), 1)
	require.NoError(t, err)
	assert.Equal(t, tensor.Float32, out.DType())
	assert.Equal(t, []float32{1.5, 2.5}, out.AsFloat32())
}

func TestAddRejectsFractionalAlphaForIntegers(t *testing.T) {
	cpu := newTestBackend()
	a := fromSlice(t, []int64{1, 2}, 2)

	_, err := cpu.Add(a, a, 0.5)
	assert.Error(t, err)
}

func TestAddShapeMismatch(t *testing.T) {
	cpu := newTestBackend()
	_, err := cpu.Add(fromSlice(t, []float32{1, 2, 3}, 3), fromSlice(t, []float32{1, 2}, 2), 1)
	assert.Error(t, err)
}

func TestSubRejectsBool(t *testing.T) {
	cpu := newTestBackend()
	b := fromSlice(t, []bool{true, false}, 2)

	_, err := cpu.Sub(b, b, 1)
	assert.Error(t, err)
}

func TestRsub(t *testing.T) {
	cpu := newTestBackend()
	out, err := cpu.Rsub(fromSlice(t, []float32{1, 2}, 2), fromSlice(t, []float32{10, 10}, 2), 2)
	require.NoError(t, err)
	assert.Equal(t, []float32{8, 6}, out.AsFloat32())
}

func TestDivRoundingModes(t *testing.T) {
	cpu := newTestBackend()
	a := fromSlice(t, []int64{7, -7}, 2)
	b := fromSlice(t, []int64{2, 2}, 2)

	out, err := cpu.Div(a, b, RoundNone)
	require.NoError(t, err)
	assert.Equal(t, tensor.DefaultFloat, out.DType())
	assert.Equal(t, []float32{3.5, -3.5}, out.AsFloat32())

	out, err = cpu.Div(a, b, RoundTrunc)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, -3}, out.AsInt64())

	out, err = cpu.Div(a, b, RoundFloor)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, -4}, out.AsInt64())

	_, err = cpu.Div(a, b, "round")
	assert.Error(t, err)
}

func TestIntegerDivisionByZero(t *testing.T) {
	cpu := newTestBackend()
	a := fromSlice(t, []int32{1, 2}, 2)
	zero := fromSlice(t, []int32{1, 0}, 2)

	_, err := cpu.FloorDivide(a, zero)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ZeroDivisionError")

	_, err = cpu.Fmod(a, zero)
	assert.Error(t, err)
}

func TestRemainderAndFmodSigns(t *testing.T) {
	cpu := newTestBackend()
	a := fromSlice(t, []float64{-3, 3}, 2)
	b := fromSlice(t, []float64{2, -2}, 2)

	rem, err := cpu.Remainder(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -1}, rem.AsFloat64())

	mod, err := cpu.Fmod(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 1}, mod.AsFloat64())

	irem, err := cpu.Remainder(fromSlice(t, []int64{-3, 3}, 2), fromSlice(t, []int64{2, -2}, 2))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, -1}, irem.AsInt64())
}

func TestPow(t *testing.T) {
	cpu := newTestBackend()
	out, err := cpu.Pow(fromSlice(t, []int64{2, 3, -1}, 3), fromSlice(t, []int64{10, 0, -3}, 3))
	require.NoError(t, err)
	assert.Equal(t, []int64{1024, 1, -1}, out.AsInt64())

	_, err = cpu.Pow(fromSlice(t, []int64{2}, 1), fromSlice(t, []int64{-1}, 1))
	assert.Error(t, err)
}

func TestMaximumPropagatesNaNAndFmaxIgnoresIt(t *testing.T) {
	cpu := newTestBackend()
	a := fromSlice(t, []float64{math.NaN(), 1, 5}, 3)
	b := fromSlice(t, []float64{2, math.NaN(), 3}, 3)

	mx, err := cpu.Maximum(a, b)
	require.NoError(t, err)
	got := mx.AsFloat64()
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.Equal(t, 5.0, got[2])

	fm, err := cpu.Fmax(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 1, 5}, fm.AsFloat64())

	fn, err := cpu.Fmin(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 1, 3}, fn.AsFloat64())
}

func TestClamp(t *testing.T) {
	cpu := newTestBackend()
	x := fromSlice(t, []int32{-5, 0, 5}, 3)

	lo, err := cpu.ClampMin(x, tensor.Scalar(int64(-1)))
	require.NoError(t, err)
	assert.Equal(t, []int32{-1, 0, 5}, lo.AsInt32())

	hi, err := cpu.ClampMax(x, tensor.Scalar(int64(1)))
	require.NoError(t, err)
	assert.Equal(t, []int32{-5, 0, 1}, hi.AsInt32())
}

func TestFloatOnlyKernelsPromoteIntegers(t *testing.T) {
	cpu := newTestBackend()
	a := fromSlice(t, []int32{3}, 1)
	b := fromSlice(t, []int32{4}, 1)

	h, err := cpu.Hypot(a, b)
	require.NoError(t, err)
	assert.Equal(t, tensor.DefaultFloat, h.DType())
	assert.Equal(t, []float32{5}, h.AsFloat32())

	at, err := cpu.Atan2(fromSlice(t, []float64{1}, 1), fromSlice(t, []float64{1}, 1))
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/4, at.AsFloat64()[0], 1e-12)
}

func TestLogaddexp(t *testing.T) {
	cpu := newTestBackend()
	a := fromSlice(t, []float64{0, math.Inf(-1), math.Inf(1)}, 3)
	b := fromSlice(t, []float64{0, math.Inf(-1), math.Inf(1)}, 3)

	out, err := cpu.Logaddexp(a, b)
	require.NoError(t, err)
	got := out.AsFloat64()
	assert.InDelta(t, math.Ln2, got[0], 1e-12)
	assert.True(t, math.IsInf(got[1], -1))
	assert.True(t, math.IsInf(got[2], 1))

	out, err = cpu.Logaddexp2(fromSlice(t, []float64{1}, 1), fromSlice(t, []float64{1}, 1))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, out.AsFloat64()[0], 1e-12)
}

func TestNextafterFloat32(t *testing.T) {
	cpu := newTestBackend()
	out, err := cpu.Nextafter(fromSlice(t, []float32{1}, 1), fromSlice(t, []float32{2}, 1))
	require.NoError(t, err)
	assert.Equal(t, []float32{math.Nextafter32(1, 2)}, out.AsFloat32())
}

func TestCopysignHeavisideXlogy(t *testing.T) {
	cpu := newTestBackend()

	cs, err := cpu.Copysign(fromSlice(t, []float64{3, -3}, 2), fromSlice(t, []float64{-1, 1}, 2))
	require.NoError(t, err)
	assert.Equal(t, []float64{-3, 3}, cs.AsFloat64())

	hv, err := cpu.Heaviside(fromSlice(t, []float64{-2, 0, 2}, 3), fromSlice(t, []float64{0.5}, 1))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1}, hv.AsFloat64())

	xl, err := cpu.Xlogy(fromSlice(t, []float64{0, 2}, 2), fromSlice(t, []float64{0, math.E}, 2))
	require.NoError(t, err)
	assert.Equal(t, 0.0, xl.AsFloat64()[0])
	assert.InDelta(t, 2.0, xl.AsFloat64()[1], 1e-12)
}

func TestGcdLcm(t *testing.T) {
	cpu := newTestBackend()
	a := fromSlice(t, []int64{12, -4, 0}, 3)
	b := fromSlice(t, []int64{18, 6, 0}, 3)

	g, err := cpu.Gcd(a, b)
	require.NoError(t, err)
	assert.Equal(t, []int64{6, 2, 0}, g.AsInt64())

	l, err := cpu.Lcm(a, b)
	require.NoError(t, err)
	assert.Equal(t, []int64{36, 12, 0}, l.AsInt64())

	_, err = cpu.Gcd(fromSlice(t, []float32{1}, 1), fromSlice(t, []float32{1}, 1))
	assert.Error(t, err)
}

func TestBitwise(t *testing.T) {
	cpu := newTestBackend()
	a := fromSlice(t, []int32{12, -8}, 2)
	b := fromSlice(t, []int32{10, 2}, 2)

	and, err := cpu.BitwiseAnd(a, b)
	require.NoError(t, err)
	assert.Equal(t, []int32{8, 0}, and.AsInt32())

	xor, err := cpu.BitwiseXor(a, b)
	require.NoError(t, err)
	assert.Equal(t, []int32{6, -6}, xor.AsInt32())

	shl, err := cpu.BitwiseLeftShift(a, b)
	require.NoError(t, err)
	assert.Equal(t, []int32{12 << 10, -32}, shl.AsInt32())

	shr, err := cpu.BitwiseRightShift(a, b)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, -2}, shr.AsInt32())

	bools, err := cpu.BitwiseOr(fromSlice(t, []bool{true, false}, 2), fromSlice(t, []bool{false, false}, 2))
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, bools.AsBool())
}

func TestActivationBackward(t *testing.T) {
	cpu := newTestBackend()
	grad := fromSlice(t, []float32{1, 1, 1}, 3)
	x := fromSlice(t, []float32{-1, 0, 2}, 3)

	th, err := cpu.ThresholdBackward(grad, x, 0)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 1}, th.AsFloat32())

	lr, err := cpu.LeakyReluBackward(grad, x, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5, 1}, lr.AsFloat32())

	ht, err := cpu.HardtanhBackward(grad, x, -1, 1)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 0}, ht.AsFloat32())

	sg, err := cpu.SigmoidBackward(grad, fromSlice(t, []float32{0.5, 0.5, 0.5}, 3))
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, 0.25, 0.25}, sg.AsFloat32())

	tn, err := cpu.TanhBackward(grad, fromSlice(t, []float32{0, 0.5, 1}, 3))
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0.75, 0}, tn.AsFloat32())
}

func TestWrapScalar(t *testing.T) {
	tests := []struct {
		name  string
		x     tensor.DataType
		s     float64
		float bool
		want  tensor.DataType
	}{
		{"float keeps dtype", tensor.Float32, 2.5, false, tensor.Float32},
		{"int keeps dtype", tensor.Int32, 2, false, tensor.Int32},
		{"fractional promotes int", tensor.Int32, 2.5, false, tensor.DefaultFloat},
		{"int promotes bool", tensor.Bool, 2, false, tensor.Int64},
		{"fractional promotes bool", tensor.Bool, 0.5, false, tensor.DefaultFloat},
		{"whole float literal promotes int", tensor.Int32, 2, true, tensor.DefaultFloat},
		{"float literal keeps float", tensor.Float64, 2, true, tensor.Float64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, err := tensor.NewRaw(tensor.Shape{2}, tt.x)
			require.NoError(t, err)
			wrap := WrapScalar
			if tt.float {
				wrap = WrapFloat
			}
			assert.Equal(t, tt.want, tensor.ResultType(x, wrap(x, tt.s)))
		})
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	n := 10000
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = float64(i)
	}
	a := fromSlice(t, vals, n)

	par := NewWithConfig(Config{Parallel: parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 100}, Seed: 1})
	seq := NewWithConfig(Config{Parallel: parallel.Sequential(), Seed: 1})

	p, err := par.Mul(a, a)
	require.NoError(t, err)
	s, err := seq.Mul(a, a)
	require.NoError(t, err)
	assert.Equal(t, s.AsFloat64(), p.AsFloat64())
}
