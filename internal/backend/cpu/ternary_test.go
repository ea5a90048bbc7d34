package cpu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/vmap/internal/parallel"
	"github.com/born-ml/vmap/internal/tensor"
)

func TestAddcmulBroadcastsThreeOperands(t *testing.T) {
	cpu := newTestBackend()
	self := fromSlice(t, []float32{1, 2, 3}, 3)
	t1 := fromSlice(t, []float32{1, 2}, 2, 1)
	t2 := fromSlice(t, []int32{1, 1, 2}, 3)

	out, err := cpu.Addcmul(self, t1, t2, 0.5)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
	assert.Equal(t, []float32{1.5, 2.5, 4, 2, 3, 5}, out.AsFloat32())
}

func TestAddcmulIntegers(t *testing.T) {
	cpu := newTestBackend()
	self := fromSlice(t, []int64{1, 2}, 2)
	t1 := fromSlice(t, []int64{3, 4}, 2)
	t2 := fromSlice(t, []int64{1, 1}, 2)

	out, err := cpu.Addcmul(self, t1, t2, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 10}, out.AsInt64())

	_, err = cpu.Addcmul(self, t1, t2, 0.5)
	assert.ErrorContains(t, err, "argument value must not be a floating point number")
}

func TestAddcdiv(t *testing.T) {
	cpu := newTestBackend()
	self := fromSlice(t, []float32{1, 1}, 2)

	out, err := cpu.Addcdiv(self, fromSlice(t, []float32{1, 3}, 2), fromSlice(t, []float32{2, 4}, 2), 2)
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 2.5}, out.AsFloat32())

	ints := fromSlice(t, []int64{1, 2}, 2)
	_, err = cpu.Addcdiv(self, ints, ints, 1)
	assert.ErrorContains(t, err, "integer division with addcdiv is not supported")
}

func TestLerp(t *testing.T) {
	cpu := newTestBackend()
	start := fromSlice(t, []float32{0, 10}, 2)
	end := fromSlice(t, []float32{10, 20}, 2)

	out, err := cpu.Lerp(start, end, fromSlice(t, []float32{0.25, 0.75}, 2))
	require.NoError(t, err)
	assert.Equal(t, []float32{2.5, 17.5}, out.AsFloat32())

	ints := fromSlice(t, []int64{0, 1}, 2)
	_, err = cpu.Lerp(ints, ints, ints)
	assert.ErrorContains(t, err, "lerp: not implemented for int64")
}

func TestClampTensorBounds(t *testing.T) {
	cpu := newTestBackend()
	x := fromSlice(t, []float32{-2, 0.5, 5}, 3)

	// The last upper bound is below the lower one and wins.
	out, err := cpu.Clamp(x, tensor.Scalar(float32(0)), fromSlice(t, []float32{1, 1, -1}, 3))
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0.5, -1}, out.AsFloat32())

	ints := fromSlice(t, []int32{-5, 5}, 2)
	out, err = cpu.Clamp(ints, tensor.Scalar(int64(-1)), tensor.Scalar(int64(1)))
	require.NoError(t, err)
	assert.Equal(t, []int32{-1, 1}, out.AsInt32())

	flags := fromSlice(t, []bool{true}, 1)
	_, err = cpu.Clamp(flags, flags, flags)
	assert.ErrorContains(t, err, "clamp: not implemented for bool")
}

func TestTernaryShapeMismatch(t *testing.T) {
	cpu := newTestBackend()
	_, err := cpu.Clamp(fromSlice(t, []float32{1, 2}, 2), fromSlice(t, []float32{1, 2, 3}, 3), tensor.Scalar(float32(1)))
	assert.ErrorContains(t, err, "clamp")
}

func TestTernaryParallelMatchesSequential(t *testing.T) {
	n := 10000
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = float64(i)
	}
	x := fromSlice(t, vals, n)
	lo := tensor.Scalar(100.0)
	hi := tensor.Scalar(9000.0)

	par := NewWithConfig(Config{Parallel: parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 100}, Seed: 1})
	seq := NewWithConfig(Config{Parallel: parallel.Sequential(), Seed: 1})

	p, err := par.Clamp(x, lo, hi)
	require.NoError(t, err)
	s, err := seq.Clamp(x, lo, hi)
	require.NoError(t, err)
	assert.Equal(t, s.AsFloat64(), p.AsFloat64())
}

func TestMoreActivationBackward(t *testing.T) {
	cpu := newTestBackend()

	hs, err := cpu.HardsigmoidBackward(fromSlice(t, []float32{6, 6, 6}, 3), fromSlice(t, []float32{-4, 0, 3}, 3))
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 0}, hs.AsFloat32())

	hw, err := cpu.HardswishBackward(fromSlice(t, []float32{1, 1, 1, 1}, 4), fromSlice(t, []float32{-4, 0, 3, 4}, 4))
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0.5, 1.5, 1}, hw.AsFloat32())

	grad := fromSlice(t, []float32{1, 1, 1, 1}, 4)
	x := fromSlice(t, []float32{-1, 0.5, 0.2, 2}, 4)
	hk, err := cpu.HardshrinkBackward(grad, x, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0, 1}, hk.AsFloat32())
	sk, err := cpu.SoftshrinkBackward(grad, x, 0.5)
	require.NoError(t, err)
	assert.Equal(t, hk.AsFloat32(), sk.AsFloat32())
}

func TestGeluBackward(t *testing.T) {
	cpu := newTestBackend()
	grad := fromSlice(t, []float64{2}, 1)
	zero := fromSlice(t, []float64{0}, 1)

	for _, approximate := range []string{"none", "tanh"} {
		out, err := cpu.GeluBackward(grad, zero, approximate)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, out.AsFloat64()[0], 1e-12, approximate)
	}

	// Far from zero both forms approach the identity.
	big := fromSlice(t, []float64{10}, 1)
	for _, approximate := range []string{"none", "tanh"} {
		out, err := cpu.GeluBackward(grad, big, approximate)
		require.NoError(t, err)
		assert.InDelta(t, 2.0, out.AsFloat64()[0], 1e-6, approximate)
	}

	_, err := cpu.GeluBackward(grad, zero, "sigmoid")
	assert.ErrorContains(t, err, "approximate argument must be either none or tanh")
}

func TestLogitBackward(t *testing.T) {
	cpu := newTestBackend()
	grad := fromSlice(t, []float64{1, 1}, 2)

	out, err := cpu.LogitBackward(grad, fromSlice(t, []float64{0.5, 2}, 2), nil)
	require.NoError(t, err)
	assert.Equal(t, 4.0, out.AsFloat64()[0])
	assert.True(t, math.IsNaN(out.AsFloat64()[1]))

	eps := 0.1
	out, err = cpu.LogitBackward(grad, fromSlice(t, []float64{0.5, 0.05}, 2), &eps)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 0}, out.AsFloat64())
}

func TestEluBackward(t *testing.T) {
	cpu := newTestBackend()
	grad := fromSlice(t, []float64{2, 2, 2}, 3)

	out, err := cpu.EluBackward(grad, fromSlice(t, []float64{1, 0, -1}, 3), 1, 1, 1, false)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 2, 2 * math.Exp(-1)}, out.AsFloat64(), 1e-12)

	// From the forward output: elu(x) + alpha is exp(x) for x <= 0.
	out, err = cpu.EluBackward(grad, fromSlice(t, []float64{1, -0.5, 0}, 3), 1, 1, 1, true)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 1, 2}, out.AsFloat64())

	_, err = cpu.EluBackward(grad, grad, -1, 1, 1, true)
	assert.ErrorContains(t, err, "negative slope")
}

func TestSoftplusBackward(t *testing.T) {
	cpu := newTestBackend()
	out, err := cpu.SoftplusBackward(fromSlice(t, []float64{2, 2}, 2), fromSlice(t, []float64{0, 30}, 2), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, out.AsFloat64())
}
