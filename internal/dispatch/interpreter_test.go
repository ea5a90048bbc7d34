package dispatch

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/vmap/internal/backend/cpu"
	"github.com/born-ml/vmap/internal/parallel"
	"github.com/born-ml/vmap/internal/registry"
	"github.com/born-ml/vmap/internal/tensor"
	"github.com/born-ml/vmap/internal/vmap"
)

func newRegistry() *registry.Registry {
	cfg := cpu.DefaultConfig()
	cfg.Parallel = parallel.Sequential()
	cfg.Seed = 11
	return registry.New(cpu.NewWithConfig(cfg))
}

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func floats(t *testing.T, data []float32, shape ...int) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromSlice(data, tensor.Shape(shape))
	require.NoError(t, err)
	return raw
}

func layer(batchSize int, r vmap.Randomness) vmap.Layer {
	return vmap.Layer{Level: 1, BatchSize: batchSize, Randomness: r}
}

func TestCallUnknownOp(t *testing.T) {
	in := NewInterpreter(layer(2, vmap.RandomnessError), newRegistry(), quiet())
	_, err := in.Call("no_such_op", "", nil)
	assert.ErrorIs(t, err, ErrUnknownOp)
}

func TestCallArity(t *testing.T) {
	in := NewInterpreter(layer(2, vmap.RandomnessError), newRegistry(), quiet())
	x := floats(t, []float32{1}, 1)
	_, err := in.Call("add", "Tensor", nil, x)
	assert.ErrorContains(t, err, "add.Tensor takes 2 arguments, got 1")
}

func TestCallShortCircuitsUnbatched(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	in := NewInterpreter(layer(2, vmap.RandomnessError), newRegistry(), WithLogger(logger))

	x := floats(t, []float32{1, 2}, 2)
	y := floats(t, []float32{3, 4}, 2)
	out, err := in.Call("mul", "Tensor", nil, x, y)
	require.NoError(t, err)

	raw, ok := out.(*tensor.RawTensor)
	require.True(t, ok, "unbatched call returned %T", out)
	assert.Equal(t, []float32{3, 8}, raw.AsFloat32())
	assert.Contains(t, buf.String(), "op=mul")
	assert.Contains(t, buf.String(), "short_circuit=true")
}

func TestCallWrapsBatchedResult(t *testing.T) {
	in := NewInterpreter(layer(3, vmap.RandomnessError), newRegistry(), quiet())

	x := vmap.MakeBatched(floats(t, []float32{1, 2, 3, 4, 5, 6}, 2, 3), 1, 1)
	y := floats(t, []float32{10, 20}, 2)
	out, err := in.Call("add", "Tensor", registry.Alpha{Alpha: 1}, x, y)
	require.NoError(t, err)

	b, ok := out.(*vmap.BatchedTensor)
	require.True(t, ok, "batched call returned %T", out)
	assert.Equal(t, 1, b.Level())
	assert.Equal(t, 3, b.BatchSize())
	assert.Equal(t, tensor.Shape{2}, b.Shape())
	assert.Equal(t, []float64{11, 24, 12, 25, 13, 26}, b.Value().Float64s())
}

func TestCallRejectsForeignLevel(t *testing.T) {
	in := NewInterpreter(layer(2, vmap.RandomnessError), newRegistry(), quiet())
	x := vmap.MakeBatched(floats(t, []float32{1, 2}, 2), 0, 2)
	_, err := in.Call("mul", "Tensor", nil, x, x)

	var usage *vmap.UsageError
	require.ErrorAs(t, err, &usage)
	assert.Equal(t, vmap.CodeLevelMismatch, usage.Code)
}

func TestCallInplaceReturnsReceiver(t *testing.T) {
	in := NewInterpreter(layer(2, vmap.RandomnessError), newRegistry(), quiet())
	raw := floats(t, []float32{1, 2, 3, 4}, 2, 2)
	self := vmap.MakeBatched(raw, 0, 1)

	out, err := in.Call("add_", "Scalar", registry.ScalarAlpha{Value: 1, Alpha: 1}, self)
	require.NoError(t, err)
	assert.Same(t, self, out)
	assert.Equal(t, []float32{2, 3, 4, 5}, raw.AsFloat32())

	plain := floats(t, []float32{1, 1}, 2)
	out, err = in.Call("mul_", "Tensor", nil, plain, plain)
	require.NoError(t, err)
	assert.Same(t, plain, out)
}

func TestCallRandomAlwaysUsesRule(t *testing.T) {
	mean := floats(t, []float32{0, 0}, 2)
	std := floats(t, []float32{1, 1}, 2)

	in := NewInterpreter(layer(4, vmap.RandomnessError), newRegistry(), quiet())
	_, err := in.Call("normal", "Tensor_Tensor", nil, mean, std)
	assert.ErrorIs(t, err, vmap.ErrRandomness)

	in = NewInterpreter(layer(4, vmap.RandomnessDifferent), newRegistry(), quiet())
	out, err := in.Call("normal", "Tensor_Tensor", nil, mean, std)
	require.NoError(t, err)
	b, ok := out.(*vmap.BatchedTensor)
	require.True(t, ok)
	assert.Equal(t, tensor.Shape{4, 2}, b.Value().Shape())

	in = NewInterpreter(layer(4, vmap.RandomnessSame), newRegistry(), quiet())
	out, err = in.Call("normal", "Tensor_Tensor", nil, mean, std)
	require.NoError(t, err)
	raw, ok := out.(*tensor.RawTensor)
	require.True(t, ok)
	assert.Equal(t, tensor.Shape{2}, raw.Shape())
}

func TestCallPropagatesPrimitiveErrors(t *testing.T) {
	in := NewInterpreter(layer(2, vmap.RandomnessError), newRegistry(), quiet())
	x := vmap.MakeBatched(floats(t, []float32{1, 2, 3, 4}, 2, 2), 0, 1)
	y := floats(t, []float32{1, 2, 3}, 3)

	_, err := in.Call("add", "Tensor", nil, x, y)
	require.Error(t, err)
	var usage *vmap.UsageError
	assert.False(t, errors.As(err, &usage))
}
