package vmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/vmap/internal/tensor"
)

func TestMakeBatchedAndUnwrap(t *testing.T) {
	x := arangeShape(2, 5, 3)

	v := MakeBatched(x, 1, 1)
	bt, ok := v.(*BatchedTensor)
	require.True(t, ok)
	assert.Equal(t, tensor.Shape{2, 3}, bt.Shape())
	assert.Equal(t, 5, bt.BatchSize())
	assert.Equal(t, tensor.Float32, bt.DType())
	assert.Equal(t, 1, bt.Level())

	o, err := Unwrap(v, 1)
	require.NoError(t, err)
	assert.Same(t, x, o.Tensor)
	assert.Equal(t, BatchDim(1), o.BDim)

	assert.Same(t, x, MakeBatched(x, NoBatchDim, 1))

	plain, err := Unwrap(x, 1)
	require.NoError(t, err)
	assert.False(t, plain.IsBatched())
}

func TestUnwrapLevelMismatch(t *testing.T) {
	v := MakeBatched(arangeShape(2, 3), 0, 2)

	_, err := Unwrap(v, 1)
	require.Error(t, err)
	var usage *UsageError
	require.True(t, errors.As(err, &usage))
	assert.Equal(t, CodeLevelMismatch, usage.Code)

	_, err = Unwrap(nil, 1)
	assert.Error(t, err)
}

func TestRandomnessText(t *testing.T) {
	for _, r := range []Randomness{RandomnessError, RandomnessSame, RandomnessDifferent} {
		text, err := r.MarshalText()
		require.NoError(t, err)

		var back Randomness
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, r, back)
	}

	var r Randomness
	assert.Error(t, r.UnmarshalText([]byte("sometimes")))
	_, err := Randomness(7).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "Randomness(7)", Randomness(7).String())
}

func TestUsageErrorIs(t *testing.T) {
	err := error(&UsageError{Code: CodeBatchedMask, Op: "masked_select", Message: "boom"})
	assert.True(t, errors.Is(err, ErrBatchedMask))
	assert.False(t, errors.Is(err, ErrRandomness))
	assert.Equal(t, "vmap: masked_select: boom", err.Error())
	assert.Equal(t, "vmap: boom", (&UsageError{Message: "boom"}).Error())
}
