package dispatch

import (
	"fmt"

	"github.com/born-ml/vmap/internal/registry"
	"github.com/born-ml/vmap/internal/tensor"
	"github.com/born-ml/vmap/internal/vmap"
)

// Config describes one vmap level.
type Config struct {
	// InDims holds the batch axis of each input, or vmap.NoBatchDim for
	// inputs shared by every batch element. Axes count from the front. Nil
	// batches every input at 0.
	InDims []vmap.BatchDim

	// OutDim is the axis the batch ends up at in the output.
	OutDim int

	Randomness vmap.Randomness
}

// DefaultConfig batches every input and the output at axis 0 and rejects
// random operations.
func DefaultConfig() Config {
	return Config{Randomness: vmap.RandomnessError}
}

// Func is a per-example function: it sees logical values and calls
// operations through in.
type Func func(in *Interpreter, args ...vmap.Value) (vmap.Value, error)

// level is the only level Map creates; nested maps are not supported.
const level = 1

// Map vectorizes fn over the batch axes named by cfg. The returned function
// takes plain arrays and returns a plain array with the batch at OutDim.
// Outputs that do not depend on a batched input are expanded to the batch
// size.
func Map(fn Func, cfg Config, reg *registry.Registry, opts ...Option) func(args ...*tensor.RawTensor) (*tensor.RawTensor, error) {
	return func(args ...*tensor.RawTensor) (*tensor.RawTensor, error) {
		inDims, err := resolveInDims(cfg.InDims, args)
		if err != nil {
			return nil, err
		}
		batchSize, err := commonBatchSize(args, inDims)
		if err != nil {
			return nil, err
		}

		layer := vmap.Layer{Level: level, BatchSize: batchSize, Randomness: cfg.Randomness}
		in := NewInterpreter(layer, reg, opts...)

		values := make([]vmap.Value, len(args))
		for i, arg := range args {
			values[i] = vmap.MakeBatched(arg, inDims[i], level)
		}

		res, err := fn(in, values...)
		if err != nil {
			return nil, err
		}
		out, err := vmap.Unwrap(res, level)
		if err != nil {
			return nil, err
		}
		if !out.IsBatched() {
			if out, err = vmap.EnsureHasBatchDim(out, batchSize); err != nil {
				return nil, err
			}
		}
		return out.Tensor.MoveAxis(int(out.BDim), cfg.OutDim)
	}
}

func resolveInDims(dims []vmap.BatchDim, args []*tensor.RawTensor) ([]vmap.BatchDim, error) {
	if dims == nil {
		dims = make([]vmap.BatchDim, len(args))
	}
	if len(dims) != len(args) {
		return nil, fmt.Errorf("dispatch: %d in_dims for %d inputs", len(dims), len(args))
	}
	out := make([]vmap.BatchDim, len(dims))
	for i, d := range dims {
		if !d.IsBatched() {
			out[i] = vmap.NoBatchDim
			continue
		}
		n, err := tensor.NormalizeDim(int(d), args[i].Rank())
		if err != nil {
			return nil, fmt.Errorf("dispatch: in_dim of input %d: %w", i, err)
		}
		out[i] = vmap.BatchDim(n)
	}
	return out, nil
}

func commonBatchSize(args []*tensor.RawTensor, dims []vmap.BatchDim) (int, error) {
	size := -1
	for i, d := range dims {
		if !d.IsBatched() {
			continue
		}
		n := args[i].Size(int(d))
		switch {
		case size < 0:
			size = n
		case n != size:
			msg := fmt.Sprintf("expected all batched inputs to have the same batch size, got %d and %d (input %d)", size, n, i)
			return 0, &vmap.UsageError{Code: vmap.CodeBatchSizeMismatch, Op: "vmap", Message: msg}
		}
	}
	if size < 0 {
		return 0, fmt.Errorf("dispatch: at least one input must be batched")
	}
	return size, nil
}
