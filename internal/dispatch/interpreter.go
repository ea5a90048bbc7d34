// Package dispatch runs registered operations on batched values.
//
// An Interpreter holds one vmap level. Each call unwraps its arguments at
// that level, hands unbatched calls straight to the primitive and everything
// else to the operation's batching rule, and wraps the result again. Map
// builds a level from per-argument batch axes and runs a function under it.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/born-ml/vmap/internal/registry"
	"github.com/born-ml/vmap/internal/tensor"
	"github.com/born-ml/vmap/internal/vmap"
)

// ErrUnknownOp is returned for an operation that is not registered.
var ErrUnknownOp = errors.New("dispatch: unknown operation")

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger that receives a Debug record per call.
func WithLogger(logger *slog.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

// Interpreter dispatches calls at a single vmap level.
type Interpreter struct {
	layer  vmap.Layer
	reg    *registry.Registry
	logger *slog.Logger
}

// NewInterpreter creates an interpreter for layer over reg. A nil reg
// means registry.Default().
func NewInterpreter(layer vmap.Layer, reg *registry.Registry, opts ...Option) *Interpreter {
	if reg == nil {
		reg = registry.Default()
	}
	in := &Interpreter{
		layer:  layer,
		reg:    reg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Layer returns the level the interpreter runs at.
func (in *Interpreter) Layer() vmap.Layer {
	return in.layer
}

// Call runs the operation name.overload on args. params is the operation's
// parameter struct (see package registry), or nil for its defaults.
//
// In-place operations return their first argument. Errors from rules and
// primitives are returned unchanged.
func (in *Interpreter) Call(name, overload string, params any, args ...vmap.Value) (vmap.Value, error) {
	key := registry.OpKey{Name: name, Overload: overload}
	e, ok := in.reg.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOp, key)
	}
	if len(args) != e.Arity {
		return nil, fmt.Errorf("dispatch: %s takes %d arguments, got %d", key, e.Arity, len(args))
	}

	ops := make([]vmap.Operand, len(args))
	batched := false
	for i, arg := range args {
		op, err := vmap.Unwrap(arg, in.layer.Level)
		if err != nil {
			return nil, err
		}
		ops[i] = op
		batched = batched || op.IsBatched()
	}

	// Random operations always go through their rule: the randomness mode
	// decides what an unbatched call means.
	if !batched && e.Kind != registry.KindRandom {
		raw := make([]*tensor.RawTensor, len(ops))
		for i, op := range ops {
			raw[i] = op.Tensor
		}
		out, err := e.Primitive(raw, params)
		if err != nil {
			return nil, err
		}
		in.logCall(key, ops, vmap.NoBatchDim, true)
		if e.Kind.Mutates() {
			return args[0], nil
		}
		return out, nil
	}

	out, err := e.Rule(registry.Call{Layer: in.layer, Args: ops, Params: params})
	if err != nil {
		in.logger.Debug("batching rule failed",
			"op", key.String(),
			"level", in.layer.Level,
			"error", err,
		)
		return nil, err
	}
	in.logCall(key, ops, out.BDim, false)
	if e.Kind.Mutates() {
		return args[0], nil
	}
	return vmap.MakeBatched(out.Tensor, out.BDim, in.layer.Level), nil
}

func (in *Interpreter) logCall(key registry.OpKey, ops []vmap.Operand, outDim vmap.BatchDim, direct bool) {
	if !in.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	inDims := make([]int, len(ops))
	for i, op := range ops {
		inDims[i] = int(op.BDim)
	}
	in.logger.Debug("dispatched",
		"op", key.Name,
		"overload", key.Overload,
		"level", in.layer.Level,
		"in_dims", inDims,
		"out_dim", int(outDim),
		"short_circuit", direct,
	)
}
