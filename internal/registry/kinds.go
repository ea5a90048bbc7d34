package registry

import (
	"fmt"

	"github.com/born-ml/vmap/internal/tensor"
	"github.com/born-ml/vmap/internal/vmap"
)

func paramsAs[P any](key OpKey, raw any, defaults P) (P, error) {
	if raw == nil {
		return defaults, nil
	}
	p, ok := raw.(P)
	if !ok {
		var zero P
		return zero, fmt.Errorf("registry: %s expects parameters of type %T, got %T", key, zero, raw)
	}
	return p, nil
}

func newEntry[P any](key string, kind Kind, arity int, defaults P) *Entry {
	return &Entry{
		Key:      ParseOpKey(key),
		Kind:     kind,
		Arity:    arity,
		Defaults: defaults,
		decode: func(decode func(any) error) (any, error) {
			p := defaults
			if err := decode(&p); err != nil {
				return nil, err
			}
			return p, nil
		},
	}
}

// binaryLike registers op under a rule built by wrap from the vmap package.
func binaryLike[P any](r *Registry, key string, kind Kind, defaults P, op vmap.BinaryOp[P], wrap func(vmap.BinaryOp[P]) vmap.BinaryRule[P]) {
	rule := wrap(op)
	e := newEntry(key, kind, 2, defaults)
	e.Rule = func(c Call) (vmap.Operand, error) {
		p, err := paramsAs(e.Key, c.Params, defaults)
		if err != nil {
			return vmap.Operand{}, err
		}
		return rule(c.Args[0], c.Args[1], p)
	}
	e.Primitive = func(args []*tensor.RawTensor, params any) (*tensor.RawTensor, error) {
		p, err := paramsAs(e.Key, params, defaults)
		if err != nil {
			return nil, err
		}
		return op(args[0], args[1], p)
	}
	r.add(e)
}

func binary[P any](r *Registry, key string, defaults P, op vmap.BinaryOp[P]) {
	binaryLike(r, key, KindBinary, defaults, op, vmap.BinaryPointwise[P])
}

func comparison[P any](r *Registry, key string, defaults P, op vmap.BinaryOp[P]) {
	binaryLike(r, key, KindComparison, defaults, op, vmap.ComparisonPointwise[P])
}

func unary[P any](r *Registry, key string, defaults P, op vmap.UnaryOp[P]) {
	rule := vmap.UnaryPointwise(op)
	e := newEntry(key, KindUnary, 1, defaults)
	e.Rule = func(c Call) (vmap.Operand, error) {
		p, err := paramsAs(e.Key, c.Params, defaults)
		if err != nil {
			return vmap.Operand{}, err
		}
		return rule(c.Args[0], p)
	}
	e.Primitive = func(args []*tensor.RawTensor, params any) (*tensor.RawTensor, error) {
		p, err := paramsAs(e.Key, params, defaults)
		if err != nil {
			return nil, err
		}
		return op(args[0], p)
	}
	r.add(e)
}

func inplace[P any](r *Registry, key string, defaults P, op vmap.InplaceOp[P]) {
	e := newEntry(key, KindInplace, 2, defaults)
	rule := vmap.BinaryPointwiseInplace(e.Key.Name, op)
	e.Rule = func(c Call) (vmap.Operand, error) {
		p, err := paramsAs(e.Key, c.Params, defaults)
		if err != nil {
			return vmap.Operand{}, err
		}
		if err := rule(c.Args[0], c.Args[1], p); err != nil {
			return vmap.Operand{}, err
		}
		return c.Args[0], nil
	}
	e.Primitive = func(args []*tensor.RawTensor, params any) (*tensor.RawTensor, error) {
		p, err := paramsAs(e.Key, params, defaults)
		if err != nil {
			return nil, err
		}
		if err := op(args[0], args[1], p); err != nil {
			return nil, err
		}
		return args[0], nil
	}
	r.add(e)
}

func unaryInplace[P any](r *Registry, key string, defaults P, op vmap.UnaryInplaceOp[P]) {
	rule := vmap.UnaryInplace(op)
	e := newEntry(key, KindUnaryInplace, 1, defaults)
	e.Rule = func(c Call) (vmap.Operand, error) {
		p, err := paramsAs(e.Key, c.Params, defaults)
		if err != nil {
			return vmap.Operand{}, err
		}
		if err := rule(c.Args[0], p); err != nil {
			return vmap.Operand{}, err
		}
		return c.Args[0], nil
	}
	e.Primitive = func(args []*tensor.RawTensor, params any) (*tensor.RawTensor, error) {
		p, err := paramsAs(e.Key, params, defaults)
		if err != nil {
			return nil, err
		}
		if err := op(args[0], p); err != nil {
			return nil, err
		}
		return args[0], nil
	}
	r.add(e)
}

func random[P any](r *Registry, key string, defaults P, op vmap.BinaryOp[P]) {
	e := newEntry(key, KindRandom, 2, defaults)
	rule := vmap.BinaryRandomPointwise(e.Key.Name, op)
	e.Rule = func(c Call) (vmap.Operand, error) {
		p, err := paramsAs(e.Key, c.Params, defaults)
		if err != nil {
			return vmap.Operand{}, err
		}
		return rule(c.Layer, c.Args[0], c.Args[1], p)
	}
	e.Primitive = func(args []*tensor.RawTensor, params any) (*tensor.RawTensor, error) {
		p, err := paramsAs(e.Key, params, defaults)
		if err != nil {
			return nil, err
		}
		return op(args[0], args[1], p)
	}
	r.add(e)
}

func variadic[P any](r *Registry, key string, arity int, defaults P, op vmap.VariadicOp[P]) {
	rule := vmap.VariadicPointwise(op)
	e := newEntry(key, KindVariadic, arity, defaults)
	e.Rule = func(c Call) (vmap.Operand, error) {
		p, err := paramsAs(e.Key, c.Params, defaults)
		if err != nil {
			return vmap.Operand{}, err
		}
		return rule(c.Args, p)
	}
	e.Primitive = func(args []*tensor.RawTensor, params any) (*tensor.RawTensor, error) {
		p, err := paramsAs(e.Key, params, defaults)
		if err != nil {
			return nil, err
		}
		return op(args, p)
	}
	r.add(e)
}

func ternary(r *Registry, key string, kind Kind, op vmap.TernaryOp, rule vmap.TernaryRule) {
	e := newEntry(key, kind, 3, NoParams{})
	e.Rule = func(c Call) (vmap.Operand, error) {
		return rule(c.Args[0], c.Args[1], c.Args[2])
	}
	e.Primitive = func(args []*tensor.RawTensor, _ any) (*tensor.RawTensor, error) {
		return op(args[0], args[1], args[2])
	}
	r.add(e)
}
