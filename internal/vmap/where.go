package vmap

import "github.com/born-ml/vmap/internal/tensor"

// TernaryOp is an unbatched primitive of three arrays, such as where.
type TernaryOp func(cond, x, y *tensor.RawTensor) (*tensor.RawTensor, error)

// TernaryRule is the batching rule of a TernaryOp.
type TernaryRule func(cond, x, y Operand) (Operand, error)

// Where derives the batching rule of the select primitive. The batch axes
// move to the front but no rank padding happens: the operands are expected to
// share one logical shape, as WhereBroadcast arranges.
func Where(op TernaryOp) TernaryRule {
	return func(cond, x, y Operand) (Operand, error) {
		var ts [3]*tensor.RawTensor
		for i, o := range [3]Operand{cond, x, y} {
			t, err := MoveBatchDimToFront(o.Tensor, o.BDim)
			if err != nil {
				return Operand{}, err
			}
			ts[i] = t
		}
		out, err := op(ts[0], ts[1], ts[2])
		if err != nil {
			return Operand{}, err
		}
		return result(out, cond, x, y), nil
	}
}

// WhereBroadcast derives the batching rule of the public where: it
// broadcasts the three operands to their common logical shape and then runs
// the Where rule.
func WhereBroadcast(op TernaryOp) TernaryRule {
	rule := Where(op)
	return func(cond, x, y Operand) (Operand, error) {
		shape, err := tensor.BroadcastShapes(cond.LogicalShape(), x.LogicalShape(), y.LogicalShape())
		if err != nil {
			return Operand{}, err
		}
		ops := [3]Operand{cond, x, y}
		for i, o := range ops {
			if ops[i], err = ExpandToLogicalShape(o, shape); err != nil {
				return Operand{}, err
			}
		}
		return rule(ops[0], ops[1], ops[2])
	}
}
