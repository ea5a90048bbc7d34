package vmap

import "github.com/born-ml/vmap/internal/tensor"

// IsLogicalScalar reports whether the operand holds one scalar per batch
// element: it is batched and has logical rank 0. An unbatched 0-rank array is
// an ordinary constant and is not a logical scalar.
func IsLogicalScalar(o Operand) bool {
	return o.IsBatched() && o.LogicalRank() == 0
}

// PromoteLogicalScalar casts a and b to the dtype a scalar combined with the
// other operand would produce, when exactly one of them is a logical scalar.
//
// A batched logical scalar is physically rank 1, so without this step the
// primitive would promote it like a dimensioned array instead of a 0-rank one.
func PromoteLogicalScalar(a, b Operand) (Operand, Operand) {
	ops := promoteLogicalScalars([]Operand{a, b})
	return ops[0], ops[1]
}

// promoteLogicalScalars generalizes PromoteLogicalScalar: when some but not
// all operands are logical scalars, every operand is cast to the dtype the
// logical operands would promote to. ops is modified in place.
func promoteLogicalScalars(ops []Operand) []Operand {
	scalars := 0
	for _, o := range ops {
		if IsLogicalScalar(o) {
			scalars++
		}
	}
	if scalars == 0 || scalars == len(ops) {
		return ops
	}

	stand := make([]*tensor.RawTensor, len(ops))
	for i, o := range ops {
		stand[i] = o.Tensor
		if IsLogicalScalar(o) {
			stand[i] = scalarLike(o.Tensor)
		}
	}
	dtype := tensor.ResultType(stand...)
	for i := range ops {
		ops[i].Tensor = ops[i].Tensor.Cast(dtype)
	}
	return ops
}

// scalarLike returns a 0-rank array standing in for one element of t. Only
// its dtype and rank take part in promotion.
func scalarLike(t *tensor.RawTensor) *tensor.RawTensor {
	return tensor.Scalar(uint8(0)).Cast(t.DType())
}
