package vmap

import "github.com/born-ml/vmap/internal/tensor"

// AddrOps are the unbatched primitives the addr decomposition is built from.
type AddrOps struct {
	Mul   func(a, b *tensor.RawTensor) (*tensor.RawTensor, error)
	Add   func(a, b *tensor.RawTensor) (*tensor.RawTensor, error)
	Scale func(x *tensor.RawTensor, s float64) (*tensor.RawTensor, error)
}

// AddrRule is the batching rule of addr(self, vec1, vec2, beta, alpha).
type AddrRule func(self, vec1, vec2 Operand, beta, alpha float64) (Operand, error)

// Addr batches addr by decomposing it into pointwise rules:
// beta*self + alpha*(vec1[:, None] * vec2[None, :]). With beta == 0 self is
// not read, so NaN in self does not propagate.
func Addr(ops AddrOps) AddrRule {
	mul := BinaryPointwise[struct{}](func(a, b *tensor.RawTensor, _ struct{}) (*tensor.RawTensor, error) {
		return ops.Mul(a, b)
	})
	add := BinaryPointwise[struct{}](func(a, b *tensor.RawTensor, _ struct{}) (*tensor.RawTensor, error) {
		return ops.Add(a, b)
	})
	scale := UnaryPointwise[float64](ops.Scale)

	return func(self, vec1, vec2 Operand, beta, alpha float64) (Operand, error) {
		col, err := UnsqueezeLogical(vec1, -1)
		if err != nil {
			return Operand{}, err
		}
		row, err := UnsqueezeLogical(vec2, -2)
		if err != nil {
			return Operand{}, err
		}
		outer, err := mul(col, row, struct{}{})
		if err != nil {
			return Operand{}, err
		}
		if alpha != 1 {
			if outer, err = scale(outer, alpha); err != nil {
				return Operand{}, err
			}
		}

		if beta == 0 {
			if self.IsBatched() && !outer.IsBatched() {
				return EnsureHasBatchDim(outer, self.BatchSize())
			}
			return outer, nil
		}
		if beta != 1 {
			if self, err = scale(self, beta); err != nil {
				return Operand{}, err
			}
		}
		return add(self, outer, struct{}{})
	}
}
