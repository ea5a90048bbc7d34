package vmap

// RandomRule is the batching rule of a random BinaryOp. It needs the layer
// for the randomness mode and the batch size.
type RandomRule[P any] func(layer Layer, a, b Operand, params P) (Operand, error)

// BinaryRandomPointwise derives the batching rule of a random primitive such
// as normal(mean, std).
//
// Under RandomnessError every call fails. When no operand is batched,
// RandomnessSame calls op once and returns an unbatched result shared by the
// whole batch, while RandomnessDifferent broadcasts the first operand to the
// batch size so that op draws once per batch element. Batched operands go
// through the BinaryPointwise rule.
func BinaryRandomPointwise[P any](name string, op BinaryOp[P]) RandomRule[P] {
	pointwise := BinaryPointwise(op)
	return func(layer Layer, a, b Operand, params P) (Operand, error) {
		if layer.Randomness == RandomnessError {
			return Operand{}, usageError(CodeRandomness, name,
				"called random operation while in randomness error mode; "+
					"use randomness=\"different\" or randomness=\"same\"")
		}
		if !anyBatched(a, b) {
			if layer.Randomness == RandomnessSame {
				out, err := op(a.Tensor, b.Tensor, params)
				if err != nil {
					return Operand{}, err
				}
				return Unbatched(out), nil
			}
			var err error
			if a, err = EnsureHasBatchDim(a, layer.BatchSize); err != nil {
				return Operand{}, err
			}
		}
		return pointwise(a, b, params)
	}
}
