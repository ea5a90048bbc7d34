package cpu

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/vmap/internal/tensor"
)

// sample broadcasts a and b and draws one value per element from the
// distribution dist builds for the pair. Draws are sequential so that a seeded
// backend is reproducible.
func (cpu *CPUBackend) sample(op string, a, b *tensor.RawTensor, dist func(x, y float64) (distuv.Rander, error)) (*tensor.RawTensor, error) {
	shape, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	dtype := tensor.ResultType(a, b)
	if !dtype.IsFloating() {
		dtype = tensor.DefaultFloat
	}
	vs, err := expandAll(op, shape, a, b)
	if err != nil {
		return nil, err
	}
	x, y := vs[0].Float64s(), vs[1].Float64s()
	out := make([]float64, len(x))

	cpu.mu.Lock()
	defer cpu.mu.Unlock()
	for i := range out {
		d, err := dist(x[i], y[i])
		if err != nil {
			return nil, errors.Wrap(err, op)
		}
		out[i] = d.Rand()
	}
	return tensor.FromFloat64s(out, shape, dtype)
}

// Normal draws from N(mean, std^2) element-wise.
func (cpu *CPUBackend) Normal(mean, std *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.sample("normal", mean, std, func(mu, sigma float64) (distuv.Rander, error) {
		if sigma < 0 || math.IsNaN(sigma) {
			return nil, errors.Errorf("expects all elements of std >= 0.0, got %v", sigma)
		}
		return distuv.Normal{Mu: mu, Sigma: sigma, Src: cpu.src}, nil
	})
}

// degenerate always returns the same value.
type degenerate float64

func (d degenerate) Rand() float64 { return float64(d) }

// Binomial draws the number of successes in count trials with probability
// prob element-wise.
func (cpu *CPUBackend) Binomial(count, prob *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.sample("binomial", count, prob, func(n, p float64) (distuv.Rander, error) {
		switch {
		case n < 0 || n != math.Trunc(n):
			return nil, errors.Errorf("count must be a non-negative integer, got %v", n)
		case p < 0 || p > 1 || math.IsNaN(p):
			return nil, errors.Errorf("prob must be in [0, 1], got %v", p)
		case n == 0 || p == 0:
			return degenerate(0), nil
		case p == 1:
			return degenerate(n), nil
		}
		return distuv.Binomial{N: n, P: p, Src: cpu.src}, nil
	})
}
