package cpu

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/vmap/internal/parallel"
	"github.com/born-ml/vmap/internal/tensor"
)

// cdistLayout is the common geometry of the pairwise-distance primitives:
// x1 is batch+[P, M], x2 is batch+[R, M] and distances are batch+[P, R].
type cdistLayout struct {
	batch   tensor.Shape
	p, r, m int
}

func (l cdistLayout) batchSize() int { return l.batch.NumElements() }

func (l cdistLayout) shape(rows, cols int) tensor.Shape {
	return append(l.batch.Clone(), rows, cols)
}

func newCdistLayout(op string, x1, x2 *tensor.RawTensor) (cdistLayout, error) {
	if x1.Rank() < 2 || x2.Rank() < 2 {
		return cdistLayout{}, errors.Errorf("%s only supports at least 2D tensors, X1 got: %dD, X2 got: %dD", op, x1.Rank(), x2.Rank())
	}
	s1, s2 := x1.Shape(), x2.Shape()
	r1, r2 := len(s1), len(s2)
	if s1[r1-1] != s2[r2-1] {
		return cdistLayout{}, errors.Errorf("%s: X1 and X2 must have the same number of columns. X1: %d X2: %d", op, s1[r1-1], s2[r2-1])
	}
	batch, err := tensor.BroadcastShapes(s1[:r1-2], s2[:r2-2])
	if err != nil {
		return cdistLayout{}, errors.Wrap(err, op)
	}
	return cdistLayout{batch: batch, p: s1[r1-2], r: s2[r2-2], m: s1[r1-1]}, nil
}

// rows expands x to the batch shape and returns its values in logical order.
func (l cdistLayout) rows(x *tensor.RawTensor, n int) ([]float64, error) {
	v, err := x.Expand(l.shape(n, l.m))
	if err != nil {
		return nil, err
	}
	return v.Float64s(), nil
}

func pnormDistance(u, v []float64, p float64) float64 {
	if p == 0 {
		var n float64
		for i := range u {
			if u[i] != v[i] {
				n++
			}
		}
		return n
	}
	return floats.Distance(u, v, p)
}

func floatResult(a, b *tensor.RawTensor) tensor.DataType {
	dtype := tensor.ResultType(a, b)
	if !dtype.IsFloating() {
		return tensor.DefaultFloat
	}
	return dtype
}

// Cdist computes the p-norm distance between every row of x1 and every row
// of x2. Leading batch dimensions broadcast.
func (cpu *CPUBackend) Cdist(x1, x2 *tensor.RawTensor, p float64) (*tensor.RawTensor, error) {
	if p < 0 || math.IsNaN(p) {
		return nil, errors.Errorf("cdist only supports non-negative p values, got %v", p)
	}
	l, err := newCdistLayout("cdist", x1, x2)
	if err != nil {
		return nil, err
	}
	a, err := l.rows(x1, l.p)
	if err != nil {
		return nil, errors.Wrap(err, "cdist")
	}
	b, err := l.rows(x2, l.r)
	if err != nil {
		return nil, errors.Wrap(err, "cdist")
	}

	out := make([]float64, l.batchSize()*l.p*l.r)
	parallel.Range(l.batchSize()*l.p, func(start, end int) {
		for row := start; row < end; row++ {
			bi := row / max(l.p, 1)
			u := a[row*l.m : (row+1)*l.m]
			for j := 0; j < l.r; j++ {
				off := (bi*l.r + j) * l.m
				out[row*l.r+j] = pnormDistance(u, b[off:off+l.m], p)
			}
		}
	}, cpu.cfg.Parallel)
	return tensor.FromFloat64s(out, l.shape(l.p, l.r), floatResult(x1, x2))
}

// cdistGrad is the derivative of the p-norm distance with respect to one
// coordinate difference.
func cdistGrad(diff, dist, p float64) float64 {
	switch {
	case p == 0 || dist == 0:
		return 0
	case p == 1:
		return sign(diff)
	case p == 2:
		return diff / dist
	case math.IsInf(p, 1):
		if math.Abs(diff) == dist {
			return sign(diff)
		}
		return 0
	case p < 2:
		if diff == 0 {
			return 0
		}
		return sign(diff) * math.Pow(math.Abs(diff), p-1) / math.Pow(dist, p-1)
	}
	return diff * math.Pow(math.Abs(diff), p-2) / math.Pow(dist, p-1)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// CdistBackward computes the gradient of Cdist with respect to x1. grad and
// dist must both have exactly the shape Cdist(x1, x2, p) produces.
func (cpu *CPUBackend) CdistBackward(grad, x1, x2 *tensor.RawTensor, p float64, dist *tensor.RawTensor) (*tensor.RawTensor, error) {
	l, err := newCdistLayout("_cdist_backward", x1, x2)
	if err != nil {
		return nil, err
	}
	want := l.shape(l.p, l.r)
	if !grad.Shape().Equal(want) {
		return nil, errors.Errorf("_cdist_backward: grad has shape %v, expected %v", grad.Shape(), want)
	}
	if !dist.Shape().Equal(want) {
		return nil, errors.Errorf("_cdist_backward: cdist has shape %v, expected %v", dist.Shape(), want)
	}
	a, err := l.rows(x1, l.p)
	if err != nil {
		return nil, errors.Wrap(err, "_cdist_backward")
	}
	b, err := l.rows(x2, l.r)
	if err != nil {
		return nil, errors.Wrap(err, "_cdist_backward")
	}
	g, d := grad.Float64s(), dist.Float64s()

	out := make([]float64, l.batchSize()*l.p*l.m)
	parallel.Range(l.batchSize()*l.p, func(start, end int) {
		diff := make([]float64, l.m)
		for row := start; row < end; row++ {
			bi := row / max(l.p, 1)
			u := a[row*l.m : (row+1)*l.m]
			acc := out[row*l.m : (row+1)*l.m]
			for j := 0; j < l.r; j++ {
				off := (bi*l.r + j) * l.m
				floats.SubTo(diff, u, b[off:off+l.m])
				gij, dij := g[row*l.r+j], d[row*l.r+j]
				for k, v := range diff {
					acc[k] += gij * cdistGrad(v, dij, p)
				}
			}
		}
	}, cpu.cfg.Parallel)
	return tensor.FromFloat64s(out, l.shape(l.p, l.m), floatResult(x1, x2))
}
