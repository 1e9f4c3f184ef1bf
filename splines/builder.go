package splines

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/ddc/chunk"
	"github.com/notargets/ddc/discrete"
)

// Builder computes spline coefficients from values at fixed interpolation
// points. The collocation matrix is factorized once at construction.
type Builder struct {
	bs     *BSplines
	points []float64
	lu     mat.LU
}

// NewBuilder factorizes the collocation matrix of bs at points, which must
// hold NBasis increasing coordinates such as GrevillePoints(bs)
func NewBuilder(bs *BSplines, points []float64) (*Builder, error) {
	n := bs.NBasis()
	if len(points) != n {
		return nil, fmt.Errorf("need %d interpolation points, got %d", n, len(points))
	}
	a := mat.NewDense(n, n, nil)
	values := make([]float64, bs.degree+1)
	for p, x := range points {
		jmin := bs.EvalBasis(values, x)
		for k, v := range values {
			j := jmin + k
			if bs.periodic {
				j %= n
			}
			a.Set(p, j, a.At(p, j)+v)
		}
	}

	b := &Builder{bs: bs, points: append([]float64(nil), points...)}
	b.lu.Factorize(a)
	if c := b.lu.Cond(); c > 1e14 {
		return nil, fmt.Errorf("collocation matrix is singular (condition %g)", c)
	}
	return b, nil
}

func (b *Builder) BSplines() *BSplines { return b.bs }

// Points returns the interpolation points; callers must not modify them
func (b *Builder) Points() []float64 { return b.points }

// Solve computes coefficients for every line of vals along tag. coefs must
// span vals' batch dimensions and a basis dimension of NBasis members.
// Both spans must live on the host.
func (b *Builder) Solve(coefs, vals chunk.ChunkSpan[float64], tag, basis discrete.Tag) error {
	n := b.bs.NBasis()
	if !coefs.OnHost() || !vals.OnHost() {
		return fmt.Errorf("spline solve needs host spans")
	}
	if coefs.ReadOnly() {
		return fmt.Errorf("spline solve into read-only coefficients")
	}
	if !vals.Tags().Contains(tag) || !coefs.Tags().Contains(basis) {
		return fmt.Errorf("vals %v must hold %s and coefs %v must hold %s",
			vals.Tags(), tag.TagName(), coefs.Tags(), basis.TagName())
	}
	interp, line := vals.DomainOf(tag), coefs.DomainOf(basis)
	if interp.Size() != n || line.Size() != n {
		return fmt.Errorf("need %d points and coefficients, got %d and %d", n, interp.Size(), line.Size())
	}
	batch := vals.Domain().RemoveDims(tag)
	if !batch.Tags().SameSet(coefs.Tags().Without(basis)) {
		return fmt.Errorf("batch dimensions %v do not match coefficients %v", batch.Tags(), coefs.Tags())
	}
	bc := coefs.Domain().RemoveDims(basis).As(batch.Tags())
	if !bc.Extents().Equal(batch.Extents()) {
		return fmt.Errorf("batch extents %v do not match coefficients %v", batch.Extents(), bc.Extents())
	}
	nb := batch.Size()
	if nb == 0 {
		return nil
	}

	// Lines laid out as matrix columns are solved in place
	if vals.Rank() == 2 && coefs.Rank() == 2 && vals.Tags()[0] == tag && coefs.Tags()[0] == basis &&
		vals.Strides()[1] == 1 && coefs.Strides()[1] == 1 {
		return b.lu.SolveTo(chunk.AsDense(coefs), false, chunk.AsDense(vals))
	}

	rhs := mat.NewDense(n, nb, nil)
	for e := range batch.All() {
		col := batch.Offset(e)
		for p := range n {
			rhs.Set(p, col, vals.At(interp.ElementAt(p), e))
		}
	}
	var x mat.Dense
	if err := b.lu.SolveTo(&x, false, rhs); err != nil {
		return fmt.Errorf("spline solve failed: %w", err)
	}
	for e := range batch.All() {
		col := batch.Offset(e)
		for j := range n {
			coefs.Set(x.At(j, col), line.ElementAt(j), e)
		}
	}
	return nil
}
