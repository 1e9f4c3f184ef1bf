package splines

import (
	"fmt"

	"github.com/notargets/ddc/chunk"
	"github.com/notargets/ddc/discrete"
	"github.com/notargets/ddc/parallel"
	"github.com/notargets/ddc/space"
)

// Evaluator evaluates splines of one basis from their coefficients. Points
// outside [Rmin, Rmax] wrap for periodic bases and are rejected otherwise.
type Evaluator struct {
	bs *BSplines
}

func NewEvaluator(bs *BSplines) Evaluator {
	return Evaluator{bs: bs}
}

// Eval returns the spline with coefficients coefs at x
func (ev Evaluator) Eval(x float64, coefs []float64) float64 {
	n := ev.bs.NBasis()
	var buf [maxDegree + 1]float64
	values := buf[:ev.bs.degree+1]
	jmin := ev.bs.EvalBasis(values, x)
	y := 0.
	for k, v := range values {
		j := jmin + k
		if ev.bs.periodic {
			j %= n
		}
		y += v * coefs[j]
	}
	return y
}

// EvalLine is Eval over a rank-1 coefficient span
func (ev Evaluator) EvalLine(x float64, coefs chunk.ChunkSpan[float64]) float64 {
	line := coefs.Domain()
	n := ev.bs.NBasis()
	var buf [maxDegree + 1]float64
	values := buf[:ev.bs.degree+1]
	jmin := ev.bs.EvalBasis(values, x)
	y := 0.
	for k, v := range values {
		j := jmin + k
		if ev.bs.periodic {
			j %= n
		}
		y += v * coefs.At(line.ElementAt(j))
	}
	return y
}

// Apply writes into out the splines of coefs evaluated at the coordinates of
// out along tag. The batch dimensions of out, tag excluded, must match those
// of coefs, basis excluded, in fronts and extents.
func (ev Evaluator) Apply(es parallel.ExecutionSpace, ctx *space.Context, out, coefs chunk.ChunkSpan[float64],
	tag, basis discrete.Tag) error {
	if !out.Tags().Contains(tag) || !coefs.Tags().Contains(basis) {
		return fmt.Errorf("out %v must hold %s and coefs %v must hold %s",
			out.Tags(), tag.TagName(), coefs.Tags(), basis.TagName())
	}
	if !out.Tags().Without(tag).SameSet(coefs.Tags().Without(basis)) {
		return fmt.Errorf("batch dimensions of %v and %v differ", out.Tags(), coefs.Tags())
	}
	line := coefs.DomainOf(basis)
	if line.Size() != ev.bs.NBasis() {
		return fmt.Errorf("need %d coefficients, got %d", ev.bs.NBasis(), line.Size())
	}
	batchTags := coefs.Tags().Without(basis)
	cb := coefs.Domain().RemoveDims(basis)
	ob := out.Domain().RemoveDims(tag).As(batchTags)
	if !ob.Equal(cb) {
		return fmt.Errorf("batch domain %v of out does not match %v of coefs", ob, cb)
	}
	sampling := ctx.Sampling(tag)

	parallel.ParallelForEach(es, out.Iterable(), func(e discrete.Element) {
		x := sampling.Coordinate(e.Uid(tag))
		out.Set(ev.EvalLine(x, coefs.Slice(e.Select(batchTags...))), e)
	})
	return nil
}
