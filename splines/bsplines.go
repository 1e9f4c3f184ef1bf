// Package splines interpolates data sampled on discrete dimensions with
// B-splines. Coefficients and values live in chunks; the collocation system
// is factorized once with gonum and reused for every batch line.
package splines

import (
	"fmt"
	"math"
	"slices"

	"github.com/notargets/ddc/discrete"
	"github.com/notargets/ddc/utils"
)

// BSplines is a B-spline basis of fixed degree over a sequence of break
// points. Clamped bases repeat the end breaks; periodic bases extend the
// breaks by one period on both sides and identify the first Degree basis
// functions with the last.
type BSplines struct {
	degree   int
	periodic bool
	uniform  bool
	breaks   []float64
	knots    []float64 // knots[degree] == breaks[0]
}

// UniformBSplines builds a basis over ncells equal cells of [a, b]
func UniformBSplines(a, b float64, ncells, degree int, periodic bool) *BSplines {
	utils.Assert(a < b, "empty interval [%g, %g]", a, b)
	utils.Assert(ncells > 0, "need at least one cell, got %d", ncells)
	breaks := make([]float64, ncells+1)
	h := (b - a) / float64(ncells)
	for i := range breaks {
		breaks[i] = a + float64(i)*h
	}
	breaks[ncells] = b
	bs := NonUniformBSplines(breaks, degree, periodic)
	bs.uniform = true
	return bs
}

// NonUniformBSplines builds a basis over strictly increasing breaks
func NonUniformBSplines(breaks []float64, degree int, periodic bool) *BSplines {
	utils.Assert(degree >= 1 && degree <= maxDegree, "degree %d outside [1, %d]", degree, maxDegree)
	utils.Assert(len(breaks) >= 2, "need at least two break points, got %d", len(breaks))
	for i := 1; i < len(breaks); i++ {
		utils.Assert(breaks[i-1] < breaks[i], "breaks not strictly increasing at %d", i)
	}
	ncells := len(breaks) - 1
	if periodic {
		utils.Assert(ncells >= degree, "periodic degree %d needs at least %d cells, got %d",
			degree, degree, ncells)
	}

	bs := &BSplines{degree: degree, periodic: periodic, breaks: slices.Clone(breaks)}
	bs.knots = make([]float64, ncells+1+2*degree)
	copy(bs.knots[degree:], breaks)
	period := breaks[ncells] - breaks[0]
	for k := 1; k <= degree; k++ {
		if periodic {
			bs.knots[degree-k] = breaks[ncells-k] - period
			bs.knots[degree+ncells+k] = breaks[k] + period
		} else {
			bs.knots[degree-k] = breaks[0]
			bs.knots[degree+ncells+k] = breaks[ncells]
		}
	}
	return bs
}

func (bs *BSplines) Degree() int       { return bs.degree }
func (bs *BSplines) Periodic() bool    { return bs.periodic }
func (bs *BSplines) Uniform() bool     { return bs.uniform }
func (bs *BSplines) NCells() int       { return len(bs.breaks) - 1 }
func (bs *BSplines) Rmin() float64     { return bs.breaks[0] }
func (bs *BSplines) Rmax() float64     { return bs.breaks[len(bs.breaks)-1] }
func (bs *BSplines) Length() float64   { return bs.Rmax() - bs.Rmin() }
func (bs *BSplines) Breaks() []float64 { return bs.breaks }

// Knots returns the extended knot sequence; callers must not modify it
func (bs *BSplines) Knots() []float64 { return bs.knots }

// NBasis returns the number of independent basis functions
func (bs *BSplines) NBasis() int {
	if bs.periodic {
		return bs.NCells()
	}
	return bs.NCells() + bs.degree
}

// BasisDomain is the 1-D domain of coefficients along tag
func (bs *BSplines) BasisDomain(tag discrete.Tag) discrete.Domain {
	return discrete.LineDomain(tag, 0, bs.NBasis())
}

// Wrap maps x into [Rmin, Rmax) for periodic bases; clamped bases return x
func (bs *BSplines) Wrap(x float64) float64 {
	if !bs.periodic {
		return x
	}
	r := math.Mod(x-bs.Rmin(), bs.Length())
	if r < 0 {
		r += bs.Length()
	}
	return bs.Rmin() + r
}

// cell returns the index of the cell holding x, the last cell for x == Rmax
func (bs *BSplines) cell(x float64) int {
	i, found := slices.BinarySearch(bs.breaks, x)
	if !found {
		i--
	}
	return min(max(i, 0), bs.NCells()-1)
}

// EvalBasis writes the Degree+1 basis functions that do not vanish at x into
// values and returns the index of the first one. For periodic bases the
// index may exceed NBasis and must be taken modulo NBasis.
func (bs *BSplines) EvalBasis(values []float64, x float64) int {
	utils.Assert(len(values) == bs.degree+1, "need %d values, got %d", bs.degree+1, len(values))
	x = bs.Wrap(x)
	utils.Assert(x >= bs.Rmin() && x <= bs.Rmax(), "%g outside [%g, %g]", x, bs.Rmin(), bs.Rmax())

	i := bs.cell(x)
	mu := i + bs.degree
	t := bs.knots
	var left, right [maxDegree + 1]float64
	values[0] = 1
	for j := 1; j <= bs.degree; j++ {
		left[j] = x - t[mu+1-j]
		right[j] = t[mu+j] - x
		saved := 0.
		for r := 0; r < j; r++ {
			tmp := values[r] / (right[r+1] + left[j-r])
			values[r] = saved + right[r+1]*tmp
			saved = left[j-r] * tmp
		}
		values[j] = saved
	}
	return i
}

// maxDegree bounds the stack scratch of EvalBasis
const maxDegree = 15

func (bs *BSplines) String() string {
	kind := "NonUniform"
	if bs.uniform {
		kind = "Uniform"
	}
	return fmt.Sprintf("%sBSplines( degree=%d, ncells=%d, periodic=%t, [%g, %g] )",
		kind, bs.degree, bs.NCells(), bs.periodic, bs.Rmin(), bs.Rmax())
}
