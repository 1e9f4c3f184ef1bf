package splines

import (
	"slices"

	"github.com/notargets/ddc/discrete"
	"github.com/notargets/ddc/space"
)

// GrevillePoints returns the NBasis interpolation points of bs in increasing
// order. Each point averages Degree consecutive knots; periodic points are
// wrapped into [Rmin, Rmax).
func GrevillePoints(bs *BSplines) []float64 {
	n := bs.NBasis()
	points := make([]float64, n)
	for j := range points {
		sum := 0.
		for k := 1; k <= bs.degree; k++ {
			sum += bs.knots[j+k]
		}
		points[j] = bs.Wrap(sum / float64(bs.degree))
	}
	if bs.periodic {
		slices.Sort(points)
	}
	return points
}

// InitGrevilleSampling registers the Greville points of bs as a non-uniform
// sampling of tag and returns the interpolation domain
func InitGrevilleSampling(ctx *space.Context, tag discrete.Tag, bs *BSplines) discrete.Domain {
	_, dom := ctx.InitNonUniform(tag, GrevillePoints(bs))
	return dom
}
