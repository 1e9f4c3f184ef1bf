package space

import (
	"fmt"

	"github.com/notargets/ddc/discrete"
	"github.com/notargets/ddc/utils"
)

// NonUniformSampling places index i at points[i]
type NonUniformSampling struct {
	tag    discrete.Tag
	points []float64
}

// NewNonUniformSampling copies points, which must be strictly increasing
func NewNonUniformSampling(tag discrete.Tag, points []float64) *NonUniformSampling {
	if utils.ChecksEnabled {
		for i := 1; i < len(points); i++ {
			utils.Assert(points[i-1] < points[i], "points not strictly increasing at %d: %g >= %g",
				i, points[i-1], points[i])
		}
	}
	return &NonUniformSampling{tag: tag, points: append([]float64(nil), points...)}
}

func (s *NonUniformSampling) Tag() discrete.Tag { return s.tag }

// Size returns the number of points
func (s *NonUniformSampling) Size() int { return len(s.points) }

// Points returns the point table; callers must not modify it
func (s *NonUniformSampling) Points() []float64 { return s.points }

func (s *NonUniformSampling) Front() discrete.Element {
	return discrete.NewElement(discrete.Tags{s.tag}, 0)
}

func (s *NonUniformSampling) Coordinate(uid int) float64 {
	utils.Assert(uid >= 0 && uid < len(s.points), "index %d outside [0, %d)", uid, len(s.points))
	return s.points[uid]
}

// DistanceAtLeft needs a point at uid-1
func (s *NonUniformSampling) DistanceAtLeft(uid int) float64 {
	return s.Coordinate(uid) - s.Coordinate(uid-1)
}

// DistanceAtRight needs a point at uid+1
func (s *NonUniformSampling) DistanceAtRight(uid int) float64 {
	return s.Coordinate(uid+1) - s.Coordinate(uid)
}

func (s *NonUniformSampling) String() string {
	return fmt.Sprintf("NonUniformSampling( size=%d )", len(s.points))
}

// InitNonUniform registers the given strictly increasing points
func (c *Context) InitNonUniform(tag discrete.Tag, points []float64) (*NonUniformSampling, discrete.Domain) {
	s := NewNonUniformSampling(tag, points)
	c.Register(s)
	return s, discrete.LineDomain(tag, 0, len(points))
}

// InitNonUniformGhosted registers pre, points and post as one sampling.
// Main covers points, PreGhost and PostGhost cover the ghost tables.
func (c *Context) InitNonUniformGhosted(tag discrete.Tag, points, pre, post []float64) (*NonUniformSampling, GhostedDomains) {
	all := make([]float64, 0, len(pre)+len(points)+len(post))
	all = append(all, pre...)
	all = append(all, points...)
	all = append(all, post...)
	s := NewNonUniformSampling(tag, all)
	c.Register(s)
	return s, ghosted(tag, len(points), len(pre), len(post))
}
