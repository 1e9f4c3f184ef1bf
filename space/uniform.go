package space

import (
	"fmt"

	"github.com/notargets/ddc/discrete"
	"github.com/notargets/ddc/utils"
)

// UniformSampling places index i at origin + i*step
type UniformSampling struct {
	tag    discrete.Tag
	origin float64
	step   float64
}

func NewUniformSampling(tag discrete.Tag, origin, step float64) *UniformSampling {
	utils.Assert(step > 0, "uniform step %g must be positive", step)
	return &UniformSampling{tag: tag, origin: origin, step: step}
}

func (s *UniformSampling) Tag() discrete.Tag { return s.tag }
func (s *UniformSampling) Origin() float64   { return s.origin }
func (s *UniformSampling) Step() float64     { return s.step }

// Front is the element at the origin
func (s *UniformSampling) Front() discrete.Element {
	return discrete.NewElement(discrete.Tags{s.tag}, 0)
}

func (s *UniformSampling) Coordinate(uid int) float64 {
	return s.origin + float64(uid)*s.step
}

func (s *UniformSampling) DistanceAtLeft(int) float64  { return s.step }
func (s *UniformSampling) DistanceAtRight(int) float64 { return s.step }

func (s *UniformSampling) String() string {
	return fmt.Sprintf("UniformSampling( origin=%g, step=%g )", s.origin, s.step)
}

func uniformStep(a, b float64, n int) float64 {
	utils.Assert(a < b, "segment [%g, %g] is empty", a, b)
	utils.Assert(n > 1, "need at least 2 points, got %d", n)
	return (b - a) / float64(n-1)
}

// InitUniform registers n points spread evenly over [a, b], both ends
// included up to rounding, and returns the domain of those points.
func (c *Context) InitUniform(tag discrete.Tag, a, b float64, n int) (*UniformSampling, discrete.Domain) {
	s := NewUniformSampling(tag, a, uniformStep(a, b, n))
	c.Register(s)
	return s, discrete.LineDomain(tag, 0, n)
}

// InitUniformGhosted is InitUniform with before and after extra points
// sharing the same step on each side of [a, b]
func (c *Context) InitUniformGhosted(tag discrete.Tag, a, b float64, n, before, after int) (*UniformSampling, GhostedDomains) {
	utils.Assert(before >= 0 && after >= 0, "negative ghost count (%d, %d)", before, after)
	step := uniformStep(a, b, n)
	s := NewUniformSampling(tag, a-float64(before)*step, step)
	c.Register(s)
	return s, ghosted(tag, n, before, after)
}
