package space

import (
	"fmt"

	"github.com/notargets/ddc/discrete"
	"github.com/notargets/ddc/utils"
)

// PeriodicSampling is a uniform sampling whose indices wrap every nPeriod
// steps. Index i maps to origin + (((i + n/2) mod n) - n/2) * step, so one
// period is centered on the origin.
type PeriodicSampling struct {
	tag     discrete.Tag
	origin  float64
	step    float64
	nPeriod int
}

func NewPeriodicSampling(tag discrete.Tag, origin, step float64, nPeriod int) *PeriodicSampling {
	utils.Assert(step > 0, "periodic step %g must be positive", step)
	utils.Assert(nPeriod > 0, "period %d must be positive", nPeriod)
	return &PeriodicSampling{tag: tag, origin: origin, step: step, nPeriod: nPeriod}
}

func (s *PeriodicSampling) Tag() discrete.Tag { return s.tag }
func (s *PeriodicSampling) Origin() float64   { return s.origin }
func (s *PeriodicSampling) Step() float64     { return s.step }
func (s *PeriodicSampling) NPeriod() int      { return s.nPeriod }

func (s *PeriodicSampling) Front() discrete.Element {
	return discrete.NewElement(discrete.Tags{s.tag}, 0)
}

// Coordinate wraps uid into [-n/2, n - n/2) before scaling. The modulo is
// Euclidean, so negative indices wrap like positive ones.
func (s *PeriodicSampling) Coordinate(uid int) float64 {
	n := s.nPeriod
	half := n / 2
	r := (uid + half) % n
	if r < 0 {
		r += n
	}
	return s.origin + float64(r-half)*s.step
}

func (s *PeriodicSampling) DistanceAtLeft(int) float64  { return s.step }
func (s *PeriodicSampling) DistanceAtRight(int) float64 { return s.step }

func (s *PeriodicSampling) String() string {
	return fmt.Sprintf("PeriodicSampling( origin=%g, step=%g )", s.origin, s.step)
}

// InitPeriodic registers n points spread evenly over [a, b] with a period of
// nPeriod steps
func (c *Context) InitPeriodic(tag discrete.Tag, a, b float64, n, nPeriod int) (*PeriodicSampling, discrete.Domain) {
	utils.Assert(nPeriod > 1, "period %d must be > 1", nPeriod)
	s := NewPeriodicSampling(tag, a, uniformStep(a, b, n), nPeriod)
	c.Register(s)
	return s, discrete.LineDomain(tag, 0, n)
}

// InitPeriodicGhosted is InitPeriodic with before and after extra points
func (c *Context) InitPeriodicGhosted(tag discrete.Tag, a, b float64, n, nPeriod, before, after int) (*PeriodicSampling, GhostedDomains) {
	utils.Assert(nPeriod > 1, "period %d must be > 1", nPeriod)
	utils.Assert(before >= 0 && after >= 0, "negative ghost count (%d, %d)", before, after)
	step := uniformStep(a, b, n)
	s := NewPeriodicSampling(tag, a-float64(before)*step, step, nPeriod)
	c.Register(s)
	return s, ghosted(tag, n, before, after)
}
