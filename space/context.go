// Package space maps discrete indices to continuous coordinates, one
// sampling model per dimension tag. Models live in a Context that is
// created once per program (or per test) and closed when the caller is done.
package space

import (
	"fmt"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/notargets/ddc/discrete"
	"github.com/notargets/ddc/utils"
)

// Sampling is the index-to-coordinate mapping of one dimension
type Sampling interface {
	Tag() discrete.Tag
	Coordinate(uid int) float64
	DistanceAtLeft(uid int) float64
	DistanceAtRight(uid int) float64
}

// Context holds at most one Sampling per tag. Registration happens once per
// tag, lookups may then run from any number of goroutines. Lookups read an
// immutable snapshot of the registry and never lock.
type Context struct {
	mu       sync.Mutex // Serializes Register and Close
	snapshot atomic.Pointer[registry]
}

type registry struct {
	models map[discrete.Tag]Sampling
	closed bool
}

func NewContext() *Context {
	c := &Context{}
	c.snapshot.Store(&registry{models: map[discrete.Tag]Sampling{}})
	return c
}

// Close releases every registered model; later lookups panic
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot.Store(&registry{closed: true})
}

// Register installs s for its tag. A tag can only be registered once.
func (c *Context) Register(s Sampling) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur := c.snapshot.Load()
	if cur.closed {
		panic("space: Register on closed context")
	}
	tag := s.Tag()
	if _, ok := cur.models[tag]; ok {
		panic(fmt.Sprintf("space: dimension %s already initialized", tag.TagName()))
	}
	models := maps.Clone(cur.models)
	models[tag] = s
	c.snapshot.Store(&registry{models: models})
}

// IsInitialized reports whether a model is registered for tag
func (c *Context) IsInitialized(tag discrete.Tag) bool {
	_, ok := c.snapshot.Load().models[tag]
	return ok
}

// Sampling returns the model registered for tag. Hot loops should resolve
// it once and call the model directly.
func (c *Context) Sampling(tag discrete.Tag) Sampling {
	reg := c.snapshot.Load()
	if reg.closed {
		panic("space: lookup on closed context")
	}
	s, ok := reg.models[tag]
	if !ok {
		panic(fmt.Sprintf("space: dimension %s not initialized", tag.TagName()))
	}
	return s
}

// Uniform returns the uniform model registered for tag
func (c *Context) Uniform(tag discrete.Tag) *UniformSampling {
	s, ok := c.Sampling(tag).(*UniformSampling)
	utils.Assert(ok, "dimension %s is not uniformly sampled", tag.TagName())
	return s
}

// NonUniform returns the non-uniform model registered for tag
func (c *Context) NonUniform(tag discrete.Tag) *NonUniformSampling {
	s, ok := c.Sampling(tag).(*NonUniformSampling)
	utils.Assert(ok, "dimension %s is not non-uniformly sampled", tag.TagName())
	return s
}

// Periodic returns the periodic model registered for tag
func (c *Context) Periodic(tag discrete.Tag) *PeriodicSampling {
	s, ok := c.Sampling(tag).(*PeriodicSampling)
	utils.Assert(ok, "dimension %s is not periodically sampled", tag.TagName())
	return s
}

// Coordinate returns the position of e, one coordinate per tag of e
func (c *Context) Coordinate(e discrete.Element) []float64 {
	out := make([]float64, e.Rank())
	for i, tag := range e.Tags() {
		out[i] = c.Sampling(tag).Coordinate(e.UidAt(i))
	}
	return out
}

// CoordinateOf returns the position of e along tag
func (c *Context) CoordinateOf(e discrete.Element, tag discrete.Tag) float64 {
	return c.Sampling(tag).Coordinate(e.Uid(tag))
}

// DistanceAtLeft returns the distance between e and its left neighbour along tag
func (c *Context) DistanceAtLeft(e discrete.Element, tag discrete.Tag) float64 {
	return c.Sampling(tag).DistanceAtLeft(e.Uid(tag))
}

// DistanceAtRight returns the distance between e and its right neighbour along tag
func (c *Context) DistanceAtRight(e discrete.Element, tag discrete.Tag) float64 {
	return c.Sampling(tag).DistanceAtRight(e.Uid(tag))
}

// Rmin returns the coordinate of the front of a one-dimensional domain
func (c *Context) Rmin(d discrete.Domain) float64 {
	utils.Assert(d.Rank() == 1, "Rmin needs a rank-1 domain, got %v", d.Tags())
	return c.Sampling(d.Tags()[0]).Coordinate(d.Front().Value())
}

// Rmax returns the coordinate of the back of a one-dimensional domain
func (c *Context) Rmax(d discrete.Domain) float64 {
	utils.Assert(d.Rank() == 1, "Rmax needs a rank-1 domain, got %v", d.Tags())
	return c.Sampling(d.Tags()[0]).Coordinate(d.Back().Value())
}

// Rlength returns Rmax - Rmin
func (c *Context) Rlength(d discrete.Domain) float64 {
	return c.Rmax(d) - c.Rmin(d)
}

// GhostedDomains are the four domains built by a ghosted initialization.
// Ghosted covers PreGhost, Main and PostGhost in that order.
type GhostedDomains struct {
	Main      discrete.Domain
	Ghosted   discrete.Domain
	PreGhost  discrete.Domain
	PostGhost discrete.Domain
}

func ghosted(tag discrete.Tag, n, before, after int) GhostedDomains {
	g := discrete.LineDomain(tag, 0, n+before+after)
	nb := discrete.NewVector(g.Tags(), before)
	na := discrete.NewVector(g.Tags(), after)
	return GhostedDomains{
		Main:      g.Remove(nb, na),
		Ghosted:   g,
		PreGhost:  g.TakeFirst(nb),
		PostGhost: g.TakeLast(na),
	}
}
