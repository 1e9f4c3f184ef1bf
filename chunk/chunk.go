package chunk

import (
	"fmt"

	"github.com/notargets/ddc/discrete"
)

// Chunk owns the storage behind its view. Host storage is reclaimed by the
// garbage collector; device storage must be released with Free.
type Chunk[T any] struct {
	ChunkSpan[T]
	label  string
	layout Layout
	owned  bool
}

// New allocates a zeroed host chunk over dom with the default layout
func New[T any](label string, dom discrete.Domain) *Chunk[T] {
	return Alloc[T](dom, Config{Label: label})
}

// Alloc allocates a zeroed chunk over dom
func Alloc[T any](dom discrete.Domain, cfg Config) *Chunk[T] {
	return AllocStrided[T](dom.Strided(), cfg)
}

// AllocStrided allocates a zeroed chunk holding only the members of sd
func AllocStrided[T any](sd discrete.StridedDomain, cfg Config) *Chunk[T] {
	if cfg.Space == nil {
		cfg.Space = HostSpace{}
	}
	counts := sd.Counts()
	c := make([]int, sd.Rank())
	for i := range c {
		c[i] = counts.At(i)
	}
	strides := layoutStrides(c, cfg.Layout)
	st := newStorage[T](cfg.Space, sd.Size())
	return &Chunk[T]{
		ChunkSpan: newSpan(sd, strides, 0, st),
		label:     cfg.Label,
		layout:    cfg.Layout,
		owned:     true,
	}
}

// Label returns the name given at allocation
func (c *Chunk[T]) Label() string { return c.label }

// Layout returns the allocation layout
func (c *Chunk[T]) Layout() Layout { return c.layout }

// Free releases device storage. Views of c must not be used afterwards.
// Freeing a chunk that does not own its storage does nothing.
func (c *Chunk[T]) Free() {
	if c.owned && c.st != nil {
		c.st.free()
	}
}

// SpanView returns a mutable view over the whole chunk
func (c *Chunk[T]) SpanView() ChunkSpan[T] {
	return c.ChunkSpan
}

func (c *Chunk[T]) String() string {
	return fmt.Sprintf("Chunk{%q, %v, %v, %s}", c.label, c.sd, c.layout, c.st.space.Name())
}

// view wraps an existing span as a non-owning chunk
func view[T any](s ChunkSpan[T], label string) *Chunk[T] {
	return &Chunk[T]{ChunkSpan: s, label: label, layout: s.Layout(), owned: false}
}
