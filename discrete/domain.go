package discrete

import (
	"fmt"
	"iter"

	"github.com/notargets/ddc/utils"
)

// Domain is the Cartesian product of one contiguous index range per tag.
// Iteration is in tag order with the last tag varying fastest.
type Domain struct {
	front   Element
	extents Vector
}

// NewDomain builds a domain from its first element and its extents. The
// extents may list the tags in any order; the domain takes front's order.
func NewDomain(front Element, extents Vector) Domain {
	utils.Assert(front.t.tags.SameSet(extents.t.tags),
		"front tags %v do not match extent tags %v", front.t.tags, extents.t.tags)
	ext := extents.As(front.t.tags)
	for i := range ext.t.tags {
		utils.Assert(ext.t.vals[i] >= 0, "negative extent %d along %s",
			ext.t.vals[i], ext.t.tags[i].TagName())
	}
	return Domain{front: front, extents: ext}
}

// DomainOf builds the one-dimensional domain [front, front+n) of marker type T
func DomainOf[T Tag](front, n int) Domain {
	tags := Tags{TagOf[T]()}
	return NewDomain(NewElement(tags, front), NewVector(tags, n))
}

// LineDomain builds the one-dimensional domain [front, front+n) along tag
func LineDomain(tag Tag, front, n int) Domain {
	tags := Tags{tag}
	return NewDomain(NewElement(tags, front), NewVector(tags, n))
}

// ProductDomain joins domains over disjoint tags into one domain
func ProductDomain(ds ...Domain) Domain {
	fronts := make([]Element, len(ds))
	exts := make([]Vector, len(ds))
	for i, d := range ds {
		fronts[i] = d.front
		exts[i] = d.extents
	}
	front := JoinElements(fronts...)
	return Domain{front: front, extents: Vector{t: joinTuples(tuplesOf(exts)...)}.As(front.t.tags)}
}

func tuplesOf(vs []Vector) []tuple {
	ts := make([]tuple, len(vs))
	for i, v := range vs {
		ts[i] = v.t
	}
	return ts
}

// Tags returns the dimensions of the domain, in iteration order
func (d Domain) Tags() Tags {
	return d.front.t.tags
}

func (d Domain) Rank() int {
	return d.front.Rank()
}

// Front returns the first element
func (d Domain) Front() Element {
	return d.front
}

// Back returns the last element, front + extents - 1
func (d Domain) Back() Element {
	b := d.front
	for i := range b.t.tags {
		b.t.vals[i] += d.extents.t.vals[i] - 1
	}
	return b
}

// Extents returns the number of indices along each tag
func (d Domain) Extents() Vector {
	return d.extents
}

// Extent returns the number of indices along tag
func (d Domain) Extent(tag Tag) int {
	return d.extents.Get(tag)
}

// Size returns the number of elements, the product of the extents. A rank-0
// domain has exactly one element.
func (d Domain) Size() int {
	return d.extents.Product()
}

// Empty reports whether the domain holds no element
func (d Domain) Empty() bool {
	return d.Size() == 0
}

// Get returns front + v
func (d Domain) Get(v Vector) Element {
	return d.front.Add(v)
}

// TakeFirst keeps the first n indices along each tag of n
func (d Domain) TakeFirst(n Vector) Domain {
	out := d
	for i, tag := range n.t.tags {
		j := d.index(tag)
		d.assertCount(j, n.t.vals[i])
		out.extents.t.vals[j] = n.t.vals[i]
	}
	return out
}

// TakeLast keeps the last n indices along each tag of n
func (d Domain) TakeLast(n Vector) Domain {
	out := d
	for i, tag := range n.t.tags {
		j := d.index(tag)
		d.assertCount(j, n.t.vals[i])
		out.front.t.vals[j] += d.extents.t.vals[j] - n.t.vals[i]
		out.extents.t.vals[j] = n.t.vals[i]
	}
	return out
}

// RemoveFirst drops the first n indices along each tag of n
func (d Domain) RemoveFirst(n Vector) Domain {
	out := d
	for i, tag := range n.t.tags {
		j := d.index(tag)
		d.assertCount(j, n.t.vals[i])
		out.front.t.vals[j] += n.t.vals[i]
		out.extents.t.vals[j] -= n.t.vals[i]
	}
	return out
}

// RemoveLast drops the last n indices along each tag of n
func (d Domain) RemoveLast(n Vector) Domain {
	out := d
	for i, tag := range n.t.tags {
		j := d.index(tag)
		d.assertCount(j, n.t.vals[i])
		out.extents.t.vals[j] -= n.t.vals[i]
	}
	return out
}

// Remove drops nfront indices at the start and nback at the end
func (d Domain) Remove(nfront, nback Vector) Domain {
	out := d.RemoveFirst(nfront)
	return out.RemoveLast(nback)
}

func (d Domain) index(tag Tag) int {
	j := d.front.t.tags.Index(tag)
	utils.Assert(j >= 0, "tag %s not in domain %v", tagName(tag), d.Tags())
	return j
}

func (d Domain) assertCount(j, n int) {
	utils.Assert(n >= 0 && n <= d.extents.t.vals[j], "count %d outside [0, %d] along %s",
		n, d.extents.t.vals[j], d.front.t.tags[j].TagName())
}

// Select projects the domain onto tags, in the order given
func (d Domain) Select(tags ...Tag) Domain {
	return d.As(NewTags(tags...))
}

// As projects or reorders the domain onto an existing tag list
func (d Domain) As(tags Tags) Domain {
	return Domain{front: d.front.As(tags), extents: d.extents.As(tags)}
}

// RemoveDims drops the given tags
func (d Domain) RemoveDims(tags ...Tag) Domain {
	return d.As(d.Tags().Without(tags...))
}

// ReplaceDim substitutes the dimension old with the one-dimensional domain
// repl, keeping its position in the tag order
func (d Domain) ReplaceDim(old Tag, repl Domain) Domain {
	utils.Assert(repl.Rank() == 1, "replacement domain must have rank 1, got %d", repl.Rank())
	j := d.index(old)
	tags := make([]Tag, d.Rank())
	copy(tags, d.Tags())
	tags[j] = repl.Tags()[0]
	out := Domain{
		front:   Element{t: tuple{tags: NewTags(tags...), vals: d.front.t.vals}},
		extents: Vector{t: tuple{vals: d.extents.t.vals}},
	}
	out.extents.t.tags = out.front.t.tags
	out.front.t.vals[j] = repl.front.t.vals[0]
	out.extents.t.vals[j] = repl.extents.t.vals[0]
	return out
}

// Contains reports whether e lies in the domain. e may carry extra tags.
func (d Domain) Contains(e Element) bool {
	e2 := e.As(d.Tags())
	for i := range d.front.t.tags {
		u := e2.t.vals[i] - d.front.t.vals[i]
		if u < 0 || u >= d.extents.t.vals[i] {
			return false
		}
	}
	return true
}

// Offset returns the row-major linear position of e in the domain
func (d Domain) Offset(e Element) int {
	utils.Assert(d.Contains(e), "element %v outside domain %v", e, d)
	e2 := e.As(d.Tags())
	off := 0
	for i := range d.front.t.tags {
		off = off*d.extents.t.vals[i] + e2.t.vals[i] - d.front.t.vals[i]
	}
	return off
}

// ElementAt is the inverse of Offset
func (d Domain) ElementAt(off int) Element {
	utils.Assert(off >= 0 && off < d.Size(), "offset %d outside [0, %d)", off, d.Size())
	e := d.front
	for i := d.Rank() - 1; i >= 0; i-- {
		n := d.extents.t.vals[i]
		e.t.vals[i] += off % n
		off /= n
	}
	return e
}

// Strided lifts the domain to a strided domain with unit strides
func (d Domain) Strided() StridedDomain {
	return StridedDomain{front: d.front, extents: d.extents, strides: Fill(d.Tags(), 1)}
}

// All iterates the domain in row-major order
func (d Domain) All() iter.Seq[Element] {
	return d.Range(0, d.Size())
}

// Range iterates the elements at linear offsets [lo, hi)
func (d Domain) Range(lo, hi int) iter.Seq[Element] {
	return d.Strided().Range(lo, hi)
}

// Equal reports whether both domains have the same tags, in the same order,
// and the same bounds
func (d Domain) Equal(o Domain) bool {
	return sameTags(d.Tags(), o.Tags()) && d.front.t.vals == o.front.t.vals &&
		d.extents.t.vals == o.extents.t.vals
}

func (d Domain) String() string {
	return fmt.Sprintf("Domain{front: %v, extents: %v}", d.front, d.extents)
}
