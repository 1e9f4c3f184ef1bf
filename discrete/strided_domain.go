package discrete

import (
	"fmt"
	"iter"

	"github.com/notargets/ddc/utils"
)

// StridedDomain is a Domain whose members along each tag are
// front, front+stride, ... up to the extent. Along a tag with extent e and
// stride s it holds ceil(e/s) members.
type StridedDomain struct {
	front   Element
	extents Vector
	strides Vector
}

// NewStridedDomain builds a strided domain. extents bound the covered index
// range; strides must be >= 1.
func NewStridedDomain(front Element, extents, strides Vector) StridedDomain {
	d := NewDomain(front, extents)
	utils.Assert(front.t.tags.SameSet(strides.t.tags),
		"front tags %v do not match stride tags %v", front.t.tags, strides.t.tags)
	st := strides.As(front.t.tags)
	for i := range st.t.tags {
		utils.Assert(st.t.vals[i] >= 1, "stride %d along %s must be >= 1",
			st.t.vals[i], st.t.tags[i].TagName())
	}
	return StridedDomain{front: d.front, extents: d.extents, strides: st}
}

func (d StridedDomain) Tags() Tags {
	return d.front.t.tags
}

func (d StridedDomain) Rank() int {
	return d.front.Rank()
}

func (d StridedDomain) Front() Element {
	return d.front
}

// Extents returns the covered index range along each tag
func (d StridedDomain) Extents() Vector {
	return d.extents
}

func (d StridedDomain) Strides() Vector {
	return d.strides
}

// Counts returns the number of members along each tag
func (d StridedDomain) Counts() Vector {
	c := d.extents
	for i := range c.t.tags {
		c.t.vals[i] = d.count(i)
	}
	return c
}

func (d StridedDomain) count(i int) int {
	return (d.extents.t.vals[i] + d.strides.t.vals[i] - 1) / d.strides.t.vals[i]
}

// Size returns the number of members
func (d StridedDomain) Size() int {
	return d.Counts().Product()
}

func (d StridedDomain) Empty() bool {
	return d.Size() == 0
}

// Back returns the last member
func (d StridedDomain) Back() Element {
	b := d.front
	for i := range b.t.tags {
		b.t.vals[i] += (d.count(i) - 1) * d.strides.t.vals[i]
	}
	return b
}

// Bounds returns the unstrided domain covering the same index range
func (d StridedDomain) Bounds() Domain {
	return Domain{front: d.front, extents: d.extents}
}

// Unit reports whether every stride is 1
func (d StridedDomain) Unit() bool {
	for i := range d.strides.t.tags {
		if d.strides.t.vals[i] != 1 {
			return false
		}
	}
	return true
}

// Select projects the domain onto tags, in the order given
func (d StridedDomain) Select(tags ...Tag) StridedDomain {
	return d.As(NewTags(tags...))
}

// As projects or reorders the domain onto an existing tag list
func (d StridedDomain) As(tags Tags) StridedDomain {
	return StridedDomain{front: d.front.As(tags), extents: d.extents.As(tags), strides: d.strides.As(tags)}
}

// TakeFirst keeps the first n members along each tag of n
func (d StridedDomain) TakeFirst(n Vector) StridedDomain {
	out := d
	for i, tag := range n.t.tags {
		j := d.index(tag)
		d.assertCount(j, n.t.vals[i])
		out.extents.t.vals[j] = n.t.vals[i] * d.strides.t.vals[j]
		out.clamp(j, d)
	}
	return out
}

// TakeLast keeps the last n members along each tag of n
func (d StridedDomain) TakeLast(n Vector) StridedDomain {
	out := d
	for i, tag := range n.t.tags {
		j := d.index(tag)
		d.assertCount(j, n.t.vals[i])
		out.front.t.vals[j] += (d.count(j) - n.t.vals[i]) * d.strides.t.vals[j]
		out.extents.t.vals[j] = n.t.vals[i] * d.strides.t.vals[j]
		out.clamp(j, d)
	}
	return out
}

// RemoveFirst drops the first n members along each tag of n
func (d StridedDomain) RemoveFirst(n Vector) StridedDomain {
	c := d.Counts()
	return d.TakeLast(c.As(n.t.tags).Sub(n))
}

// RemoveLast drops the last n members along each tag of n
func (d StridedDomain) RemoveLast(n Vector) StridedDomain {
	c := d.Counts()
	return d.TakeFirst(c.As(n.t.tags).Sub(n))
}

// clamp keeps the extent of dimension j inside the range covered by src
func (d *StridedDomain) clamp(j int, src StridedDomain) {
	end := src.front.t.vals[j] + src.extents.t.vals[j]
	if d.front.t.vals[j]+d.extents.t.vals[j] > end {
		d.extents.t.vals[j] = end - d.front.t.vals[j]
	}
}

func (d StridedDomain) index(tag Tag) int {
	j := d.front.t.tags.Index(tag)
	utils.Assert(j >= 0, "tag %s not in domain %v", tagName(tag), d.Tags())
	return j
}

func (d StridedDomain) assertCount(j, n int) {
	utils.Assert(n >= 0 && n <= d.count(j), "count %d outside [0, %d] along %s",
		n, d.count(j), d.front.t.tags[j].TagName())
}

// Contains reports whether e is a member: inside the bounds and on the
// stride along every tag
func (d StridedDomain) Contains(e Element) bool {
	e2 := e.As(d.Tags())
	for i := range d.front.t.tags {
		u := e2.t.vals[i] - d.front.t.vals[i]
		if u < 0 || u >= d.extents.t.vals[i] || u%d.strides.t.vals[i] != 0 {
			return false
		}
	}
	return true
}

// Offset returns the row-major linear position of e among the members
func (d StridedDomain) Offset(e Element) int {
	utils.Assert(d.Contains(e), "element %v outside domain %v", e, d)
	e2 := e.As(d.Tags())
	off := 0
	for i := range d.front.t.tags {
		off = off*d.count(i) + (e2.t.vals[i]-d.front.t.vals[i])/d.strides.t.vals[i]
	}
	return off
}

// ElementAt is the inverse of Offset
func (d StridedDomain) ElementAt(off int) Element {
	utils.Assert(off >= 0 && off < d.Size(), "offset %d outside [0, %d)", off, d.Size())
	e := d.front
	for i := d.Rank() - 1; i >= 0; i-- {
		n := d.count(i)
		e.t.vals[i] += (off % n) * d.strides.t.vals[i]
		off /= n
	}
	return e
}

// All iterates the members in row-major order
func (d StridedDomain) All() iter.Seq[Element] {
	return d.Range(0, d.Size())
}

// Range iterates the members at linear offsets [lo, hi). The position is
// carried from one element to the next, so no division happens per element.
func (d StridedDomain) Range(lo, hi int) iter.Seq[Element] {
	return func(yield func(Element) bool) {
		if hi > d.Size() {
			hi = d.Size()
		}
		if lo >= hi {
			return
		}
		e := d.ElementAt(lo)
		rank := d.Rank()
		var end [MaxRank]int
		for i := 0; i < rank; i++ {
			end[i] = d.front.t.vals[i] + d.count(i)*d.strides.t.vals[i]
		}
		for n := lo; n < hi; n++ {
			if !yield(e) {
				return
			}
			for i := rank - 1; i >= 0; i-- {
				e.t.vals[i] += d.strides.t.vals[i]
				if e.t.vals[i] < end[i] {
					break
				}
				e.t.vals[i] = d.front.t.vals[i]
			}
		}
	}
}

// Equal reports whether both domains have the same tags, in the same order,
// the same bounds and the same strides
func (d StridedDomain) Equal(o StridedDomain) bool {
	return sameTags(d.Tags(), o.Tags()) && d.front.t.vals == o.front.t.vals &&
		d.extents.t.vals == o.extents.t.vals && d.strides.t.vals == o.strides.t.vals
}

func (d StridedDomain) String() string {
	return fmt.Sprintf("StridedDomain{front: %v, extents: %v, strides: %v}", d.front, d.extents, d.strides)
}

// Iterable is the traversal surface shared by Domain and StridedDomain
type Iterable interface {
	Tags() Tags
	Size() int
	Range(lo, hi int) iter.Seq[Element]
	Contains(e Element) bool
}

var (
	_ Iterable = Domain{}
	_ Iterable = StridedDomain{}
)
