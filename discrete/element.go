package discrete

import "github.com/notargets/ddc/utils"

// Element is a multi-dimensional grid index: one integer uid per tag
type Element struct {
	t tuple
}

// NewElement builds an element over tags. Callers that build many elements
// over the same dimensions should reuse one Tags value.
func NewElement(tags Tags, uids ...int) Element {
	return Element{t: makeTuple(tags, uids)}
}

// Elem builds a one-dimensional element of the marker type T
func Elem[T Tag](uid int) Element {
	return Element{t: makeTuple(Tags{TagOf[T]()}, []int{uid})}
}

// JoinElements concatenates elements over disjoint tags, in argument order
func JoinElements(es ...Element) Element {
	ts := make([]tuple, len(es))
	for i, e := range es {
		ts[i] = e.t
	}
	return Element{t: joinTuples(ts...)}
}

// Tags returns the dimensions of the element, in order
func (e Element) Tags() Tags {
	return e.t.tags
}

// Rank returns the number of dimensions
func (e Element) Rank() int {
	return e.t.rank()
}

// Uid returns the index along tag
func (e Element) Uid(tag Tag) int {
	return e.t.get(tag)
}

// UidAt returns the index of the i-th dimension
func (e Element) UidAt(i int) int {
	return e.t.vals[i]
}

// Value returns the index of a one-dimensional element
func (e Element) Value() int {
	utils.Assert(e.Rank() == 1, "Value on element of rank %d", e.Rank())
	return e.t.vals[0]
}

// Select projects the element onto tags, in the order given
func (e Element) Select(tags ...Tag) Element {
	return Element{t: e.t.project(NewTags(tags...))}
}

// As reorders or projects the element onto an existing tag list
func (e Element) As(tags Tags) Element {
	return Element{t: e.t.project(tags)}
}

// Add translates the element by v. v may cover a subset of the tags.
func (e Element) Add(v Vector) Element {
	return Element{t: e.t.combine(v.t, 1)}
}

// Sub translates the element by -v
func (e Element) Sub(v Vector) Element {
	return Element{t: e.t.combine(v.t, -1)}
}

// Shift translates the element along tag by n
func (e Element) Shift(tag Tag, n int) Element {
	i := e.t.tags.Index(tag)
	utils.Assert(i >= 0, "tag %s not in %v", tagName(tag), e.t.tags)
	out := e
	out.t.vals[i] += n
	return out
}

// Diff returns the displacement e - o. Both must span the same tags.
func (e Element) Diff(o Element) Vector {
	utils.Assert(e.t.tags.SameSet(o.t.tags), "Diff between %v and %v", e.t.tags, o.t.tags)
	return Vector{t: e.t.combine(o.t, -1)}
}

// Equal compares uids tag by tag
func (e Element) Equal(o Element) bool {
	return e.t.equal(o.t)
}

// LessEq reports whether every uid of e is <= the matching uid of o
func (e Element) LessEq(o Element) bool {
	for i, tag := range e.t.tags {
		if e.t.vals[i] > o.t.get(tag) {
			return false
		}
	}
	return true
}

// Less reports whether every uid of e is < the matching uid of o
func (e Element) Less(o Element) bool {
	for i, tag := range e.t.tags {
		if e.t.vals[i] >= o.t.get(tag) {
			return false
		}
	}
	return true
}

func (e Element) String() string {
	return e.t.format()
}

// Compare orders two rank-1 elements along the same tag: -1, 0 or +1
func (e Element) Compare(o Element) int {
	utils.Assert(e.Rank() == 1 && o.Rank() == 1, "Compare needs rank-1 elements, got %v and %v", e, o)
	a, b := e.t.vals[0], o.t.get(e.t.tags[0])
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
