package discrete

import "github.com/notargets/ddc/utils"

// Vector is a multi-dimensional integer displacement, also used as an extent
type Vector struct {
	t tuple
}

// NewVector builds a vector over tags
func NewVector(tags Tags, vals ...int) Vector {
	return Vector{t: makeTuple(tags, vals)}
}

// Vect builds a one-dimensional vector of the marker type T
func Vect[T Tag](n int) Vector {
	return Vector{t: makeTuple(Tags{TagOf[T]()}, []int{n})}
}

// JoinVectors concatenates vectors over disjoint tags, in argument order
func JoinVectors(vs ...Vector) Vector {
	ts := make([]tuple, len(vs))
	for i, v := range vs {
		ts[i] = v.t
	}
	return Vector{t: joinTuples(ts...)}
}

// Fill returns a vector over tags with every component set to n
func Fill(tags Tags, n int) Vector {
	v := Vector{t: tuple{tags: tags}}
	for i := range tags {
		v.t.vals[i] = n
	}
	return v
}

func (v Vector) Tags() Tags {
	return v.t.tags
}

func (v Vector) Rank() int {
	return v.t.rank()
}

// Get returns the component along tag
func (v Vector) Get(tag Tag) int {
	return v.t.get(tag)
}

// GetOr returns the component along tag, or def when tag is absent
func (v Vector) GetOr(tag Tag, def int) int {
	if i := v.t.tags.Index(tag); i >= 0 {
		return v.t.vals[i]
	}
	return def
}

// At returns the i-th component
func (v Vector) At(i int) int {
	return v.t.vals[i]
}

// Value returns the component of a one-dimensional vector
func (v Vector) Value() int {
	utils.Assert(v.Rank() == 1, "Value on vector of rank %d", v.Rank())
	return v.t.vals[0]
}

// Select projects the vector onto tags, in the order given
func (v Vector) Select(tags ...Tag) Vector {
	return Vector{t: v.t.project(NewTags(tags...))}
}

// As reorders or projects the vector onto an existing tag list
func (v Vector) As(tags Tags) Vector {
	return Vector{t: v.t.project(tags)}
}

func (v Vector) Add(o Vector) Vector {
	return Vector{t: v.t.combine(o.t, 1)}
}

func (v Vector) Sub(o Vector) Vector {
	return Vector{t: v.t.combine(o.t, -1)}
}

func (v Vector) Neg() Vector {
	out := v
	for i := range v.t.tags {
		out.t.vals[i] = -v.t.vals[i]
	}
	return out
}

// Scale multiplies every component by k
func (v Vector) Scale(k int) Vector {
	out := v
	for i := range v.t.tags {
		out.t.vals[i] *= k
	}
	return out
}

// Product returns the product of the components; 1 for a rank-0 vector
func (v Vector) Product() int {
	p := 1
	for i := range v.t.tags {
		p *= v.t.vals[i]
	}
	return p
}

// Equal compares components tag by tag
func (v Vector) Equal(o Vector) bool {
	return v.t.equal(o.t)
}

func (v Vector) String() string {
	return v.t.format()
}
