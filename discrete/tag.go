package discrete

import (
	"strings"

	"github.com/notargets/ddc/utils"
)

// MaxRank is the largest number of dimensions an element, vector or domain
// can carry.
const MaxRank = 8

// Tag identifies one discrete dimension. Tags are zero-size marker structs:
//
//	type DDimX struct{}
//
//	func (DDimX) TagName() string { return "X" }
//
// Two tag values are the same dimension when their dynamic types match.
type Tag interface {
	TagName() string
}

// TagOf returns the tag value of the marker type T
func TagOf[T Tag]() Tag {
	var t T
	return t
}

// Tags is an ordered list of unique tags
type Tags []Tag

// NewTags copies the given tags into a new list, asserting they are unique
func NewTags(tags ...Tag) Tags {
	utils.Assert(len(tags) <= MaxRank, "rank %d exceeds MaxRank %d", len(tags), MaxRank)
	out := make(Tags, len(tags))
	for i, t := range tags {
		utils.Assert(t != nil, "nil tag at position %d", i)
		for j := 0; j < i; j++ {
			utils.Assert(out[j] != t, "duplicate tag %s", t.TagName())
		}
		out[i] = t
	}
	return out
}

// Index returns the position of t, or -1 if it is absent
func (ts Tags) Index(t Tag) int {
	for i := range ts {
		if ts[i] == t {
			return i
		}
	}
	return -1
}

// Contains reports whether t is one of the tags
func (ts Tags) Contains(t Tag) bool {
	return ts.Index(t) >= 0
}

// ContainsAll reports whether every tag of o is present in ts
func (ts Tags) ContainsAll(o Tags) bool {
	for _, t := range o {
		if !ts.Contains(t) {
			return false
		}
	}
	return true
}

// Equal reports whether both lists hold the same tags in the same order
func (ts Tags) Equal(o Tags) bool {
	return sameTags(ts, o)
}

// SameSet reports whether both lists hold the same tags in any order
func (ts Tags) SameSet(o Tags) bool {
	return len(ts) == len(o) && ts.ContainsAll(o)
}

// Without returns the tags of ts that are not listed in drop, in order
func (ts Tags) Without(drop ...Tag) Tags {
	out := make(Tags, 0, len(ts))
	for _, t := range ts {
		if Tags(drop).Index(t) < 0 {
			out = append(out, t)
		}
	}
	return out
}

func (ts Tags) String() string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.TagName()
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// sameTags is the hot-path comparison: values produced from one domain share
// the same backing slice, so most calls stop at the pointer check.
func sameTags(a, b Tags) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 || &a[0] == &b[0] {
		return true
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
