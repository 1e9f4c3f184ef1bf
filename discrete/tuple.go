package discrete

import (
	"fmt"
	"strings"

	"github.com/notargets/ddc/utils"
)

// tuple is the storage shared by Element and Vector: one integer per tag
type tuple struct {
	tags Tags
	vals [MaxRank]int
}

func makeTuple(tags Tags, vals []int) tuple {
	utils.Assert(len(vals) == len(tags), "got %d values for tags %v", len(vals), tags)
	if utils.ChecksEnabled && len(tags) > 1 {
		checkUnique(tags)
	}
	t := tuple{tags: tags}
	copy(t.vals[:], vals)
	return t
}

// checkUnique asserts that no tag appears twice in tags
func checkUnique(tags Tags) {
	utils.Assert(len(tags) <= MaxRank, "rank %d exceeds MaxRank %d", len(tags), MaxRank)
	for i := 1; i < len(tags); i++ {
		for j := 0; j < i; j++ {
			utils.Assert(tags[j] != tags[i], "duplicate tag %s in %v", tagName(tags[i]), tags)
		}
	}
}

func (t tuple) rank() int {
	return len(t.tags)
}

func (t tuple) get(tag Tag) int {
	i := t.tags.Index(tag)
	utils.Assert(i >= 0, "tag %s not in %v", tagName(tag), t.tags)
	return t.vals[i]
}

// project returns the values of t for tags, in the order of tags
func (t tuple) project(tags Tags) tuple {
	if sameTags(t.tags, tags) {
		return t
	}
	if utils.ChecksEnabled {
		checkUnique(tags)
	}
	out := tuple{tags: tags}
	for i, tag := range tags {
		out.vals[i] = t.get(tag)
	}
	return out
}

// combine returns t + sign*o, matching o's tags by name. o may cover a
// subset of t's tags.
func (t tuple) combine(o tuple, sign int) tuple {
	out := t
	if sameTags(t.tags, o.tags) {
		for i := range t.tags {
			out.vals[i] += sign * o.vals[i]
		}
		return out
	}
	for i, tag := range o.tags {
		j := t.tags.Index(tag)
		utils.Assert(j >= 0, "tag %s not in %v", tagName(tag), t.tags)
		out.vals[j] += sign * o.vals[i]
	}
	return out
}

// equal compares by tag, so both tuples may list their tags in any order
func (t tuple) equal(o tuple) bool {
	if len(t.tags) != len(o.tags) {
		return false
	}
	if sameTags(t.tags, o.tags) {
		return t.vals == o.vals
	}
	for i, tag := range t.tags {
		j := o.tags.Index(tag)
		if j < 0 || o.vals[j] != t.vals[i] {
			return false
		}
	}
	return true
}

func joinTuples(ts ...tuple) tuple {
	var tags []Tag
	var vals []int
	for _, t := range ts {
		tags = append(tags, t.tags...)
		vals = append(vals, t.vals[:t.rank()]...)
	}
	return makeTuple(NewTags(tags...), vals)
}

func (t tuple) format() string {
	parts := make([]string, t.rank())
	for i, tag := range t.tags {
		parts[i] = fmt.Sprintf("%s=%d", tag.TagName(), t.vals[i])
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func tagName(t Tag) string {
	if t == nil {
		return "<nil>"
	}
	return t.TagName()
}
