package chunk

import (
	"fmt"

	"github.com/notargets/gocca"

	"github.com/notargets/ddc/discrete"
	"github.com/notargets/ddc/utils"
)

const maxRank = discrete.MaxRank

// ChunkSpan is a view of storage over a (possibly strided) domain. Member
// (u_0, ..., u_n) lives at base + sum(((u_i - front_i) / step_i) * strides_i).
// Views never copy: slicing only changes the domain, base and strides.
type ChunkSpan[T any] struct {
	sd       discrete.StridedDomain
	rank     int
	front    [maxRank]int
	ext      [maxRank]int
	step     [maxRank]int
	count    [maxRank]int
	strides  [maxRank]int
	base     int
	readOnly bool
	st       *storage[T]
}

func newSpan[T any](sd discrete.StridedDomain, strides []int, base int, st *storage[T]) ChunkSpan[T] {
	s := ChunkSpan[T]{rank: sd.Rank(), base: base, st: st}
	copy(s.strides[:], strides)
	front, ext, step := sd.Front(), sd.Extents(), sd.Strides()
	for i := 0; i < s.rank; i++ {
		s.front[i] = front.UidAt(i)
		s.ext[i] = ext.At(i)
		s.step[i] = step.At(i)
	}
	s.sd = sd
	s.refreshCounts()
	return s
}

func (s *ChunkSpan[T]) refreshCounts() {
	for i := 0; i < s.rank; i++ {
		s.count[i] = (s.ext[i] + s.step[i] - 1) / s.step[i]
	}
}

// rebuild recomputes the domain after front, ext or step changed
func (s *ChunkSpan[T]) rebuild(tags discrete.Tags) {
	s.sd = discrete.NewStridedDomain(
		discrete.NewElement(tags, s.front[:s.rank]...),
		discrete.NewVector(tags, s.ext[:s.rank]...),
		discrete.NewVector(tags, s.step[:s.rank]...))
	s.refreshCounts()
}

// Tags returns the dimensions of the view, in storage order
func (s ChunkSpan[T]) Tags() discrete.Tags { return s.sd.Tags() }

func (s ChunkSpan[T]) Rank() int { return s.rank }

// Size returns the number of members of the view
func (s ChunkSpan[T]) Size() int { return s.sd.Size() }

// Domain returns the domain of a view with unit steps
func (s ChunkSpan[T]) Domain() discrete.Domain {
	utils.Assert(s.sd.Unit(), "Domain on a strided view %v, use Strided", s.sd)
	return s.sd.Bounds()
}

// DomainOf returns the projection of the domain onto tags
func (s ChunkSpan[T]) DomainOf(tags ...discrete.Tag) discrete.Domain {
	return s.Domain().Select(tags...)
}

// Strided returns the domain of the view with its steps
func (s ChunkSpan[T]) Strided() discrete.StridedDomain { return s.sd }

// Iterable returns the domain as a plain Domain when steps are all 1
func (s ChunkSpan[T]) Iterable() discrete.Iterable {
	if s.sd.Unit() {
		return s.sd.Bounds()
	}
	return s.sd
}

// Space returns the memory space of the storage
func (s ChunkSpan[T]) Space() MemorySpace { return s.st.space }

// OnHost reports whether the storage can be read from Go code
func (s ChunkSpan[T]) OnHost() bool { return s.st.onHost() }

// ReadOnly reports whether the view came from SpanCView
func (s ChunkSpan[T]) ReadOnly() bool { return s.readOnly }

// Base returns the storage index of the front member
func (s ChunkSpan[T]) Base() int { return s.base }

// Strides returns the storage distance between consecutive members along
// each tag
func (s ChunkSpan[T]) Strides() []int {
	return append([]int(nil), s.strides[:s.rank]...)
}

// Counts returns the number of members along each tag
func (s ChunkSpan[T]) Counts() []int {
	return append([]int(nil), s.count[:s.rank]...)
}

// Data returns the whole host backing slice, not only the view's members
func (s ChunkSpan[T]) Data() []T {
	utils.Assert(s.st.onHost(), "host access to %s storage", s.st.space.Name())
	return s.st.host
}

// DeviceMemory returns the OCCA memory backing a device view
func (s ChunkSpan[T]) DeviceMemory() *gocca.OCCAMemory {
	return s.st.mem
}

// IsContiguous reports whether the members fill a gap-free storage window
func (s ChunkSpan[T]) IsContiguous() bool {
	return dense(s.strides[:s.rank], s.count[:s.rank])
}

// Layout reports how the view's members are arranged in storage
func (s ChunkSpan[T]) Layout() Layout {
	switch {
	case compactRight(s.strides[:s.rank], s.count[:s.rank]):
		return LayoutRight
	case compactLeft(s.strides[:s.rank], s.count[:s.rank]):
		return LayoutLeft
	}
	return LayoutStride
}

// window returns the smallest storage range [lo, hi) holding every member
func (s ChunkSpan[T]) window() (lo, hi int) {
	hi = s.base + 1
	for i := 0; i < s.rank; i++ {
		if s.count[i] == 0 {
			return s.base, s.base
		}
		hi += (s.count[i] - 1) * s.strides[i]
	}
	return s.base, hi
}

// index resolves one or more elements that together cover every tag of the
// view, in any order
func (s ChunkSpan[T]) index(es []discrete.Element) int {
	tags := s.sd.Tags()
	idx := s.base
	if len(es) == 1 && es[0].Tags().Equal(tags) {
		e := es[0]
		for i := 0; i < s.rank; i++ {
			idx += s.member(i, e.UidAt(i)) * s.strides[i]
		}
		return idx
	}
	if utils.ChecksEnabled {
		n := 0
		for _, e := range es {
			n += e.Rank()
		}
		utils.Assert(n == s.rank, "elements %v do not match view tags %v", es, tags)
	}
	for i, tag := range tags {
		idx += s.member(i, uidOf(es, tag)) * s.strides[i]
	}
	return idx
}

// member returns the position of uid among the members along dimension i
func (s ChunkSpan[T]) member(i, uid int) int {
	u := uid - s.front[i]
	if utils.ChecksEnabled {
		utils.Assert(u >= 0 && u < s.ext[i] && u%s.step[i] == 0,
			"index %d outside %s range [%d, %d) step %d", uid, s.sd.Tags()[i].TagName(),
			s.front[i], s.front[i]+s.ext[i], s.step[i])
	}
	if s.step[i] == 1 {
		return u
	}
	return u / s.step[i]
}

func uidOf(es []discrete.Element, tag discrete.Tag) int {
	for _, e := range es {
		if j := e.Tags().Index(tag); j >= 0 {
			return e.UidAt(j)
		}
	}
	panic(fmt.Sprintf("chunk: no index given for dimension %s", tag.TagName()))
}

// At returns the value at the element made of es
func (s ChunkSpan[T]) At(es ...discrete.Element) T {
	return s.st.host[s.hostIndex(es)]
}

// Set stores v at the element made of es
func (s ChunkSpan[T]) Set(v T, es ...discrete.Element) {
	utils.Assert(!s.readOnly, "Set on a read-only view")
	s.st.host[s.hostIndex(es)] = v
}

// Ptr returns the address of the value at the element made of es
func (s ChunkSpan[T]) Ptr(es ...discrete.Element) *T {
	utils.Assert(!s.readOnly, "Ptr on a read-only view")
	return &s.st.host[s.hostIndex(es)]
}

func (s ChunkSpan[T]) hostIndex(es []discrete.Element) int {
	utils.Assert(s.st.onHost(), "host access to %s storage", s.st.space.Name())
	return s.index(es)
}

// SpanView returns the view itself, keeping its read-only state
func (s ChunkSpan[T]) SpanView() ChunkSpan[T] { return s }

// SpanCView returns a read-only view over the same members
func (s ChunkSpan[T]) SpanCView() ChunkSpan[T] {
	out := s
	out.readOnly = true
	return out
}

// Slice fixes the tags of e and returns the view over the remaining tags
func (s ChunkSpan[T]) Slice(e discrete.Element) ChunkSpan[T] {
	tags := s.sd.Tags()
	base := s.base
	for i, tag := range e.Tags() {
		j := tags.Index(tag)
		utils.Assert(j >= 0, "slice tag %s not in view %v", tag.TagName(), tags)
		base += s.member(j, e.UidAt(i)) * s.strides[j]
	}
	keep := tags.Without(e.Tags()...)
	out := ChunkSpan[T]{rank: len(keep), base: base, readOnly: s.readOnly, st: s.st}
	for k, tag := range keep {
		j := tags.Index(tag)
		out.front[k], out.ext[k], out.step[k] = s.front[j], s.ext[j], s.step[j]
		out.strides[k] = s.strides[j]
	}
	out.rebuild(keep)
	return out
}

// SubDomain restricts the tags of d to d's ranges. d may cover a subset of
// the view's tags; the view must have unit steps along them.
func (s ChunkSpan[T]) SubDomain(d discrete.Domain) ChunkSpan[T] {
	out := s
	tags := s.sd.Tags()
	for i, tag := range d.Tags() {
		j := tags.Index(tag)
		utils.Assert(j >= 0, "sub-domain tag %s not in view %v", tag.TagName(), tags)
		utils.Assert(s.step[j] == 1, "sub-domain of strided dimension %s", tag.TagName())
		f, n := d.Front().UidAt(i), d.Extents().At(i)
		utils.Assert(f >= s.front[j] && f+n <= s.front[j]+s.ext[j],
			"sub-domain %v outside view %v", d, s.sd)
		out.base += (f - s.front[j]) * s.strides[j]
		out.front[j], out.ext[j] = f, n
	}
	out.rebuild(tags)
	return out
}

// SubStrided restricts the view to the members of sd. The view must have
// unit steps along the tags of sd.
func (s ChunkSpan[T]) SubStrided(sd discrete.StridedDomain) ChunkSpan[T] {
	out := s
	tags := s.sd.Tags()
	for i, tag := range sd.Tags() {
		j := tags.Index(tag)
		utils.Assert(j >= 0, "sub-domain tag %s not in view %v", tag.TagName(), tags)
		utils.Assert(s.step[j] == 1, "sub-domain of strided dimension %s", tag.TagName())
		f, n, st := sd.Front().UidAt(i), sd.Extents().At(i), sd.Strides().At(i)
		utils.Assert(f >= s.front[j] && f+n <= s.front[j]+s.ext[j],
			"sub-domain %v outside view %v", sd, s.sd)
		out.base += (f - s.front[j]) * s.strides[j]
		out.front[j], out.ext[j], out.step[j] = f, n, st
		out.strides[j] = s.strides[j] * st
	}
	out.rebuild(tags)
	return out
}

func (s ChunkSpan[T]) String() string {
	return fmt.Sprintf("ChunkSpan{%v, base: %d, strides: %v, space: %s}",
		s.sd, s.base, s.strides[:s.rank], s.st.space.Name())
}

func dense(strides, counts []int) bool {
	size, span := 1, 1
	for i := range counts {
		if counts[i] == 0 {
			return true
		}
		size *= counts[i]
		span += (counts[i] - 1) * strides[i]
	}
	return span == size
}

func compactRight(strides, counts []int) bool {
	expect := 1
	for i := len(counts) - 1; i >= 0; i-- {
		if counts[i] == 1 {
			continue
		}
		if strides[i] != expect {
			return false
		}
		expect *= counts[i]
	}
	return true
}

func compactLeft(strides, counts []int) bool {
	expect := 1
	for i := range counts {
		if counts[i] == 1 {
			continue
		}
		if strides[i] != expect {
			return false
		}
		expect *= counts[i]
	}
	return true
}

func layoutStrides(counts []int, layout Layout) []int {
	strides := make([]int, len(counts))
	acc := 1
	switch layout {
	case LayoutRight:
		for i := len(counts) - 1; i >= 0; i-- {
			strides[i] = acc
			acc *= counts[i]
		}
	case LayoutLeft:
		for i := range counts {
			strides[i] = acc
			acc *= counts[i]
		}
	default:
		panic(fmt.Sprintf("chunk: cannot allocate with %v", layout))
	}
	return strides
}
