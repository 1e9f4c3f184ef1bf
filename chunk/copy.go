package chunk

import "github.com/notargets/ddc/utils"

// copyPlan walks two views with the same member counts in the order of the
// destination's tags
type copyPlan struct {
	rank     int
	counts   [maxRank]int
	dst, src [maxRank]int
	dstBase  int
	srcBase  int
}

func newCopyPlan[T any](dst, src ChunkSpan[T]) copyPlan {
	dtags, stags := dst.sd.Tags(), src.sd.Tags()
	utils.Assert(dtags.SameSet(stags), "deep copy between %v and %v", dtags, stags)
	p := copyPlan{rank: dst.rank, dstBase: dst.base, srcBase: src.base}
	for i, tag := range dtags {
		j := stags.Index(tag)
		utils.Assert(dst.count[i] == src.count[j], "deep copy size mismatch along %s: %d != %d",
			tag.TagName(), dst.count[i], src.count[j])
		p.counts[i] = dst.count[i]
		p.dst[i] = dst.strides[i]
		p.src[i] = src.strides[j]
	}
	return p
}

func (p copyPlan) size() int {
	n := 1
	for i := 0; i < p.rank; i++ {
		n *= p.counts[i]
	}
	return n
}

// contiguous reports whether both sides are one gap-free block in the same order
func (p copyPlan) contiguous() bool {
	return p.dst == p.src && compactRight(p.dst[:p.rank], p.counts[:p.rank])
}

// walk calls fn with the destination and source storage indices of every
// member, last tag fastest
func (p copyPlan) walk(fn func(d, s int)) {
	p.walkRange(0, p.size(), fn)
}

// walkRange is walk restricted to the members at linear offsets [lo, hi)
func (p copyPlan) walkRange(lo, hi int, fn func(d, s int)) {
	if lo >= hi {
		return
	}
	var pos [maxRank]int
	d, s := p.dstBase, p.srcBase
	rem := lo
	for i := p.rank - 1; i >= 0; i-- {
		pos[i] = rem % p.counts[i]
		rem /= p.counts[i]
		d += pos[i] * p.dst[i]
		s += pos[i] * p.src[i]
	}
	for n := lo; n < hi; n++ {
		fn(d, s)
		for i := p.rank - 1; i >= 0; i-- {
			pos[i]++
			d += p.dst[i]
			s += p.src[i]
			if pos[i] < p.counts[i] {
				break
			}
			d -= pos[i] * p.dst[i]
			s -= pos[i] * p.src[i]
			pos[i] = 0
		}
	}
}

// DeepCopy copies every member of src into the member of dst with the same
// position along each tag. Tags are matched by identity, so the views may
// store them in different orders and live in different memory spaces. dst
// and src must not overlap.
func DeepCopy[T any](dst, src ChunkSpan[T]) {
	utils.Assert(!dst.readOnly, "deep copy into a read-only view")
	p := newCopyPlan(dst, src)
	n := p.size()
	if n == 0 {
		return
	}
	if p.contiguous() {
		copyBlock(dst, src, n)
		return
	}

	// Stage device sides through host buffers covering their windows
	dHost, dLo := dst.st.host, 0
	if !dst.st.onHost() {
		lo, hi := dst.window()
		dHost, dLo = make([]T, hi-lo), lo
		dst.st.read(dHost, lo)
	}
	sHost, sLo := src.st.host, 0
	if !src.st.onHost() {
		lo, hi := src.window()
		sHost, sLo = make([]T, hi-lo), lo
		src.st.read(sHost, lo)
	}
	p.dstBase -= dLo
	p.srcBase -= sLo
	p.walk(func(d, s int) { dHost[d] = sHost[s] })
	if !dst.st.onHost() {
		dst.st.write(dHost, dLo)
	}
}

// DeepCopyRange copies the members of dst at linear offsets [lo, hi), in
// dst's tag order. Both views must live on the host. Calls over disjoint
// ranges may run concurrently.
func DeepCopyRange[T any](dst, src ChunkSpan[T], lo, hi int) {
	utils.Assert(!dst.readOnly, "deep copy into a read-only view")
	utils.Assert(dst.st.onHost() && src.st.onHost(), "DeepCopyRange needs host views")
	p := newCopyPlan(dst, src)
	if hi > p.size() {
		hi = p.size()
	}
	dh, sh := dst.st.host, src.st.host
	p.walkRange(lo, hi, func(d, s int) { dh[d] = sh[s] })
}

func copyBlock[T any](dst, src ChunkSpan[T], n int) {
	switch {
	case dst.st.onHost() && src.st.onHost():
		copy(dst.st.host[dst.base:dst.base+n], src.st.host[src.base:src.base+n])
	case dst.st.onHost():
		src.st.read(dst.st.host[dst.base:dst.base+n], src.base)
	case src.st.onHost():
		dst.st.write(src.st.host[src.base:src.base+n], dst.base)
	default:
		buf := make([]T, n)
		src.st.read(buf, src.base)
		dst.st.write(buf, dst.base)
	}
}

// Fill sets every member of s to v, staging through the host for device views
func Fill[T any](s ChunkSpan[T], v T) {
	utils.Assert(!s.readOnly, "fill of a read-only view")
	if s.Size() == 0 {
		return
	}
	p := copyPlan{rank: s.rank, counts: s.count, dst: s.strides, src: s.strides, dstBase: s.base, srcBase: s.base}
	if s.st.onHost() {
		p.walk(func(d, _ int) { s.st.host[d] = v })
		return
	}
	lo, hi := s.window()
	buf := make([]T, hi-lo)
	if !s.IsContiguous() {
		s.st.read(buf, lo)
	}
	p.dstBase -= lo
	p.walk(func(d, _ int) { buf[d] = v })
	s.st.write(buf, lo)
}

// CreateMirror allocates a chunk in space over the same domain as src, in
// src's tag order. Contents are not copied.
func CreateMirror[T any](space MemorySpace, src ChunkSpan[T]) *Chunk[T] {
	return AllocStrided[T](src.sd, Config{Label: "mirror", Space: space})
}

// CreateMirrorAndCopy allocates a mirror of src in space and deep copies src
// into it
func CreateMirrorAndCopy[T any](space MemorySpace, src ChunkSpan[T]) *Chunk[T] {
	m := CreateMirror(space, src)
	DeepCopy(m.SpanView(), src)
	return m
}

// CreateMirrorView returns src itself, wrapped in a chunk that does not own
// it, when src already lives in space. Otherwise it allocates a mirror and
// copies src into it.
func CreateMirrorView[T any](space MemorySpace, src ChunkSpan[T]) *Chunk[T] {
	if SameSpace(space, src.st.space) {
		return view(src, "mirror")
	}
	return CreateMirrorAndCopy(space, src)
}
