package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/ddc/discrete"
	"github.com/notargets/ddc/utils"
)

type DDimX struct{}

func (DDimX) TagName() string { return "X" }

type DDimVx struct{}

func (DDimVx) TagName() string { return "Vx" }

var (
	tagX  = discrete.TagOf[DDimX]()
	tagVx = discrete.TagOf[DDimVx]()
)

func domXVx(fx, nx, fv, nv int) discrete.Domain {
	return discrete.ProductDomain(discrete.DomainOf[DDimX](fx, nx), discrete.DomainOf[DDimVx](fv, nv))
}

// fill sets block(ii, jj) = ii + .001*jj
func fill(c ChunkSpan[float64]) {
	for e := range c.Domain().All() {
		c.Set(float64(e.Uid(tagX))+.001*float64(e.Uid(tagVx)), e)
	}
}

func TestChunk_OneDim(t *testing.T) {
	dom := discrete.DomainOf[DDimX](10, 91)
	c := New[float64]("x", dom)
	assert.Equal(t, "x", c.Label())
	assert.True(t, c.Domain().Equal(dom))
	assert.True(t, c.DomainOf(tagX).Equal(dom))
	assert.Equal(t, 91, c.Size())

	for e := range dom.All() {
		c.Set(float64(e.Value())*.01, e)
	}
	for e := range dom.All() {
		assert.Equal(t, float64(e.Value())*.01, c.At(e))
	}
	*c.Ptr(discrete.Elem[DDimX](10)) = 7
	assert.Equal(t, 7., c.Data()[0])

	if utils.ChecksEnabled {
		assert.Panics(t, func() { c.At(discrete.Elem[DDimX](9)) })
		assert.Panics(t, func() { c.At(discrete.Elem[DDimX](101)) })
	}
}

func TestChunk_DeepCopy(t *testing.T) {
	dom := domXVx(0, 10, 0, 11)
	a := New[float64]("a", dom)
	fill(a.SpanView())

	b := New[float64]("b", dom)
	DeepCopy(b.SpanView(), a.SpanCView())
	DeepCopy(b.SpanView(), a.SpanCView())
	for e := range dom.All() {
		require.Equal(t, a.At(e), b.At(e))
	}

	t.Run("Different fronts", func(t *testing.T) {
		shifted := New[float64]("s", domXVx(5, 10, -3, 11))
		DeepCopy(shifted.SpanView(), a.SpanView())
		assert.Equal(t, a.At(dom.Back()), shifted.At(shifted.Domain().Back()))
	})

	if utils.ChecksEnabled {
		assert.Panics(t, func() { DeepCopy(b.SpanCView(), a.SpanView()) })
		assert.Panics(t, func() { DeepCopy(New[float64]("small", domXVx(0, 9, 0, 11)).SpanView(), a.SpanView()) })
	}
}

func TestChunk_Reordering(t *testing.T) {
	dom := domXVx(0, 10, 0, 11)
	a := New[float64]("a", dom)
	fill(a.SpanView())

	r := New[float64]("r", dom.Select(tagVx, tagX))
	DeepCopy(r.SpanView(), a.SpanView())
	for ii := range dom.Select(tagX).All() {
		for jj := range dom.Select(tagVx).All() {
			require.Equal(t, a.At(ii, jj), r.At(jj, ii))
		}
	}
	// Storage follows the chunk's own tag order
	assert.Equal(t, 1., r.Data()[1])
	assert.Equal(t, []int{10, 1}, r.Strides())
}

func TestChunk_LayoutLeft(t *testing.T) {
	dom := domXVx(0, 3, 0, 4)
	a := New[float64]("a", dom)
	fill(a.SpanView())
	l := Alloc[float64](dom, Config{Label: "l", Layout: LayoutLeft})
	assert.Equal(t, LayoutLeft, l.Layout())
	assert.Equal(t, LayoutLeft, l.SpanView().Layout())
	assert.Equal(t, []int{1, 3}, l.Strides())

	DeepCopy(l.SpanView(), a.SpanView())
	for e := range dom.All() {
		assert.Equal(t, a.At(e), l.At(e))
	}
	assert.Equal(t, 1., l.Data()[1])
}

func testSlices(t *testing.T, dom discrete.Domain) {
	c := New[float64]("c", dom)
	fill(c.SpanView())
	cref := c.SpanCView()
	assert.Equal(t, LayoutRight, cref.Layout())

	sliceVal := 1
	front := dom.Front()
	vxAt := discrete.Elem[DDimVx](front.Uid(tagVx) + sliceVal)
	xAt := discrete.Elem[DDimX](front.Uid(tagX) + sliceVal)

	t.Run("Fix second tag", func(t *testing.T) {
		blockX := cref.Slice(vxAt)
		assert.Equal(t, LayoutStride, blockX.Layout())
		assert.False(t, blockX.IsContiguous())
		assert.Equal(t, dom.Extent(tagX), blockX.Domain().Extent(tagX))
		for ii := range cref.DomainOf(tagX).All() {
			assert.Equal(t, cref.At(ii, vxAt), blockX.At(ii))
		}
	})

	t.Run("Fix first tag", func(t *testing.T) {
		blockV := cref.Slice(xAt)
		assert.Equal(t, LayoutRight, blockV.Layout())
		assert.True(t, blockV.IsContiguous())
		assert.Equal(t, dom.Extent(tagVx), blockV.Domain().Extent(tagVx))
		for jj := range cref.DomainOf(tagVx).All() {
			assert.Equal(t, cref.At(xAt, jj), blockV.At(jj))
		}
	})

	t.Run("Sub domain", func(t *testing.T) {
		sub := discrete.DomainOf[DDimX](front.Uid(tagX)+10, 5)
		subBlock := cref.SubDomain(sub)
		assert.Equal(t, 5, subBlock.Domain().Extent(tagX))
		assert.Equal(t, dom.Extent(tagVx), subBlock.Domain().Extent(tagVx))
		for e := range subBlock.Domain().All() {
			assert.Equal(t, cref.At(e), subBlock.At(e))
		}
		if utils.ChecksEnabled {
			assert.Panics(t, func() { subBlock.At(dom.Front()) })
		}
	})
}

func TestChunk_Slice(t *testing.T) {
	testSlices(t, domXVx(0, 20, 0, 11))
}

func TestChunk_NonZeroFront(t *testing.T) {
	dom := domXVx(100, 101, 100, 101)
	c := New[float64]("c", dom)
	fill(c.SpanView())
	for i, e := 0, dom.Front(); i < 3; i++ {
		assert.Equal(t, c.Data()[dom.Offset(e)], c.At(e))
		e = e.Add(discrete.NewVector(dom.Tags(), 1, 2))
	}
	testSlices(t, dom)
}

func TestChunk_Views(t *testing.T) {
	dom := domXVx(0, 4, 0, 5)
	c := New[float64]("c", dom)
	fill(c.SpanView())

	t.Run("CView", func(t *testing.T) {
		cv := c.SpanCView()
		assert.True(t, cv.ReadOnly())
		assert.True(t, cv.SpanView().ReadOnly())
		for e := range dom.All() {
			assert.Equal(t, c.At(e), cv.At(e))
		}
		if utils.ChecksEnabled {
			assert.Panics(t, func() { cv.Set(1, dom.Front()) })
		}
	})

	t.Run("Automatic reordering", func(t *testing.T) {
		for ii := range dom.Select(tagX).All() {
			for jj := range dom.Select(tagVx).All() {
				assert.Equal(t, c.At(ii, jj), c.At(jj, ii))
				assert.Equal(t, c.At(ii, jj), c.At(discrete.JoinElements(jj, ii)))
			}
		}
	})

	t.Run("Write through slice", func(t *testing.T) {
		row := c.Slice(discrete.Elem[DDimX](2))
		row.Set(-1, discrete.Elem[DDimVx](3))
		assert.Equal(t, -1., c.At(discrete.NewElement(dom.Tags(), 2, 3)))
	})

	t.Run("Rank zero", func(t *testing.T) {
		point := c.Slice(discrete.NewElement(dom.Tags(), 1, 1))
		assert.Equal(t, 0, point.Rank())
		assert.Equal(t, 1, point.Size())
		assert.Equal(t, c.At(discrete.NewElement(dom.Tags(), 1, 1)), point.At())
	})
}

func TestChunk_Strided(t *testing.T) {
	tags := discrete.NewTags(tagX, tagVx)
	dom := domXVx(0, 10, 0, 12)
	c := New[int32]("c", dom)

	sd := discrete.NewStridedDomain(discrete.NewElement(tags, 0, 0), discrete.NewVector(tags, 10, 12),
		discrete.NewVector(tags, 3, 3))
	view := c.SubStrided(sd)
	require.Equal(t, 16, view.Size())
	assert.Equal(t, []int{36, 3}, view.Strides())
	for e := range sd.All() {
		*view.Ptr(e) += 1
	}
	ones := 0
	for _, v := range c.Data() {
		ones += int(v)
	}
	assert.Equal(t, 16, ones)
	assert.Equal(t, int32(1), c.At(discrete.NewElement(tags, 9, 9)))
	assert.Equal(t, int32(0), c.At(discrete.NewElement(tags, 9, 10)))

	t.Run("Compact strided chunk", func(t *testing.T) {
		packed := AllocStrided[int32](sd, Config{Label: "packed"})
		assert.Equal(t, 16, len(packed.Data()))
		DeepCopy(packed.SpanView(), view)
		for _, v := range packed.Data() {
			assert.Equal(t, int32(1), v)
		}
		if utils.ChecksEnabled {
			assert.Panics(t, func() { packed.Domain() })
		}
	})
}

func TestChunk_Fill(t *testing.T) {
	dom := domXVx(0, 6, 0, 7)
	c := New[float64]("c", dom)
	inner := dom.Remove(discrete.NewVector(dom.Tags(), 1, 1), discrete.NewVector(dom.Tags(), 1, 1))
	Fill(c.SubDomain(inner), 2.)
	sum := 0.
	for _, v := range c.Data() {
		sum += v
	}
	assert.Equal(t, 2.*float64(inner.Size()), sum)
	assert.Equal(t, 0., c.At(dom.Front()))
}

func TestChunk_Mirror(t *testing.T) {
	dom := domXVx(0, 3, 0, 4)
	c := New[float64]("c", dom)
	fill(c.SpanView())

	m := CreateMirror(HostSpace{}, c.SpanCView())
	assert.True(t, m.Domain().Equal(dom))
	assert.Equal(t, 0., m.At(dom.Back()))

	mc := CreateMirrorAndCopy(HostSpace{}, c.SpanCView())
	assert.Equal(t, c.At(dom.Back()), mc.At(dom.Back()))
	mc.Set(99, dom.Back())
	assert.NotEqual(t, 99., c.At(dom.Back()))

	mv := CreateMirrorView(HostSpace{}, c.SpanView())
	mv.Set(42, dom.Front())
	assert.Equal(t, 42., c.At(dom.Front()))
	mv.Free()
	assert.Equal(t, 42., c.At(dom.Front()))
}

func TestChunk_Matrix(t *testing.T) {
	dom := domXVx(0, 4, 0, 3)
	c := New[float64]("c", dom)
	fill(c.SpanView())

	m := AsDense(c.SpanView())
	r, cols := m.Dims()
	require.Equal(t, 4, r)
	require.Equal(t, 3, cols)
	assert.Equal(t, c.At(discrete.NewElement(dom.Tags(), 2, 1)), m.At(2, 1))
	m.Set(0, 0, -5)
	assert.Equal(t, -5., c.At(dom.Front()))

	// A sub-view keeps the parent row stride
	sub := AsDense(c.SubDomain(discrete.DomainOf[DDimVx](1, 2)))
	assert.Equal(t, c.At(discrete.NewElement(dom.Tags(), 3, 2)), sub.At(3, 1))

	src := mat.NewDense(4, 3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})
	CopyFromMatrix(c.SpanView(), src)
	assert.Equal(t, 6., c.At(discrete.NewElement(dom.Tags(), 1, 2)))
	assert.True(t, mat.Equal(src, AsDense(c.SpanView())))
}
