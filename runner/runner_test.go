package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/ddc/chunk"
	"github.com/notargets/ddc/discrete"
	"github.com/notargets/ddc/runner/builder"
	"github.com/notargets/ddc/utils"
)

type DDimX struct{}

func (DDimX) TagName() string { return "X" }

type DDimY struct{}

func (DDimY) TagName() string { return "Y" }

var (
	tagX   = discrete.TagOf[DDimX]()
	tagY   = discrete.TagOf[DDimY]()
	tagsXY = discrete.NewTags(tagX, tagY)
)

func domXY(nx, ny int) discrete.Domain {
	return discrete.NewDomain(discrete.NewElement(tagsXY, 0, 0), discrete.NewVector(tagsXY, nx, ny))
}

func toHost[T any](s chunk.ChunkSpan[T]) *chunk.Chunk[T] {
	return chunk.CreateMirrorAndCopy(chunk.HostSpace{}, s)
}

func TestRunner_Creation(t *testing.T) {
	t.Run("NilDevice", func(t *testing.T) {
		assert.Panics(t, func() { NewRunner(nil, domXY(2, 2).Strided(), builder.Config{}) })
	})

	device := utils.CreateTestDevice()
	defer device.Free()

	t.Run("EmptyKArray", func(t *testing.T) {
		kr := NewRunner(device, domXY(0, 3).Strided(), builder.Config{})
		defer kr.Free()
		assert.Equal(t, []int{0}, kr.K)
	})

	t.Run("DefaultPartitions", func(t *testing.T) {
		kr := NewRunner(device, domXY(30, 30).Strided(), builder.Config{})
		defer kr.Free()
		assert.Equal(t, 4, kr.NumPartitions)
		assert.Equal(t, 900, kr.GetTotalElements())
		assert.LessOrEqual(t, kr.KpartMax, DefaultPartitionSize)
		require.Len(t, kr.Dims, 2)
		assert.Equal(t, builder.Dim{Name: "Y", Front: 0, Count: 30, Stride: 1}, kr.Dims[1])
	})

	t.Run("ExplicitK", func(t *testing.T) {
		kr := NewRunner(device, domXY(10, 12).Strided(), builder.Config{K: []int{40, 40, 40}, IntType: builder.INT32})
		defer kr.Free()
		assert.Equal(t, 40, kr.KpartMax)
		assert.Equal(t, 4, kr.GetIntSize())
		assert.Equal(t, int64(kr.GetIntSize()), SizeOfType(kr.IntType))
	})

	t.Run("OversizedPartition", func(t *testing.T) {
		n := 1<<20 + 2
		dom := discrete.DomainOf[DDimX](0, n)
		assert.PanicsWithValue(t,
			"KpartMax exceeds 2^20 (1048576), usually caused by unbalanced workloads.\n"+
				"Found KpartMax=1048577 over 2 partitions (min 1, avg 524289.0, imbalance 2.00).\n"+
				"Please balance K values or increase partition count.",
			func() { NewRunner(device, dom.Strided(), builder.Config{K: []int{n - 1, 1}}) })
	})

	t.Run("MismatchedK", func(t *testing.T) {
		assert.Panics(t, func() { NewRunner(device, domXY(10, 12).Strided(), builder.Config{K: []int{100}}) })
	})
}

func TestRunner_ParallelForEach(t *testing.T) {
	device := utils.CreateTestDevice()
	defer device.Free()
	dev := chunk.DeviceSpace{Device: device}

	t.Run("OneDim", func(t *testing.T) {
		dom := discrete.DomainOf[DDimX](0, 10)
		c := chunk.Alloc[int32](dom, chunk.Config{Space: dev})
		defer c.Free()

		kr := NewRunner(device, dom.Strided(), builder.Config{})
		defer kr.Free()
		require.NoError(t, BindSpan(kr, "c", c.SpanView()))
		require.NoError(t, kr.ParallelForEach("incr", "c(i_X) += 1;"))

		for _, v := range toHost(c.SpanView()).Data() {
			assert.Equal(t, int32(1), v)
		}
	})

	t.Run("TwoDimWithScalar", func(t *testing.T) {
		dom := domXY(10, 12)
		c := chunk.Alloc[float64](dom, chunk.Config{Space: dev})
		defer c.Free()

		kr := NewRunner(device, dom.Strided(), builder.Config{K: []int{50, 50, 20}})
		defer kr.Free()
		require.NoError(t, BindSpan(kr, "c", c.SpanView()))
		require.NoError(t, kr.BindScalar("scale", 0.5))
		require.NoError(t, kr.DefineKernel("index", "c(i_X, i_Y) = scale * (100 * i_X + i_Y);"))
		require.NoError(t, kr.RunKernel("index"))

		host := toHost(c.SpanView())
		for e := range dom.All() {
			assert.Equal(t, 0.5*float64(100*e.Uid(tagX)+e.Uid(tagY)), host.At(e))
		}

		// A new scalar value is seen by the next launch without recompiling
		require.NoError(t, kr.BindScalar("scale", 1.0))
		require.NoError(t, kr.RunKernel("index"))
		host = toHost(c.SpanView())
		assert.Equal(t, 907., host.At(discrete.NewElement(tagsXY, 9, 7)))

		assert.Error(t, kr.BindScalar("scale", int32(3)))
		sig, err := kr.GetKernelSignature("index")
		require.NoError(t, err)
		assert.Contains(t, sig, "const double scale")
	})

	t.Run("Strided", func(t *testing.T) {
		dom := domXY(10, 12)
		c := chunk.Alloc[int32](dom, chunk.Config{Space: dev})
		defer c.Free()
		sd := discrete.NewStridedDomain(dom.Front(), dom.Extents(), discrete.NewVector(tagsXY, 3, 3))

		kr := NewRunner(device, sd, builder.Config{})
		defer kr.Free()
		require.NoError(t, BindSpan(kr, "c", c.SpanView()))
		require.NoError(t, kr.ParallelForEach("mark", "c(i_X, i_Y) += 1;"))

		host := toHost(c.SpanView())
		total := int32(0)
		for _, v := range host.Data() {
			total += v
		}
		assert.Equal(t, int32(16), total)
		assert.Equal(t, int32(1), host.At(discrete.NewElement(tagsXY, 9, 9)))
		assert.Equal(t, int32(0), host.At(discrete.NewElement(tagsXY, 9, 10)))
	})

	t.Run("RebindLayout", func(t *testing.T) {
		dom := discrete.DomainOf[DDimX](0, 10)
		inner := discrete.DomainOf[DDimX](2, 3)
		c := chunk.Alloc[int32](dom, chunk.Config{Space: dev})
		defer c.Free()
		other := chunk.Alloc[int32](dom, chunk.Config{Space: dev})
		defer other.Free()

		kr := NewRunner(device, inner.Strided(), builder.Config{})
		defer kr.Free()
		require.NoError(t, BindSpan(kr, "c", c.SpanView()))
		require.NoError(t, kr.DefineKernel("incr", "c(i_X) += 1;"))
		require.NoError(t, kr.RunKernel("incr"))

		// Same shape, new memory: the compiled kernel still applies
		require.NoError(t, BindSpan(kr, "c", other.SpanView()))
		require.NoError(t, kr.RunKernel("incr"))

		// A sub-domain view moves base and front
		require.NoError(t, BindSpan(kr, "c", c.SpanView().SubDomain(inner)))
		err := kr.RunKernel("incr")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "different layout")

		require.NoError(t, kr.DefineKernel("incr", "c(i_X) += 1;"))
		require.NoError(t, kr.RunKernel("incr"))

		host := toHost(c.SpanView())
		for e := range dom.All() {
			want := int32(0)
			if inner.Contains(e) {
				want = 2
			}
			assert.Equal(t, want, host.At(e), "at %v", e)
		}
		for e := range inner.All() {
			assert.Equal(t, int32(1), toHost(other.SpanView()).At(e))
		}
	})

	t.Run("Errors", func(t *testing.T) {
		dom := discrete.DomainOf[DDimX](0, 4)
		kr := NewRunner(device, dom.Strided(), builder.Config{})
		defer kr.Free()

		host := chunk.New[float64]("h", dom)
		assert.Error(t, BindSpan(kr, "h", host.SpanView()))
		ints := chunk.Alloc[int](dom, chunk.Config{Space: dev})
		defer ints.Free()
		assert.Error(t, BindSpan(kr, "i", ints.SpanView()))
		assert.Error(t, kr.BindScalar("s", "text"))
		assert.Error(t, kr.RunKernel("missing"))
	})
}

func TestRunner_FillAndCopy(t *testing.T) {
	device := utils.CreateTestDevice()
	defer device.Free()
	dev := chunk.DeviceSpace{Device: device}

	dom := domXY(5, 6)
	host := chunk.New[float64]("host", dom)
	for e := range dom.All() {
		host.Set(float64(e.Uid(tagX))+.001*float64(e.Uid(tagY)), e)
	}

	t.Run("Fill", func(t *testing.T) {
		d := chunk.Alloc[float64](dom, chunk.Config{Space: dev})
		defer d.Free()
		require.NoError(t, ParallelFill(d.SpanView(), 3.25))

		// Only the Y=2 column changes
		col := d.Slice(discrete.Elem[DDimY](2))
		require.NoError(t, ParallelFill(col, -1.))
		back := toHost(d.SpanView())
		for e := range dom.All() {
			if e.Uid(tagY) == 2 {
				assert.Equal(t, -1., back.At(e))
			} else {
				assert.Equal(t, 3.25, back.At(e))
			}
		}
		assert.Error(t, ParallelFill(d.SpanCView(), 0.))
		assert.Error(t, ParallelFill(host.SpanView(), 0.))
	})

	t.Run("ReorderingCopy", func(t *testing.T) {
		src := chunk.CreateMirrorAndCopy[float64](dev, host.SpanView())
		defer src.Free()
		dst := chunk.Alloc[float64](dom.Select(tagY, tagX), chunk.Config{Space: dev})
		defer dst.Free()

		require.NoError(t, ParallelDeepCopy(dst.SpanView(), src.SpanView()))
		back := toHost(dst.SpanView())
		for e := range dom.All() {
			assert.Equal(t, host.At(e), back.At(e))
		}
	})

	t.Run("ShiftedFronts", func(t *testing.T) {
		src := chunk.CreateMirrorAndCopy[float64](dev, host.SpanView())
		defer src.Free()
		shifted := discrete.NewDomain(discrete.NewElement(tagsXY, 10, 20), dom.Extents())
		dst := chunk.Alloc[float64](shifted, chunk.Config{Space: dev})
		defer dst.Free()

		require.NoError(t, ParallelDeepCopy(dst.SpanView(), src.SpanView()))
		back := toHost(dst.SpanView())
		assert.Equal(t, host.Data(), back.Data())

		small := chunk.Alloc[float64](domXY(2, 2), chunk.Config{Space: dev})
		defer small.Free()
		assert.Error(t, ParallelDeepCopy(small.SpanView(), src.SpanView()))
	})
}
