// Package chunk holds multi-dimensional arrays bound to discrete domains.
// A Chunk owns its storage, a ChunkSpan is a view into storage owned by
// someone else. Storage lives either in host memory or in OCCA device memory.
package chunk

import (
	"unsafe"

	"github.com/notargets/gocca"
)

// MemorySpace selects where a Chunk's storage lives
type MemorySpace interface {
	Name() string
}

// HostSpace stores data in a Go slice
type HostSpace struct{}

func (HostSpace) Name() string { return "Host" }

// DeviceSpace stores data in device memory of an OCCA device
type DeviceSpace struct {
	Device *gocca.OCCADevice
}

func (s DeviceSpace) Name() string { return "Device(" + s.Device.Mode() + ")" }

// SameSpace reports whether storage in a is directly usable from b
func SameSpace(a, b MemorySpace) bool {
	switch x := a.(type) {
	case HostSpace:
		_, ok := b.(HostSpace)
		return ok
	case DeviceSpace:
		y, ok := b.(DeviceSpace)
		return ok && x.Device == y.Device
	}
	return false
}

// Layout is the order in which the members of a domain are stored
type Layout int

const (
	// LayoutRight stores the last tag fastest, the default
	LayoutRight Layout = iota
	// LayoutLeft stores the first tag fastest
	LayoutLeft
	// LayoutStride is any other arrangement, as produced by slicing
	LayoutStride
)

func (l Layout) String() string {
	switch l {
	case LayoutRight:
		return "LayoutRight"
	case LayoutLeft:
		return "LayoutLeft"
	}
	return "LayoutStride"
}

// Config holds the allocation options of a Chunk
type Config struct {
	Label  string
	Space  MemorySpace // nil means HostSpace
	Layout Layout      // LayoutRight or LayoutLeft
}

// storage is the backing memory shared by a Chunk and all of its views
type storage[T any] struct {
	host  []T
	mem   *gocca.OCCAMemory
	space MemorySpace
	size  int
}

func newStorage[T any](space MemorySpace, size int) *storage[T] {
	st := &storage[T]{space: space, size: size}
	switch sp := space.(type) {
	case HostSpace:
		st.host = make([]T, size)
	case DeviceSpace:
		if size > 0 {
			// Device memory starts zeroed, like a fresh host slice
			zeros := make([]T, size)
			st.mem = sp.Device.Malloc(int64(size)*elemSize[T](), unsafe.Pointer(&zeros[0]), nil)
		}
	default:
		panic("chunk: unknown memory space")
	}
	return st
}

func (st *storage[T]) onHost() bool {
	_, ok := st.space.(HostSpace)
	return ok
}

func (st *storage[T]) free() {
	if st.mem != nil {
		st.mem.Free()
		st.mem = nil
	}
	st.host = nil
}

// read copies device elements [lo, lo+len(dst)) into dst
func (st *storage[T]) read(dst []T, lo int) {
	if len(dst) == 0 {
		return
	}
	esz := elemSize[T]()
	st.mem.CopyToWithOffset(unsafe.Pointer(&dst[0]), int64(len(dst))*esz, int64(lo)*esz)
}

// write copies src into device elements [lo, lo+len(src))
func (st *storage[T]) write(src []T, lo int) {
	if len(src) == 0 {
		return
	}
	esz := elemSize[T]()
	st.mem.CopyFromWithOffset(unsafe.Pointer(&src[0]), int64(len(src))*esz, int64(lo)*esz)
}

func elemSize[T any]() int64 {
	var sample T
	return int64(unsafe.Sizeof(sample))
}
