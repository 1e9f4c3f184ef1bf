package runner

import (
	"fmt"
	"strings"

	"github.com/notargets/gocca"

	"github.com/notargets/ddc/chunk"
	"github.com/notargets/ddc/discrete"
	"github.com/notargets/ddc/runner/builder"
)

func deviceOf[T any](s chunk.ChunkSpan[T]) (*gocca.OCCADevice, error) {
	ds, ok := s.Space().(chunk.DeviceSpace)
	if !ok {
		return nil, fmt.Errorf("span lives in %s, not on a device", s.Space().Name())
	}
	return ds.Device, nil
}

// positions lists the member position variables of tags, as generated by
// the kernel loop
func positions(tags discrete.Tags) string {
	args := make([]string, len(tags))
	for i, tag := range tags {
		args[i] = "m_" + tag.TagName()
	}
	return strings.Join(args, ", ")
}

// ParallelFill assigns v to every element of a device span with one kernel
func ParallelFill[T any](s chunk.ChunkSpan[T], v T) error {
	device, err := deviceOf(s)
	if err != nil {
		return err
	}
	if s.ReadOnly() {
		return fmt.Errorf("cannot fill a read-only span")
	}
	if s.Size() == 0 {
		return nil
	}
	kr := NewRunner(device, s.Strided(), builder.Config{})
	defer kr.Free()

	if err := BindSpan(kr, "dst", s); err != nil {
		return err
	}
	if err := kr.BindScalar("value", v); err != nil {
		return err
	}
	body := fmt.Sprintf("dst_AT(%s) = value;", positions(s.Tags()))
	return kr.ParallelForEach("parallel_fill", body)
}

// ParallelDeepCopy copies src into dst on the device, matching dimensions by
// tag and members by position
func ParallelDeepCopy[T any](dst, src chunk.ChunkSpan[T]) error {
	device, err := deviceOf(dst)
	if err != nil {
		return err
	}
	if !dst.Tags().SameSet(src.Tags()) {
		return fmt.Errorf("cannot copy %v into %v", src.Tags(), dst.Tags())
	}
	dc, sc := dst.Strided().Counts(), src.Strided().Counts()
	for _, tag := range dst.Tags() {
		if dc.Get(tag) != sc.Get(tag) {
			return fmt.Errorf("extent mismatch along %s: %d vs %d", tag.TagName(), dc.Get(tag), sc.Get(tag))
		}
	}
	if dst.ReadOnly() {
		return fmt.Errorf("cannot copy into a read-only span")
	}
	if dst.Size() == 0 {
		return nil
	}

	kr := NewRunner(device, dst.Strided(), builder.Config{})
	defer kr.Free()

	if err := BindSpan(kr, "dst", dst); err != nil {
		return err
	}
	if err := BindSpan(kr, "src", src.SpanCView()); err != nil {
		return err
	}
	body := fmt.Sprintf("dst_AT(%s) = src_AT(%s);", positions(dst.Tags()), positions(src.Tags()))
	return kr.ParallelForEach("parallel_deepcopy", body)
}
