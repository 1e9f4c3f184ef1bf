package parallel

import (
	"github.com/notargets/ddc/chunk"
	"github.com/notargets/ddc/discrete"
	"github.com/notargets/ddc/partitions"
)

// ParallelFill assigns v to every element of s. Device spans are filled
// through the chunk package.
func ParallelFill[T any](space ExecutionSpace, s chunk.ChunkSpan[T], v T) {
	if !s.OnHost() {
		chunk.Fill(s, v)
		return
	}
	ParallelForEach(space, s.Iterable(), func(e discrete.Element) {
		s.Set(v, e)
	})
}

// ParallelDeepCopy copies src into dst, matching dimensions by tag. Host
// pairs split the traversal across workers; anything touching a device goes
// through chunk.DeepCopy.
func ParallelDeepCopy[T any](space ExecutionSpace, dst, src chunk.ChunkSpan[T]) {
	if !dst.OnHost() || !src.OnHost() || space.Concurrency() == 1 {
		chunk.DeepCopy(dst, src)
		return
	}
	run(partitions.Split(dst.Iterable(), space.Concurrency()), func(p partitions.Partition) {
		chunk.DeepCopyRange(dst, src, p.Start, p.End())
	})
}
