package parallel

import (
	"github.com/notargets/ddc/discrete"
	"github.com/notargets/ddc/partitions"
)

// ForEach calls fn on every member of d in iteration order, on the calling
// goroutine
func ForEach(d discrete.Iterable, fn func(e discrete.Element)) {
	for e := range d.Range(0, d.Size()) {
		fn(e)
	}
}

// ParallelForEach calls fn on every member of d exactly once, in no
// particular order. fn must be safe to run concurrently on distinct members.
func ParallelForEach(space ExecutionSpace, d discrete.Iterable, fn func(e discrete.Element)) {
	run(partitions.Split(d, space.Concurrency()), func(p partitions.Partition) {
		for e := range p.Range(d) {
			fn(e)
		}
	})
}
