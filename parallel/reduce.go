package parallel

import (
	"golang.org/x/sys/cpu"

	"github.com/notargets/ddc/discrete"
	"github.com/notargets/ddc/partitions"
)

// Reducer combines two partial results. It must be associative; workers
// combine their partials in partition order, so commutativity is not needed.
type Reducer[T any] func(a, b T) T

type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

func Sum[T Number](a, b T) T  { return a + b }
func Prod[T Number](a, b T) T { return a * b }
func Min[T Number](a, b T) T  { return min(a, b) }
func Max[T Number](a, b T) T  { return max(a, b) }
func LAnd(a, b bool) bool     { return a && b }
func LOr(a, b bool) bool      { return a || b }

// partial is one worker's running result, padded so that neighbouring
// workers do not share a cache line
type partial[T any] struct {
	_   cpu.CacheLinePad
	v   T
	set bool
	_   cpu.CacheLinePad
}

// TransformReduce returns init combined with fn(e) for every member e of d
func TransformReduce[T any](space ExecutionSpace, d discrete.Iterable, init T, reduce Reducer[T],
	fn func(e discrete.Element) T) T {
	layout := partitions.Split(d, space.Concurrency())
	parts := make([]partial[T], layout.NumPartitions)
	run(layout, func(p partitions.Partition) {
		acc := &parts[p.ID]
		for e := range p.Range(d) {
			v := fn(e)
			if acc.set {
				acc.v = reduce(acc.v, v)
			} else {
				acc.v, acc.set = v, true
			}
		}
	})
	out := init
	for i := range parts {
		if parts[i].set {
			out = reduce(out, parts[i].v)
		}
	}
	return out
}
