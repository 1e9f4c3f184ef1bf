// Package parallel runs element-wise functions over discrete domains on the
// host, either sequentially or split across goroutines. Device execution
// lives in the runner package.
package parallel

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/notargets/ddc/partitions"
)

// ExecutionSpace decides how many workers share a traversal
type ExecutionSpace interface {
	Concurrency() int
	Name() string
}

// Serial runs everything on the calling goroutine
type Serial struct{}

func (Serial) Concurrency() int { return 1 }
func (Serial) Name() string     { return "Serial" }

// HostParallel splits a traversal into Workers contiguous windows, one
// goroutine each. Zero Workers means runtime.NumCPU().
type HostParallel struct {
	Workers int
}

func (h HostParallel) Concurrency() int {
	if h.Workers > 0 {
		return h.Workers
	}
	return runtime.NumCPU()
}

func (h HostParallel) Name() string {
	return fmt.Sprintf("HostParallel(%d)", h.Concurrency())
}

// Default is the execution space used by callers with no preference
func Default() ExecutionSpace {
	return HostParallel{}
}

// run calls work once per partition of the layout. A panic inside a worker
// is re-raised on the calling goroutine after all workers stopped.
func run(layout *partitions.PartitionLayout, work func(p partitions.Partition)) {
	if layout.NumPartitions == 1 {
		work(layout.Partitions[0])
		return
	}

	var (
		wg       sync.WaitGroup
		once     sync.Once
		panicked interface{}
	)
	wg.Add(layout.NumPartitions)
	for _, p := range layout.Partitions {
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					once.Do(func() { panicked = r })
				}
			}()
			work(p)
		}()
	}
	wg.Wait()
	if panicked != nil {
		panic(panicked)
	}
}
