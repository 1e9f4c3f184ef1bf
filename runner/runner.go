package runner

import (
	"fmt"
	"unsafe"

	"github.com/notargets/gocca"

	"github.com/notargets/ddc/discrete"
	"github.com/notargets/ddc/partitions"
	"github.com/notargets/ddc/runner/builder"
)

// DefaultPartitionSize bounds KpartMax when the caller leaves K empty. It
// stays under the @inner limit of every OCCA backend.
const DefaultPartitionSize = 256

// Runner compiles and launches kernels iterating one strided domain on one
// OCCA device
type Runner struct {
	*builder.Builder
	Device            *gocca.OCCADevice
	Domain            discrete.StridedDomain
	Kernels           map[string]*gocca.OCCAKernel
	PooledMemory      map[string]*gocca.OCCAMemory // Memory owned by the runner
	spanMemory        map[string]*gocca.OCCAMemory // Memory owned by bound chunks
	scalarValues      map[string]interface{}
	kernelDefinitions map[string]*KernelDefinition
}

// NewRunner creates a runner iterating sd. An empty cfg.K splits the domain
// into partitions of at most DefaultPartitionSize elements.
func NewRunner(device *gocca.OCCADevice, sd discrete.StridedDomain, cfg builder.Config) (kr *Runner) {
	if device == nil {
		panic("runner needs a device")
	}
	var (
		layout *partitions.PartitionLayout
		err    error
	)
	if len(cfg.K) == 0 {
		pb := partitions.PartitionBuilder{
			TotalElements:       sd.Size(),
			TargetPartitionSize: DefaultPartitionSize,
		}
		layout, err = pb.BuildPartitions()
	} else {
		layout, err = partitions.FromK(cfg.K)
	}
	if err != nil {
		panic(err)
	}
	if layout.KpartMax > 1048576 { // 2^20 elements
		stats := layout.PartitionStatistics()
		panic(fmt.Sprintf("KpartMax exceeds 2^20 (1048576), usually caused by unbalanced workloads.\n"+
			"Found KpartMax=%d over %d partitions (min %d, avg %.1f, imbalance %.2f).\n"+
			"Please balance K values or increase partition count.",
			layout.KpartMax, stats.NumPartitions, stats.MinElements, stats.AvgElements, stats.Imbalance))
	}
	cfg.K = layout.K()
	bld := builder.NewBuilder(cfg)

	if err := bld.SetDomain(dimsOf(sd)); err != nil {
		panic(err)
	}

	kr = &Runner{
		Builder:           bld,
		Device:            device,
		Domain:            sd,
		Kernels:           make(map[string]*gocca.OCCAKernel),
		PooledMemory:      make(map[string]*gocca.OCCAMemory),
		spanMemory:        make(map[string]*gocca.OCCAMemory),
		scalarValues:      make(map[string]interface{}),
		kernelDefinitions: make(map[string]*KernelDefinition),
	}

	kr.PooledMemory["K"] = kr.mallocInts(bld.K)
	kr.PooledMemory["Koffsets"] = kr.mallocInts(bld.Offsets())
	return
}

// dimsOf maps the dimensions of sd to kernel dimensions named by tag
func dimsOf(sd discrete.StridedDomain) []builder.Dim {
	tags := sd.Tags()
	front, counts, strides := sd.Front(), sd.Counts(), sd.Strides()
	dims := make([]builder.Dim, len(tags))
	for i, tag := range tags {
		dims[i] = builder.Dim{
			Name:   tag.TagName(),
			Front:  front.UidAt(i),
			Count:  counts.At(i),
			Stride: strides.At(i),
		}
	}
	return dims
}

// mallocInts copies vals to the device as int_t
func (kr *Runner) mallocInts(vals []int) *gocca.OCCAMemory {
	if kr.IntType == builder.INT32 {
		v32 := make([]int32, len(vals))
		for i, v := range vals {
			v32[i] = int32(v)
		}
		return kr.Device.Malloc(int64(len(v32))*SizeOfType(builder.INT32), unsafe.Pointer(&v32[0]), nil)
	}
	v64 := make([]int64, len(vals))
	for i, v := range vals {
		v64[i] = int64(v)
	}
	return kr.Device.Malloc(int64(len(v64))*SizeOfType(builder.INT64), unsafe.Pointer(&v64[0]), nil)
}

// BuildKernel compiles and registers a kernel with the program
func (kr *Runner) BuildKernel(kernelSource, kernelName string) (*gocca.OCCAKernel, error) {
	kr.GeneratePreamble()

	// Combine preamble with kernel source
	fullSource := kr.KernelPreamble + "\n" + kernelSource

	var kernel *gocca.OCCAKernel
	var err error

	if kr.Device.Mode() == "OpenMP" {
		// Workaround for OCCA bug: OpenMP doesn't get default -O3 flag
		props := gocca.JsonParse(`{"compiler_flags": "-O3"}`)
		defer props.Free()
		kernel, err = kr.Device.BuildKernelFromString(fullSource, kernelName, props)
	} else {
		kernel, err = kr.Device.BuildKernelFromString(fullSource, kernelName, nil)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to build kernel %s: %w", kernelName, err)
	}

	if kernel != nil {
		if old, exists := kr.Kernels[kernelName]; exists {
			old.Free()
		}
		kr.Kernels[kernelName] = kernel
		return kernel, nil
	}

	return nil, fmt.Errorf("kernel build returned nil for %s", kernelName)
}

// Free releases kernels and runner-owned memory. Bound spans keep their
// storage.
func (kr *Runner) Free() {
	for _, kernel := range kr.Kernels {
		kernel.Free()
	}
	for _, mem := range kr.PooledMemory {
		mem.Free()
	}
	clear(kr.Kernels)
	clear(kr.PooledMemory)
}
