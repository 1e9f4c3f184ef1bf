package partitions

import (
	"fmt"
	"math"

	"github.com/notargets/ddc/discrete"
)

// PartitionBuilder splits TotalElements linear offsets into contiguous
// windows whose sizes differ by at most one
type PartitionBuilder struct {
	TotalElements int

	// NumPartitions wins when set, otherwise TargetPartitionSize decides
	NumPartitions       int
	TargetPartitionSize int
}

// BuildPartitions creates the partition layout
func (pb *PartitionBuilder) BuildPartitions() (*PartitionLayout, error) {
	if pb.TotalElements < 0 {
		return nil, fmt.Errorf("negative element count %d", pb.TotalElements)
	}
	if pb.NumPartitions < 0 || pb.TargetPartitionSize < 0 {
		return nil, fmt.Errorf("negative partition parameters (%d, %d)",
			pb.NumPartitions, pb.TargetPartitionSize)
	}

	numPartitions := pb.calculateNumPartitions()
	return newLayout(pb.createPartitions(numPartitions))
}

// FromK lays out consecutive partitions holding k[i] elements each
func FromK(k []int) (*PartitionLayout, error) {
	if len(k) == 0 {
		return nil, fmt.Errorf("no partitions given")
	}
	partitions := make([]Partition, len(k))
	start := 0
	for i, n := range k {
		if n < 0 {
			return nil, fmt.Errorf("partition %d has negative size %d", i, n)
		}
		partitions[i] = Partition{ID: i, Start: start, NumElements: n}
		start += n
	}
	return newLayout(partitions)
}

// newLayout pads every partition to the largest one and validates the result
func newLayout(partitions []Partition) (*PartitionLayout, error) {
	kpartMax := calculateKpartMax(partitions)
	total := 0
	for i := range partitions {
		partitions[i].MaxElements = kpartMax
		total += partitions[i].NumElements
	}

	layout := &PartitionLayout{
		Partitions:    partitions,
		KpartMax:      kpartMax,
		TotalElements: total,
		NumPartitions: len(partitions),
	}
	if err := layout.ValidateLayout(); err != nil {
		return nil, fmt.Errorf("invalid partition layout: %w", err)
	}
	return layout, nil
}

// calculateNumPartitions never returns more partitions than elements, and
// always at least one
func (pb *PartitionBuilder) calculateNumPartitions() int {
	n := pb.NumPartitions
	if n == 0 && pb.TargetPartitionSize > 0 {
		n = int(math.Ceil(float64(pb.TotalElements) / float64(pb.TargetPartitionSize)))
	}
	if n > pb.TotalElements {
		n = pb.TotalElements
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (pb *PartitionBuilder) createPartitions(numPartitions int) []Partition {
	partitions := make([]Partition, numPartitions)
	base, rem := pb.TotalElements/numPartitions, pb.TotalElements%numPartitions
	start := 0
	for i := range partitions {
		n := base
		if i < rem {
			n++
		}
		partitions[i] = Partition{ID: i, Start: start, NumElements: n}
		start += n
	}
	return partitions
}

func calculateKpartMax(partitions []Partition) int {
	kpartMax := 0
	for _, p := range partitions {
		if p.NumElements > kpartMax {
			kpartMax = p.NumElements
		}
	}
	return kpartMax
}

// Split divides the members of d into at most n balanced windows
func Split(d discrete.Iterable, n int) *PartitionLayout {
	pb := PartitionBuilder{TotalElements: d.Size(), NumPartitions: n}
	layout, err := pb.BuildPartitions()
	if err != nil {
		panic(fmt.Sprintf("partitions: %v", err))
	}
	return layout
}
