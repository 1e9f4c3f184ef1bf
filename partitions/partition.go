package partitions

import (
	"fmt"
	"iter"

	"github.com/notargets/ddc/discrete"
)

// Partition is a contiguous window of linear offsets of a domain that
// executes as one unit: one worker on the host, one @outer iteration on a
// device
type Partition struct {
	ID          int
	Start       int // First linear offset of the window
	NumElements int // Number of members in the window
	MaxElements int // Padded size for OCCA @inner loop uniformity
}

// End returns one past the last linear offset of the window
func (p Partition) End() int {
	return p.Start + p.NumElements
}

// Range iterates the members of d that fall in the window
func (p Partition) Range(d discrete.Iterable) iter.Seq[discrete.Element] {
	return d.Range(p.Start, p.End())
}

// PartitionLayout manages the complete decomposition of a domain
type PartitionLayout struct {
	Partitions []Partition

	// Global sizing information
	KpartMax      int // max(NumElements) across all partitions for OCCA
	TotalElements int // Sum of all elements across partitions
	NumPartitions int
}

// K returns the number of elements of each partition
func (pl *PartitionLayout) K() []int {
	k := make([]int, pl.NumPartitions)
	for i, p := range pl.Partitions {
		k[i] = p.NumElements
	}
	return k
}

// Offsets returns the first linear offset of each partition followed by
// TotalElements
func (pl *PartitionLayout) Offsets() []int {
	off := make([]int, pl.NumPartitions+1)
	for i, p := range pl.Partitions {
		off[i] = p.Start
	}
	off[pl.NumPartitions] = pl.TotalElements
	return off
}

// ValidateLayout checks partition consistency
func (pl *PartitionLayout) ValidateLayout() error {
	if pl.NumPartitions != len(pl.Partitions) {
		return fmt.Errorf("NumPartitions %d != %d partitions", pl.NumPartitions, len(pl.Partitions))
	}
	actualMax, next := 0, 0
	for _, p := range pl.Partitions {
		if p.Start != next {
			return fmt.Errorf("partition %d starts at %d, expected %d", p.ID, p.Start, next)
		}
		next = p.End()
		if p.NumElements > actualMax {
			actualMax = p.NumElements
		}
		if p.MaxElements != pl.KpartMax {
			return fmt.Errorf("partition %d: MaxElements %d != KpartMax %d",
				p.ID, p.MaxElements, pl.KpartMax)
		}
	}
	if next != pl.TotalElements {
		return fmt.Errorf("partitions cover %d elements, expected %d", next, pl.TotalElements)
	}
	if actualMax != pl.KpartMax {
		return fmt.Errorf("computed KpartMax %d != stored KpartMax %d",
			actualMax, pl.KpartMax)
	}
	return nil
}

type PartitionStats struct {
	NumPartitions int
	MinElements   int
	MaxElements   int
	AvgElements   float64
	Imbalance     float64 // MaxElements / AvgElements
}

// PartitionStatistics computes load balance metrics
func (pl *PartitionLayout) PartitionStatistics() PartitionStats {
	stats := PartitionStats{
		NumPartitions: pl.NumPartitions,
		AvgElements:   float64(pl.TotalElements) / float64(pl.NumPartitions),
	}
	for i, p := range pl.Partitions {
		if i == 0 || p.NumElements < stats.MinElements {
			stats.MinElements = p.NumElements
		}
		if p.NumElements > stats.MaxElements {
			stats.MaxElements = p.NumElements
		}
	}
	if stats.AvgElements > 0 {
		stats.Imbalance = float64(stats.MaxElements) / stats.AvgElements
	}
	return stats
}
