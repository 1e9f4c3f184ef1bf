package partitions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/ddc/discrete"
)

type DDimX struct{}

func (DDimX) TagName() string { return "X" }

type DDimY struct{}

func (DDimY) TagName() string { return "Y" }

func TestBuildPartitions(t *testing.T) {
	testCases := []struct {
		name         string
		total, n     int
		target       int
		expectedK    []int
		expectedKMax int
	}{
		{"even", 12, 3, 0, []int{4, 4, 4}, 4},
		{"remainder", 10, 4, 0, []int{3, 3, 2, 2}, 3},
		{"more_partitions_than_elements", 3, 8, 0, []int{1, 1, 1}, 1},
		{"target_size", 10, 0, 4, []int{4, 3, 3}, 4},
		{"single", 7, 1, 0, []int{7}, 7},
		{"empty", 0, 4, 0, []int{0}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pb := PartitionBuilder{TotalElements: tc.total, NumPartitions: tc.n, TargetPartitionSize: tc.target}
			layout, err := pb.BuildPartitions()
			require.NoError(t, err)
			assert.Equal(t, tc.expectedK, layout.K())
			if layout.KpartMax != tc.expectedKMax {
				t.Errorf("Expected KpartMax=%d, got %d", tc.expectedKMax, layout.KpartMax)
			}
			offsets := layout.Offsets()
			if offsets[len(offsets)-1] != tc.total {
				t.Errorf("Expected final offset %d, got %d", tc.total, offsets[len(offsets)-1])
			}
		})
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := (&PartitionBuilder{TotalElements: -1}).BuildPartitions()
		assert.Error(t, err)
		_, err = (&PartitionBuilder{TotalElements: 4, NumPartitions: -2}).BuildPartitions()
		assert.Error(t, err)
	})
}

func TestFromK(t *testing.T) {
	layout, err := FromK([]int{3, 0, 5, 2})
	require.NoError(t, err)
	assert.Equal(t, 10, layout.TotalElements)
	assert.Equal(t, 5, layout.KpartMax)
	assert.Equal(t, []int{0, 3, 3, 8, 10}, layout.Offsets())
	assert.Equal(t, []int{3, 0, 5, 2}, layout.K())

	stats := layout.PartitionStatistics()
	assert.Equal(t, 0, stats.MinElements)
	assert.InDelta(t, 2., stats.Imbalance, 1.e-12)

	_, err = FromK(nil)
	assert.Error(t, err)
	_, err = FromK([]int{4, -1})
	assert.Error(t, err)
}

func TestValidateLayout(t *testing.T) {
	layout := Split(discrete.DomainOf[DDimX](0, 9), 3)
	require.NoError(t, layout.ValidateLayout())

	layout.Partitions[1].Start++
	assert.Error(t, layout.ValidateLayout())
	layout.Partitions[1].Start--

	layout.Partitions[2].MaxElements = 5
	assert.Error(t, layout.ValidateLayout())
}

func TestPartitionRanges(t *testing.T) {
	dom := discrete.ProductDomain(discrete.DomainOf[DDimX](2, 5), discrete.DomainOf[DDimY](-1, 7))
	layout := Split(dom, 6)

	// The windows visit every member exactly once, in order
	var got []discrete.Element
	for _, p := range layout.Partitions {
		for e := range p.Range(dom) {
			got = append(got, e)
		}
	}
	require.Len(t, got, dom.Size())
	for i, e := range got {
		assert.Equal(t, i, dom.Offset(e))
	}

	stats := layout.PartitionStatistics()
	assert.Equal(t, 5, stats.MinElements)
	assert.Equal(t, 6, stats.MaxElements)
	assert.InDelta(t, 6./(35./6.), stats.Imbalance, 1.e-12)
}
