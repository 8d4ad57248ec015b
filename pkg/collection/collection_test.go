package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapFilterFirst(t *testing.T) {
	nums := []int{1, 2, 3, 4, 5}

	doubled := Map(nums, func(n int) int { return n * 2 })
	assert.Equal(t, []int{2, 4, 6, 8, 10}, doubled)

	even := Filter(nums, func(n int) bool { return n%2 == 0 })
	assert.Equal(t, []int{2, 4}, even)

	first, ok := First(nums, func(n int) bool { return n > 3 })
	assert.True(t, ok)
	assert.Equal(t, 4, first)

	_, ok = First(nums, func(n int) bool { return n > 10 })
	assert.False(t, ok)
}

func TestGroupBySumBy(t *testing.T) {
	type sale struct {
		Day   string
		Total float64
	}
	sales := []sale{
		{"mon", 10}, {"mon", 5}, {"tue", 7},
	}

	grouped := GroupBy(sales, func(s sale) string { return s.Day })
	assert.Len(t, grouped, 2)
	assert.Len(t, grouped["mon"], 2)

	assert.Equal(t, 22.0, SumBy(sales, func(s sale) float64 { return s.Total }))
}

func TestUniqueSortByChunk(t *testing.T) {
	nums := []int{3, 1, 3, 2, 1}

	unique := Unique(nums, func(n int) int { return n })
	assert.Equal(t, []int{3, 1, 2}, unique)

	sorted := SortBy(unique, func(a, b int) bool { return a < b })
	assert.Equal(t, []int{1, 2, 3}, sorted)

	chunks := Chunk(sorted, 2)
	assert.Equal(t, [][]int{{1, 2}, {3}}, chunks)
}
