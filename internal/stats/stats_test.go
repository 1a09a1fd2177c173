package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/movielens/internal/result"
)

func TestMetrics(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		mean     float64
		median   float64
		variance float64
	}{
		{name: "empty", values: nil},
		{name: "single", values: []float64{4}, mean: 4, median: 4, variance: 0},
		{name: "odd count", values: []float64{5, 3, 2}, mean: 10.0 / 3, median: 3, variance: 14.0 / 9},
		{name: "even count", values: []float64{4, 1, 3, 2}, mean: 2.5, median: 2.5, variance: 1.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.mean, Mean(tt.values), 1e-9)
			assert.InDelta(t, tt.median, Median(tt.values), 1e-9)
			assert.InDelta(t, tt.variance, Variance(tt.values), 1e-9)
		})
	}
}

func TestMedian_DoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.56, Round2(14.0/9))
	assert.Equal(t, 3.33, Round2(10.0/3))
	assert.Equal(t, 5.0, Round2(5))
}

func TestMetricByName(t *testing.T) {
	for _, name := range []string{"", "mean", "median", "variance"} {
		m, ok := MetricByName(name)
		assert.True(t, ok, name)
		assert.NotNil(t, m, name)
	}
	_, ok := MetricByName("mode")
	assert.False(t, ok)
}

func TestCount_FirstSeenOrder(t *testing.T) {
	counts := Count([]string{"b", "a", "b", "c", "a", "b"})
	assert.Equal(t, []string{"b", "a", "c"}, counts.Keys())
	assert.Equal(t, []int{3, 2, 1}, counts.Values())
}

func TestTopDesc_StableTies(t *testing.T) {
	m := result.MappingOf(
		result.Entry[string, int]{Key: "x", Value: 1},
		result.Entry[string, int]{Key: "y", Value: 3},
		result.Entry[string, int]{Key: "z", Value: 1},
		result.Entry[string, int]{Key: "w", Value: 3},
	)

	top := TopDesc(m, 3)
	require.Equal(t, 3, top.Len())
	assert.Equal(t, []string{"y", "w", "x"}, top.Keys())

	assert.Equal(t, 0, TopDesc(m, 0).Len())
	assert.Equal(t, 0, TopDesc(m, -1).Len())
	assert.Equal(t, 4, TopDesc(m, 10).Len())
}

func TestGroupAndSummarize(t *testing.T) {
	type pair struct {
		key   int
		value float64
	}
	items := []pair{{2, 5}, {1, 4}, {2, 3}, {2, 2}, {1, 4}}

	groups := Group(items, func(p pair) int { return p.key }, func(p pair) float64 { return p.value })
	assert.Equal(t, []int{2, 1}, groups.Keys())

	summary := Summarize(groups, Variance)
	v, ok := summary.Get(2)
	require.True(t, ok)
	assert.Equal(t, 1.56, v)
	v, _ = summary.Get(1)
	assert.Equal(t, 0.0, v)
}

func TestSortByKey(t *testing.T) {
	m := Count([]float64{4, 2.5, 4, 1})
	sorted := SortByKey(m)
	assert.Equal(t, []float64{1, 2.5, 4}, sorted.Keys())
	assert.Equal(t, []int{1, 1, 2}, sorted.Values())
}
