package stats

import (
	"cmp"
	"slices"

	"github.com/listenupapp/movielens/internal/result"
)

// Count tallies keys in first-seen order.
func Count[K comparable](keys []K) *result.Mapping[K, int] {
	counts := result.NewMapping[K, int](len(keys))
	for _, k := range keys {
		n, _ := counts.Get(k)
		counts.Set(k, n+1)
	}
	return counts
}

// Group collects values per key in first-seen key order.
func Group[T any, K comparable, V any](items []T, key func(T) K, value func(T) V) *result.Mapping[K, []V] {
	groups := result.NewMapping[K, []V](0)
	for _, item := range items {
		k := key(item)
		vs, _ := groups.Get(k)
		groups.Set(k, append(vs, value(item)))
	}
	return groups
}

// Summarize applies metric to every group, rounding each value to two decimals.
func Summarize[K comparable](groups *result.Mapping[K, []float64], metric Metric) *result.Mapping[K, float64] {
	out := result.NewMapping[K, float64](groups.Len())
	for _, e := range groups.Entries() {
		out.Set(e.Key, Round2(metric(e.Value)))
	}
	return out
}

// SortDesc orders entries by value, highest first. Equal values keep their
// current relative order.
func SortDesc[K comparable, V cmp.Ordered](m *result.Mapping[K, V]) *result.Mapping[K, V] {
	entries := slices.Clone(m.Entries())
	slices.SortStableFunc(entries, func(a, b result.Entry[K, V]) int {
		return cmp.Compare(b.Value, a.Value)
	})
	return result.MappingOf(entries...)
}

// TopDesc returns at most n entries with the highest values. Ties keep their
// current relative order. A negative n yields an empty mapping.
func TopDesc[K comparable, V cmp.Ordered](m *result.Mapping[K, V], n int) *result.Mapping[K, V] {
	sorted := SortDesc(m)
	return Truncate(sorted, n)
}

// Truncate keeps the first n entries.
func Truncate[K comparable, V any](m *result.Mapping[K, V], n int) *result.Mapping[K, V] {
	entries := m.Entries()
	n = max(n, 0)
	if n < len(entries) {
		entries = entries[:n]
	}
	return result.MappingOf(entries...)
}

// SortByKey orders entries by key ascending.
func SortByKey[K cmp.Ordered, V any](m *result.Mapping[K, V]) *result.Mapping[K, V] {
	entries := slices.Clone(m.Entries())
	slices.SortStableFunc(entries, func(a, b result.Entry[K, V]) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return result.MappingOf(entries...)
}
