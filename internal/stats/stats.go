// Package stats implements the small set of order statistics the analytics
// stages share: mean, median, interpolated percentiles, first-occurrence
// percentile ranks and equal-width bucketing.
//
// Every function treats an empty input as a defined zero result.
package stats

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median returns the 50th percentile.
func Median(values []float64) float64 {
	return Percentile(values, 0.5)
}

// Percentile returns the q-th quantile (0 <= q <= 1) using linear
// interpolation between the closest ranks. The input is not modified.
func Percentile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q = math.Max(0, math.Min(1, q))
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// PercentRank ranks values ascending and returns rank/n for each input
// position, in (0, 1]. Equal values receive distinct ranks in the order
// they appear, so the result depends only on input order.
func PercentRank(values []float64) []float64 {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] < values[idx[b]]
	})

	out := make([]float64, n)
	for rank, i := range idx {
		out[i] = float64(rank+1) / float64(n)
	}
	return out
}

// BinEdges returns n+1 equal-width edges over [0, 1]. Edge i is computed
// as i*(1/n) with the last edge pinned to exactly 1.
func BinEdges(n int) []float64 {
	edges := make([]float64, n+1)
	step := 1.0 / float64(n)
	for i := 0; i < n; i++ {
		edges[i] = float64(i) * step
	}
	edges[n] = 1
	return edges
}

// Bucket maps p in [0, 1] to a zero-based bin index over edges. Bins are
// right-closed, and the first bin also includes its lower edge:
// [e0,e1], (e1,e2], ... Values outside the range clamp to the end bins.
func Bucket(p float64, edges []float64) int {
	last := len(edges) - 2
	for i := 0; i < last; i++ {
		if p <= edges[i+1] {
			return i
		}
	}
	return last
}

// Score buckets p into len(labels) equal-width bins and returns the label
// of the selected bin.
func Score(p float64, labels []int) int {
	return labels[Bucket(p, BinEdges(len(labels)))]
}
