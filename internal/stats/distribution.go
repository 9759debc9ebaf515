// Package stats computes distributions, concentration measures, portfolio
// maturity scores and workload segmentation over account and case records.
//
// Everything here is pure computation over in-memory slices; ordering of
// every returned slice is deterministic so repeated runs over the same input
// render identically.
package stats

import (
	"sort"
)

// Group is one bucket of a distribution.
type Group struct {
	Key   string  `json:"key"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// DistributionResult is a complete grouped count over one dimension. Groups
// are ordered by descending count, ties broken by key, and only non-empty
// groups appear; the group counts always sum to Total.
type DistributionResult struct {
	Dimension     string  `json:"dimension"`
	Total         int     `json:"total"`
	Groups        []Group `json:"groups"`
	Concentration float64 `json:"concentration"`
}

// Count builds the distribution of keys for the named dimension. Every
// element contributes to exactly one group; callers map empty or unparseable
// values to a sentinel key before counting.
func Count(dimension string, keys []string) DistributionResult {
	counts := make(map[string]int)
	for _, k := range keys {
		counts[k]++
	}
	groups := make([]Group, 0, len(counts))
	total := len(keys)
	for k, n := range counts {
		g := Group{Key: k, Count: n}
		if total > 0 {
			g.Share = float64(n) / float64(total)
		}
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})

	sizes := make([]int, 0, len(groups))
	for _, g := range groups {
		sizes = append(sizes, g.Count)
	}
	return DistributionResult{
		Dimension:     dimension,
		Total:         total,
		Groups:        groups,
		Concentration: ConcentrationIndex(sizes),
	}
}

// ConcentrationIndex returns the Gini coefficient of the given sizes in
// [0, 1): 0 for a perfectly even spread, approaching 1 as a single bucket
// dominates. Degenerate inputs (one or zero buckets, all zeros) score 0.
func ConcentrationIndex(sizes []int) float64 {
	n := len(sizes)
	if n <= 1 {
		return 0
	}
	sorted := make([]int, n)
	copy(sorted, sizes)
	sort.Ints(sorted)

	var sum, weighted int
	for i, x := range sorted {
		sum += x
		weighted += (i + 1) * x
	}
	if sum == 0 {
		return 0
	}
	return float64(2*weighted)/(float64(n)*float64(sum)) - float64(n+1)/float64(n)
}
