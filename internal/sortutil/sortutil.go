// Package sortutil provides the deterministic-ordering helpers behind
// discovery listings: customers, dates and months always come back sorted so
// repeated queries render identically.
package sortutil

import "sort"

// Sorted returns a lexicographically sorted copy of in. The input slice is
// left untouched so callers can keep their original ordering.
func Sorted(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}

// SortedKeys returns the keys of a string set in ascending order.
func SortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
