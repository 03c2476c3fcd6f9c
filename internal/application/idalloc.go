package application

import "slices"

// AllocateID returns the id to assign to a new record given the ids in use.
//
// The policy fills holes before extending: an empty set yields 0; a minimum
// above 0 yields min-1; otherwise the first interior gap a+1 in the sorted
// sequence; otherwise max+1. Callers depend on this exact choice among free
// ids, so it must not be replaced by a smallest-unused search.
func AllocateID(ids []int) int {
	if len(ids) == 0 {
		return 0
	}

	sorted := slices.Clone(ids)
	slices.Sort(sorted)

	if sorted[0] > 0 {
		return sorted[0] - 1
	}
	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i+1] != sorted[i]+1 {
			return sorted[i] + 1
		}
	}
	return sorted[len(sorted)-1] + 1
}
