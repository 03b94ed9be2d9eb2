// Package queryspace expands a keyword and location vocabulary into the
// full ordered set of search queries for one pipeline run.
package queryspace

import "strings"

// Build generates every search query for the given vocabulary: for each
// location, every single keyword, then every ordered permutation of
// keywords of length 2..maxComboLen. The ordering is deterministic
// (locations outer, ascending permutation length, generation order), so
// the same vocabulary always yields the same query sequence.
//
// The total size is |locations| * sum over i=1..maxComboLen of P(n, i)
// where n = len(keywords).
func Build(locations, keywords []string, maxComboLen int) []string {
	if len(keywords) == 0 || len(locations) == 0 {
		return nil
	}
	if maxComboLen > len(keywords) {
		maxComboLen = len(keywords)
	}

	var queries []string
	for _, loc := range locations {
		for length := 1; length <= maxComboLen; length++ {
			for _, combo := range permutations(keywords, length) {
				queries = append(queries, loc+" "+strings.Join(combo, " "))
			}
		}
	}
	return queries
}

// Size returns the query count Build would produce without materializing
// the space.
func Size(numLocations, numKeywords, maxComboLen int) int {
	if numLocations == 0 || numKeywords == 0 {
		return 0
	}
	if maxComboLen > numKeywords {
		maxComboLen = numKeywords
	}
	perLocation := 0
	for length := 1; length <= maxComboLen; length++ {
		p := 1
		for i := 0; i < length; i++ {
			p *= numKeywords - i
		}
		perLocation += p
	}
	return numLocations * perLocation
}

// permutations returns all ordered selections of length k from items,
// without repetition, in a stable generation order.
func permutations(items []string, k int) [][]string {
	if k <= 0 || k > len(items) {
		return nil
	}

	var out [][]string
	used := make([]bool, len(items))
	current := make([]string, 0, k)

	var walk func()
	walk = func() {
		if len(current) == k {
			combo := make([]string, k)
			copy(combo, current)
			out = append(out, combo)
			return
		}
		for i, item := range items {
			if used[i] {
				continue
			}
			used[i] = true
			current = append(current, item)
			walk()
			current = current[:len(current)-1]
			used[i] = false
		}
	}
	walk()
	return out
}
